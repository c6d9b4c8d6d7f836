package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
	"github.com/Guyuepp/artshare/internal/rest/response"
	"github.com/Guyuepp/artshare/internal/usecase/notification"
)

type NotificationHandler struct {
	Service domain.NotificationUsecase
}

func NewNotificationHandler(svc domain.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		Service: svc,
	}
}

func (h *NotificationHandler) Fetch(c *gin.Context) {
	limit := queryInt(c, "limit", notification.DefaultListLimit, 1, notification.MaxListLimit)
	list, err := h.Service.List(c.Request.Context(), userID(c), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewNotificationsFromDomain(list))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req request.MarkRead
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	if err := h.Service.MarkRead(c.Request.Context(), userID(c), req.IDs); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
