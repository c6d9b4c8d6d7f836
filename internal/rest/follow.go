package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
)

// FollowHandler represent the httphandler for the follow graph
type FollowHandler struct {
	Service domain.FollowUsecase
}

func NewFollowHandler(svc domain.FollowUsecase) *FollowHandler {
	return &FollowHandler{
		Service: svc,
	}
}

// Follow makes the caller follow :id
func (h *FollowHandler) Follow(c *gin.Context) {
	if err := h.Service.Follow(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": true})
}

// Unfollow removes the caller's edge to :id
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.Service.Unfollow(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": false})
}

// IsFollowing reports whether the caller follows :id. Anonymous callers
// follow nobody.
func (h *FollowHandler) IsFollowing(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusOK, gin.H{"following": false})
		return
	}
	ok, err := h.Service.IsFollowing(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}

// FetchStats never fails: an unreachable backend shows zero counts
func (h *FollowHandler) FetchStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetFollowStats(c.Request.Context(), c.Param("id")))
}

// CheckStatus answers for many users at once, e.g. a list of avatars
func (h *FollowHandler) CheckStatus(c *gin.Context) {
	var req request.FollowStatus
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	res, err := h.Service.CheckMultipleFollowStatus(c.Request.Context(), req.IDs, userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": res})
}
