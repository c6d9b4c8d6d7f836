package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
	"github.com/Guyuepp/artshare/internal/rest/response"
	"github.com/Guyuepp/artshare/internal/session"
)

// AuthHandler fronts the backend's session auth. The server keeps no session
// of its own: each request restores the browser's session into a fresh
// holder.
type AuthHandler struct {
	Auth domain.AuthService
}

func NewAuthHandler(auth domain.AuthService) *AuthHandler {
	return &AuthHandler{
		Auth: auth,
	}
}

func (h *AuthHandler) holder() *session.Holder {
	hd := session.NewHolder(h.Auth)
	hd.Subscribe(func(e domain.SessionEvent, s *domain.Session) {
		uid := ""
		if s != nil {
			uid = s.UserID
		}
		logrus.WithFields(logrus.Fields{"event": e.String(), "user": uid}).Info("session changed")
	})
	return hd
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req request.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	s, err := h.holder().SignUp(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewSessionFromDomain(s))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	s, err := h.holder().SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewSessionFromDomain(s))
}

// Refresh restores the posted session, refreshing it when it has expired,
// and forces a refresh otherwise.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.Session
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	ctx := c.Request.Context()
	hd := h.holder()
	restored, err := hd.Restore(ctx, req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if restored.AccessToken != req.AccessToken {
		c.JSON(http.StatusOK, response.NewSessionFromDomain(restored))
		return
	}
	s, err := hd.Refresh(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewSessionFromDomain(s))
}

// Logout revokes the posted session on the backend
func (h *AuthHandler) Logout(c *gin.Context) {
	var req request.Session
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	ctx := c.Request.Context()
	hd := h.holder()
	if _, err := hd.Restore(ctx, req.ToDomain()); err != nil {
		// 已过期的会话视为已退出
		c.Status(http.StatusNoContent)
		return
	}
	if err := hd.SignOut(ctx); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
