package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/response"
	"github.com/Guyuepp/artshare/internal/usecase/interaction"
)

// ImageHandler represent the httphandler for likes, favorites and views
type ImageHandler struct {
	Images      domain.ImageRepository
	Interaction *interaction.Service

	trackers *registry[*interaction.Tracker]
}

func NewImageHandler(images domain.ImageRepository, svc *interaction.Service) *ImageHandler {
	return &ImageHandler{
		Images:      images,
		Interaction: svc,
		trackers:    newRegistry[*interaction.Tracker](ComponentIdleTTL),
	}
}

// tracker returns the caller's tracker of image id, creating, binding and
// loading it on first use.
func (h *ImageHandler) tracker(ctx context.Context, c *gin.Context, id string) (*interaction.Tracker, error) {
	k := key(userID(c), id)
	if t, ok := h.trackers.get(k); ok {
		return t, nil
	}

	img, err := h.Images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := h.Interaction.NewTracker(sessionOf(c))
	t.Bind(img)
	if _, err := t.Load(ctx); err != nil {
		return nil, err
	}
	return h.trackers.put(k, t), nil
}

// GetInteraction returns the caller's like/favorite state with fresh counters
func (h *ImageHandler) GetInteraction(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.tracker(ctx, c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	st, err := t.LoadStats(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewInteractionFromDomain(st))
}

// CloseInteraction drops the caller's tracker, as when the image view closes
func (h *ImageHandler) CloseInteraction(c *gin.Context) {
	h.trackers.remove(key(userID(c), c.Param("id")))
	c.Status(http.StatusNoContent)
}

// Like toggles the caller's like
func (h *ImageHandler) Like(c *gin.Context) {
	h.toggle(c, (*interaction.Tracker).ToggleLike)
}

// Favorite toggles the caller's favorite
func (h *ImageHandler) Favorite(c *gin.Context) {
	h.toggle(c, (*interaction.Tracker).ToggleFavorite)
}

func (h *ImageHandler) toggle(c *gin.Context, fn func(*interaction.Tracker, context.Context) (domain.InteractionState, error)) {
	// 未登录时不发任何请求
	if userID(c) == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}
	ctx := c.Request.Context()
	t, err := h.tracker(ctx, c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	st, err := fn(t, ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewInteractionFromDomain(st))
}

// RecordView queues one view of the image
func (h *ImageHandler) RecordView(c *gin.Context) {
	t, err := h.tracker(c.Request.Context(), c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := t.RecordView(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// GetByID returns one image with its owner
func (h *ImageHandler) GetByID(c *gin.Context) {
	img, err := h.Images.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewImageFromDomain(&img))
}
