package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
	"github.com/Guyuepp/artshare/internal/rest/response"
	"github.com/Guyuepp/artshare/internal/usecase/comment"
)

type commentHandler struct {
	Images  domain.ImageRepository
	Service *comment.Service

	threads *registry[*comment.Thread]
}

func NewCommentHandler(images domain.ImageRepository, svc *comment.Service) *commentHandler {
	return &commentHandler{
		Images:  images,
		Service: svc,
		threads: newRegistry[*comment.Thread](ComponentIdleTTL),
	}
}

// thread returns the caller's thread of image id. A new thread is bound and
// loaded before it is shared.
func (h *commentHandler) thread(ctx context.Context, c *gin.Context, id string) (*comment.Thread, error) {
	k := key(userID(c), id)
	if t, ok := h.threads.get(k); ok {
		return t, nil
	}

	img, err := h.Images.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := h.Service.NewThread(sessionOf(c))
	t.Bind(img)
	if _, err := t.Load(ctx); err != nil {
		return nil, err
	}
	return h.threads.put(k, t), nil
}

// FetchCommentsByImage reloads the newest comments
func (h *commentHandler) FetchCommentsByImage(c *gin.Context) {
	ctx := c.Request.Context()
	k := key(userID(c), c.Param("id"))
	t, cached := h.threads.get(k)
	if !cached {
		var err error
		if t, err = h.thread(ctx, c, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
	} else if _, err := t.Load(ctx); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewThread(t.Items(), t.Submitting()))
}

func (h *commentHandler) CreateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	if userID(c) == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}

	ctx := c.Request.Context()
	t, err := h.thread(ctx, c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	created, err := t.Add(ctx, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCommentFromDomain(&created))
}

func (h *commentHandler) UpdateComment(c *gin.Context) {
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	if userID(c) == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}

	ctx := c.Request.Context()
	t, err := h.thread(ctx, c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	updated, err := t.Update(ctx, c.Param("cid"), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(&updated))
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	if userID(c) == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}

	ctx := c.Request.Context()
	t, err := h.thread(ctx, c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := t.Delete(ctx, c.Param("cid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
