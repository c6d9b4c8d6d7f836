package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository"
)

const commentColumns = "id,image_id,user_id,content,created_at,updated_at,user_profiles(id,username,full_name,avatar_url)"

type commentRepository struct {
	c *Client
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(c *Client) *commentRepository {
	return &commentRepository{c: c}
}

func (r *commentRepository) FetchByImage(ctx context.Context, imageID string, limit int) ([]domain.RawComment, error) {
	repository.PageVerify(&limit)
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/comments",
		query: url.Values{
			"select":   {commentColumns},
			"image_id": {eq(imageID)},
			"order":    {"created_at.desc"},
			"limit":    {strconv.Itoa(limit)},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.RawComment](r.c, resp.body)
}

func (r *commentRepository) Insert(ctx context.Context, in domain.RawComment) (domain.RawComment, error) {
	resp, err := r.c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/comments",
		query:   url.Values{"select": {commentColumns}},
		body:    map[string]string{"image_id": in.ImageID, "user_id": in.UserID, "content": in.Content},
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return domain.RawComment{}, err
	}
	return decodeOne[domain.RawComment](r.c, resp.body)
}

// Update filters on the owner as well as the id; an empty representation
// means the caller does not own the comment, or it is gone.
func (r *commentRepository) Update(ctx context.Context, id, userID, content string) (domain.RawComment, error) {
	resp, err := r.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/comments",
		query: url.Values{
			"select":  {commentColumns},
			"id":      {eq(id)},
			"user_id": {eq(userID)},
		},
		body:    map[string]any{"content": content, "updated_at": time.Now().UTC()},
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return domain.RawComment{}, err
	}
	c, err := decodeOne[domain.RawComment](r.c, resp.body)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RawComment{}, r.ownerOrMissing(ctx, id)
	}
	return c, err
}

func (r *commentRepository) Delete(ctx context.Context, id, userID string) error {
	resp, err := r.c.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/rest/v1/comments",
		query:   url.Values{"select": {"id"}, "id": {eq(id)}, "user_id": {eq(userID)}},
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return err
	}
	if _, err := decodeOne[idRow](r.c, resp.body); errors.Is(err, domain.ErrNotFound) {
		return r.ownerOrMissing(ctx, id)
	} else if err != nil {
		return err
	}
	return nil
}

func (r *commentRepository) ownerOrMissing(ctx context.Context, id string) error {
	n, err := r.c.count(ctx, "comments", url.Values{"id": {eq(id)}})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrNotOwner
}

type idRow struct {
	ID string `json:"id" validate:"required"`
}
