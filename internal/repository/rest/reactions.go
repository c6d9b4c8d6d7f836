package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Guyuepp/artshare/domain"
)

type reactionRow struct {
	UserID  string `json:"user_id" validate:"required"`
	ImageID string `json:"image_id" validate:"required"`
}

// reactionRepository serves the likes and favorites collections.
type reactionRepository struct {
	c     *Client
	table string
}

var (
	_ domain.LikeRepository     = (*reactionRepository)(nil)
	_ domain.FavoriteRepository = (*reactionRepository)(nil)
)

func NewLikeRepository(c *Client) *reactionRepository {
	return &reactionRepository{c: c, table: "likes"}
}

func NewFavoriteRepository(c *Client) *reactionRepository {
	return &reactionRepository{c: c, table: "favorites"}
}

func (r *reactionRepository) filter(userID, imageID string) url.Values {
	return url.Values{"user_id": {eq(userID)}, "image_id": {eq(imageID)}}
}

func (r *reactionRepository) Exists(ctx context.Context, userID, imageID string) (bool, error) {
	n, err := r.c.count(ctx, r.table, r.filter(userID, imageID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *reactionRepository) Insert(ctx context.Context, in domain.Reaction) error {
	_, err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + r.table,
		body:   map[string]string{"user_id": in.UserID, "image_id": in.ImageID},
	})
	return err
}

func (r *reactionRepository) Delete(ctx context.Context, userID, imageID string) error {
	resp, err := r.c.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/rest/v1/" + r.table,
		query:   r.filter(userID, imageID),
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return err
	}
	rows, err := decodeRows[reactionRow](r.c, resp.body)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}
