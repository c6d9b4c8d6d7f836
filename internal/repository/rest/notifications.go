package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Guyuepp/artshare/domain"
)

type notificationRepository struct {
	c *Client
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository(c *Client) *notificationRepository {
	return &notificationRepository{c: c}
}

func (r *notificationRepository) Insert(ctx context.Context, n domain.Notification) error {
	if err := r.c.validate.Struct(n); err != nil {
		return domain.ErrBadParamInput
	}
	body := map[string]any{
		"user_id":  n.UserID,
		"actor_id": n.ActorID,
		"type":     n.Type,
	}
	if n.ImageID != "" {
		body["image_id"] = n.ImageID
	}
	_, err := r.c.do(ctx, request{method: http.MethodPost, path: "/rest/v1/notifications", body: body})
	return err
}

func (r *notificationRepository) FetchByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/notifications",
		query: url.Values{
			"select":  {"id,user_id,actor_id,type,image_id,read,created_at"},
			"user_id": {eq(userID)},
			"order":   {"created_at.desc"},
			"limit":   {strconv.Itoa(limit)},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.Notification](r.c, resp.body)
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) error {
	_, err := r.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/notifications",
		query:  url.Values{"user_id": {eq(userID)}, "id": {inList(ids)}},
		body:   map[string]bool{"read": true},
	})
	return err
}
