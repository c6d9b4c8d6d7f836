package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Guyuepp/artshare/domain"
)

type followRepository struct {
	c *Client
}

var _ domain.FollowRepository = (*followRepository)(nil)

func NewFollowRepository(c *Client) *followRepository {
	return &followRepository{c: c}
}

func (r *followRepository) edge(followerID, followingID string) url.Values {
	return url.Values{"follower_id": {eq(followerID)}, "following_id": {eq(followingID)}}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	n, err := r.c.count(ctx, "follows", r.edge(followerID, followingID))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *followRepository) Insert(ctx context.Context, e domain.FollowEdge) error {
	_, err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/follows",
		body:   map[string]string{"follower_id": e.FollowerID, "following_id": e.FollowingID},
	})
	return err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	_, err := r.c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/follows",
		query:  r.edge(followerID, followingID),
	})
	return err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.c.count(ctx, "follows", url.Values{"following_id": {eq(userID)}})
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.c.count(ctx, "follows", url.Values{"follower_id": {eq(userID)}})
}

type followingRow struct {
	FollowingID string `json:"following_id" validate:"required"`
}

func (r *followRepository) FollowingAmong(ctx context.Context, followerID string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/follows",
		query: url.Values{
			"select":       {"following_id"},
			"follower_id":  {eq(followerID)},
			"following_id": {inList(candidates)},
		},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[followingRow](r.c, resp.body)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(rows))
	for i, row := range rows {
		res[i] = row.FollowingID
	}
	return res, nil
}
