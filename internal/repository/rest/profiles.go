package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Guyuepp/artshare/domain"
)

const profileColumns = "id,username,full_name,avatar_url,bio,created_at"

type profileRepository struct {
	c *Client
}

var _ domain.ProfileRepository = (*profileRepository)(nil)

func NewProfileRepository(c *Client) *profileRepository {
	return &profileRepository{c: c}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/user_profiles",
		query:  url.Values{"select": {profileColumns}, "id": {eq(id)}, "limit": {"1"}},
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return decodeOne[domain.Profile](r.c, resp.body)
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/user_profiles",
		query:  url.Values{"select": {profileColumns}, "id": {inList(ids)}},
	})
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.Profile](r.c, resp.body)
}
