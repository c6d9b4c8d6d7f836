package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type authService struct {
	c   *Client
	now func() time.Time
}

var _ domain.AuthService = (*authService)(nil)

func NewAuthService(c *Client) *authService {
	return &authService{c: c, now: time.Now}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id" validate:"required"`
		Email string `json:"email"`
	} `json:"user"`
}

func (a *authService) SignUp(ctx context.Context, email, password string) (domain.Session, error) {
	return a.token(ctx, "/auth/v1/signup", nil, email, password)
}

func (a *authService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	return a.token(ctx, "/auth/v1/token", url.Values{"grant_type": {"password"}}, email, password)
}

func (a *authService) token(ctx context.Context, path string, query url.Values, email, password string) (domain.Session, error) {
	creds := credentials{Email: email, Password: password}
	if err := a.c.validate.Struct(creds); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}
	resp, err := a.c.do(ctx, request{method: http.MethodPost, path: path, query: query, body: creds})
	if err != nil {
		return domain.Session{}, err
	}
	return a.session(resp.body)
}

func (a *authService) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.c.do(WithAccessToken(ctx, accessToken), request{method: http.MethodPost, path: "/auth/v1/logout"})
	return err
}

func (a *authService) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	resp, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		return domain.Session{}, err
	}
	return a.session(resp.body)
}

func (a *authService) session(data []byte) (domain.Session, error) {
	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := a.c.validate.Struct(tr); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	s := domain.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
	}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		s.ExpiresAt = a.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}
