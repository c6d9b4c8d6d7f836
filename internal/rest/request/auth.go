package request

import "github.com/Guyuepp/artshare/domain"

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Session is a session the browser kept from an earlier sign in.
type Session struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
}

// ToDomain: Request -> Domain
func (s *Session) ToDomain() domain.Session {
	return domain.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
