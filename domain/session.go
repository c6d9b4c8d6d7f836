package domain

import (
	"context"
	"time"
)

// Session is an authenticated identity issued by the backend's auth surface.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type SessionEvent int8

const (
	SessionSignedIn SessionEvent = iota + 1
	SessionSignedOut
	SessionTokenRefreshed
)

func (e SessionEvent) String() string {
	switch e {
	case SessionSignedIn:
		return "SIGNED_IN"
	case SessionSignedOut:
		return "SIGNED_OUT"
	case SessionTokenRefreshed:
		return "TOKEN_REFRESHED"
	default:
		return "UNKNOWN"
	}
}

// SessionSource tells components who the acting user is.
type SessionSource interface {
	// UserID returns the signed-in user's id, or false when nobody is signed in.
	UserID() (string, bool)
}

// AuthService is the backend's session-based auth surface.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// Refresh exchanges a refresh token for a new session.
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}
