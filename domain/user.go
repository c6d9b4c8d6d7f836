package domain

import (
	"context"
	"time"
)

// Profile represents the public profile of a user (user_profiles).
type Profile struct {
	ID        string    `json:"id" validate:"required"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName prefers the full name and falls back to the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	return "Anonymous"
}

// ProfileRepository defines the contract for profile lookups.
type ProfileRepository interface {
	// GetByID retrieves a profile by user id.
	// Returns ErrNotFound if the profile doesn't exist.
	GetByID(ctx context.Context, id string) (Profile, error)

	// GetByIDs retrieves the profiles that exist among ids.
	GetByIDs(ctx context.Context, ids []string) ([]Profile, error)
}
