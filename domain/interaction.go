package domain

import (
	"context"
	"time"
)

// Reaction is representing a like or favorite row
type Reaction struct {
	ImageID   string
	UserID    string
	CreatedAt time.Time
}

// ReactionRepository is the row contract shared by the likes and favorites
// collections.
type ReactionRepository interface {
	// Exists reports whether userID already reacted to imageID.
	Exists(ctx context.Context, userID, imageID string) (bool, error)

	// Insert stores the reaction.
	// Returns ErrConflict if the row already exists.
	Insert(ctx context.Context, r Reaction) error

	// Delete removes the reaction.
	// Returns ErrNotFound if there was nothing to delete.
	Delete(ctx context.Context, userID, imageID string) error
}

// LikeRepository is the likes collection.
type LikeRepository interface {
	ReactionRepository
}

// FavoriteRepository is the favorites collection.
type FavoriteRepository interface {
	ReactionRepository
}

// InteractionState is the per-(user, image) view of likes and favorites.
type InteractionState struct {
	ImageID      string
	IsLiked      bool
	IsFavorited  bool
	LikeLoading  bool
	FavLoading   bool
	LikeCount    int64
	ViewCount    int64
	CommentCount int64
}

// IsLoading reports whether any axis has a request in flight.
func (s InteractionState) IsLoading() bool {
	return s.LikeLoading || s.FavLoading
}
