package domain

import (
	"context"
	"time"
)

// Image is representing an uploaded artwork
type Image struct {
	ID           string    // Unique identifier of the image
	OwnerID      string    // Uploader's user id
	Owner        Profile   // Uploader's profile, filled by the coordinating repository
	Title        string    // Artwork title
	Description  string    // Free-form description
	StoragePath  string    // Object path inside the storage bucket
	URL          string    // Public URL of the stored file
	Tags         []string  // Lower-case tags
	LikeCount    int64     // Server-authoritative like counter
	ViewCount    int64     // Server-authoritative view counter
	CommentCount int64     // Server-authoritative comment counter
	Favorited    bool      // Whether the viewing user favorited it (feeds only)
	CreatedAt    time.Time // Upload timestamp
	UpdatedAt    time.Time // Last metadata change
}

// ImageStats is the counter projection of an image.
type ImageStats struct {
	LikeCount    int64
	ViewCount    int64
	CommentCount int64
}

// TagCount is one entry of the popular tags list.
type TagCount struct {
	Tag   string
	Count int64
}

// ImageRepository defines the read contract for images held by the backend
type ImageRepository interface {
	// GetByID retrieves a single image by its ID.
	// Returns ErrNotFound if the image doesn't exist.
	GetByID(ctx context.Context, id string) (Image, error)

	// Fetch retrieves one page of the feed described by q.
	// offset/limit follow the backend's range semantics.
	Fetch(ctx context.Context, q FeedQuery, offset, limit int) ([]Image, error)

	// GetStats reads the current counters of an image.
	GetStats(ctx context.Context, id string) (ImageStats, error)

	// PopularTags returns the most used tags, most used first.
	PopularTags(ctx context.Context, limit int) ([]TagCount, error)
}

// CounterRPC wraps the backend's atomic counter procedures. The client never
// computes a counter by reading then writing.
type CounterRPC interface {
	// IncrementLikeCount calls increment_like_count and returns the new count.
	IncrementLikeCount(ctx context.Context, imageID string) (int64, error)
	// DecrementLikeCount calls decrement_like_count and returns the new count.
	DecrementLikeCount(ctx context.Context, imageID string) (int64, error)
	// IncrementViewCount calls increment_view_count and returns the new count.
	IncrementViewCount(ctx context.Context, imageID string) (int64, error)
}
