package domain

import (
	"context"
	"time"
)

// FollowEdge is representing "FollowerID follows FollowingID"
type FollowEdge struct {
	FollowerID  string
	FollowingID string
	CreatedAt   time.Time
}

// FollowStats is the derived aggregate of a user's follow edges.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// FollowRepository defines the contract for the follows collection
type FollowRepository interface {
	// Exists reports whether the edge followerID -> followingID exists.
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	// Insert creates the edge.
	// Returns ErrConflict if it already exists.
	Insert(ctx context.Context, e FollowEdge) error

	// Delete removes the edge; deleting a missing edge is not an error.
	Delete(ctx context.Context, followerID, followingID string) error

	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)

	// FollowingAmong returns the subset of candidates followed by followerID.
	FollowingAmong(ctx context.Context, followerID string, candidates []string) ([]string, error)
}

// FollowCache caches follow status per pair and stats per user.
// Reads return ErrCacheMiss when the entry is absent or expired.
type FollowCache interface {
	GetStatus(ctx context.Context, followerID, followingID string) (bool, error)
	SetStatus(ctx context.Context, followerID, followingID string, following bool) error

	GetStats(ctx context.Context, userID string) (FollowStats, error)
	SetStats(ctx context.Context, userID string, stats FollowStats) error

	// InvalidateStats drops the cached stats of every given user
	InvalidateStats(ctx context.Context, userIDs ...string) error
}

// FollowUsecase is the follow graph as seen by the delivery layer.
type FollowUsecase interface {
	Follow(ctx context.Context, targetID, actingUserID string) error
	Unfollow(ctx context.Context, targetID, actingUserID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	// GetFollowStats never fails; a backend error yields the zero value.
	GetFollowStats(ctx context.Context, userID string) FollowStats
	CheckMultipleFollowStatus(ctx context.Context, ids []string, actingUserID string) (map[string]bool, error)
}
