package cache

import (
	"context"
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type followPair struct {
	follower, following string
}

// followCache keeps follow status and stats in process memory.
type followCache struct {
	status *TTL[followPair, bool]
	stats  *TTL[string, domain.FollowStats]
}

var _ domain.FollowCache = (*followCache)(nil)

func NewFollowCache(ttl time.Duration, opts ...Option) *followCache {
	return &followCache{
		status: NewTTL[followPair, bool](ttl, opts...),
		stats:  NewTTL[string, domain.FollowStats](ttl, opts...),
	}
}

func (c *followCache) GetStatus(_ context.Context, followerID, followingID string) (bool, error) {
	v, ok := c.status.Get(followPair{followerID, followingID})
	if !ok {
		return false, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *followCache) SetStatus(_ context.Context, followerID, followingID string, following bool) error {
	c.status.Set(followPair{followerID, followingID}, following)
	return nil
}

func (c *followCache) GetStats(_ context.Context, userID string) (domain.FollowStats, error) {
	v, ok := c.stats.Get(userID)
	if !ok {
		return domain.FollowStats{}, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *followCache) SetStats(_ context.Context, userID string, stats domain.FollowStats) error {
	c.stats.Set(userID, stats)
	return nil
}

func (c *followCache) InvalidateStats(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		c.stats.Invalidate(id)
	}
	return nil
}
