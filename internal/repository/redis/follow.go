package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

const (
	KeyFollowStatus = "follow:status:%s:%s"
	KeyFollowStats  = "follow:stats:%s"
)

// followCache shares follow status and stats between instances; redis
// enforces the expiry.
type followCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.FollowCache = (*followCache)(nil)

func NewFollowCache(client *redis.Client, ttl time.Duration) *followCache {
	return &followCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *followCache) GetStatus(ctx context.Context, followerID, followingID string) (bool, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf(KeyFollowStatus, followerID, followingID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, domain.ErrCacheMiss
	} else if err != nil {
		return false, err
	}
	switch val {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		logrus.Warnf("invalid follow status in redis, follower: %s, following: %s, val: %q", followerID, followingID, val)
		return false, domain.ErrCacheMiss
	}
}

func (c *followCache) SetStatus(ctx context.Context, followerID, followingID string, following bool) error {
	val := "0"
	if following {
		val = "1"
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyFollowStatus, followerID, followingID), val, c.ttl).Err()
}

func (c *followCache) GetStats(ctx context.Context, userID string) (res domain.FollowStats, err error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyFollowStats, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FollowStats{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.FollowStats{}, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		logrus.Warnf("failed to unmarshal follow stats from redis, user: %s, err: %v", userID, err)
		return domain.FollowStats{}, domain.ErrCacheMiss
	}
	return res, nil
}

func (c *followCache) SetStats(ctx context.Context, userID string, stats domain.FollowStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyFollowStats, userID), data, c.ttl).Err()
}

func (c *followCache) InvalidateStats(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = fmt.Sprintf(KeyFollowStats, id)
	}
	return c.client.Del(ctx, keys...).Err()
}
