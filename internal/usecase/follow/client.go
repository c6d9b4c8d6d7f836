package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/artshare/domain"
)

// sharedReadTimeout bounds a de-duplicated read. Those reads run detached
// from the first caller's ctx, since other callers wait on the same result.
const sharedReadTimeout = 30 * time.Second

// Client toggles follow edges and serves follow counts through a cache.
type Client struct {
	followRepo domain.FollowRepository
	cache      domain.FollowCache
	notifier   domain.Notifier
	sf         singleflight.Group
}

var _ domain.FollowUsecase = (*Client)(nil)

// NewClient will create a new follow client. notifier may be nil.
func NewClient(followRepo domain.FollowRepository, cache domain.FollowCache, notifier domain.Notifier) *Client {
	if notifier == nil {
		notifier = discardNotifications{}
	}
	return &Client{
		followRepo: followRepo,
		cache:      cache,
		notifier:   notifier,
	}
}

// Follow creates the edge actingUserID -> targetID.
func (c *Client) Follow(ctx context.Context, targetID, actingUserID string) error {
	if actingUserID == "" {
		return domain.ErrNotAuthenticated
	}
	if targetID == actingUserID {
		return domain.ErrSelfFollow
	}
	if targetID == "" {
		return domain.ErrBadParamInput
	}

	following, err := c.cache.GetStatus(ctx, actingUserID, targetID)
	if err == nil && following {
		return domain.ErrAlreadyFollowing
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("follow cache read failed, %s -> %s, err: %v", actingUserID, targetID, err)
	}

	// 缓存未命中或不可信，回源确认
	exists, err := c.followRepo.Exists(ctx, actingUserID, targetID)
	if err != nil {
		return err
	}
	if exists {
		c.setStatus(ctx, actingUserID, targetID, true)
		return domain.ErrAlreadyFollowing
	}

	err = c.followRepo.Insert(ctx, domain.FollowEdge{FollowerID: actingUserID, FollowingID: targetID})
	if errors.Is(err, domain.ErrConflict) {
		c.setStatus(ctx, actingUserID, targetID, true)
		return fmt.Errorf("%w: %v", domain.ErrAlreadyFollowing, err)
	}
	if err != nil {
		logrus.Errorf("failed to follow, %s -> %s, err: %v", actingUserID, targetID, err)
		return err
	}

	c.setStatus(ctx, actingUserID, targetID, true)
	c.invalidateStats(ctx, actingUserID, targetID)
	c.notifier.Notify(ctx, domain.Notification{
		UserID:  targetID,
		ActorID: actingUserID,
		Type:    domain.NotificationFollow,
	})
	return nil
}

// Unfollow removes the edge actingUserID -> targetID if present.
func (c *Client) Unfollow(ctx context.Context, targetID, actingUserID string) error {
	if actingUserID == "" {
		return domain.ErrNotAuthenticated
	}
	// 自己不可能关注自己，没有要删的边
	if targetID == actingUserID {
		return domain.ErrSelfFollow
	}

	if err := c.followRepo.Delete(ctx, actingUserID, targetID); err != nil {
		logrus.Errorf("failed to unfollow, %s -> %s, err: %v", actingUserID, targetID, err)
		return err
	}

	c.setStatus(ctx, actingUserID, targetID, false)
	c.invalidateStats(ctx, actingUserID, targetID)
	return nil
}

// IsFollowing reports whether followerID follows followingID, cache first.
func (c *Client) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" || followerID == followingID {
		return false, nil
	}

	following, err := c.cache.GetStatus(ctx, followerID, followingID)
	if err == nil {
		return following, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("follow cache read failed, %s -> %s, err: %v", followerID, followingID, err)
	}

	key := "status:" + followerID + ":" + followingID
	v, err, _ := c.sf.Do(key, func() (any, error) {
		ctx, cancel := shared(ctx)
		defer cancel()
		exists, err := c.followRepo.Exists(ctx, followerID, followingID)
		if err != nil {
			return false, err
		}
		c.setStatus(ctx, followerID, followingID, exists)
		return exists, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetFollowStats returns the follower and following counts of userID. It
// never fails: on a backend error the zero value is returned and not cached.
func (c *Client) GetFollowStats(ctx context.Context, userID string) domain.FollowStats {
	if userID == "" {
		return domain.FollowStats{}
	}

	stats, err := c.cache.GetStats(ctx, userID)
	if err == nil {
		return stats
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("follow stats cache read failed, user: %s, err: %v", userID, err)
	}

	v, err, _ := c.sf.Do("stats:"+userID, func() (any, error) {
		ctx, cancel := shared(ctx)
		defer cancel()
		var res domain.FollowStats
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			res.Followers, err = c.followRepo.CountFollowers(gctx, userID)
			return
		})
		g.Go(func() (err error) {
			res.Following, err = c.followRepo.CountFollowing(gctx, userID)
			return
		})
		if err := g.Wait(); err != nil {
			return domain.FollowStats{}, err
		}
		if err := c.cache.SetStats(ctx, userID, res); err != nil {
			logrus.Warnf("failed to cache follow stats, user: %s, err: %v", userID, err)
		}
		return res, nil
	})
	if err != nil {
		logrus.Warnf("failed to load follow stats, user: %s, err: %v", userID, err)
		return domain.FollowStats{}
	}
	return v.(domain.FollowStats)
}

// CheckMultipleFollowStatus answers "does actingUserID follow id" for every id
// with one bulk query. The per-pair cache is neither read nor written.
func (c *Client) CheckMultipleFollowStatus(ctx context.Context, ids []string, actingUserID string) (map[string]bool, error) {
	res := make(map[string]bool, len(ids))
	for _, id := range ids {
		res[id] = false
	}
	if actingUserID == "" || len(ids) == 0 {
		return res, nil
	}

	followed, err := c.followRepo.FollowingAmong(ctx, actingUserID, ids)
	if err != nil {
		logrus.Errorf("failed to check follow status, user: %s, err: %v", actingUserID, err)
		return nil, err
	}
	for _, id := range followed {
		if _, ok := res[id]; ok {
			res[id] = true
		}
	}
	return res, nil
}

func (c *Client) setStatus(ctx context.Context, followerID, followingID string, following bool) {
	if err := c.cache.SetStatus(ctx, followerID, followingID, following); err != nil {
		logrus.Warnf("failed to cache follow status, %s -> %s, err: %v", followerID, followingID, err)
	}
}

func (c *Client) invalidateStats(ctx context.Context, userIDs ...string) {
	if err := c.cache.InvalidateStats(ctx, userIDs...); err != nil {
		logrus.Warnf("failed to invalidate follow stats %v, err: %v", userIDs, err)
	}
}

type discardNotifications struct{}

func (discardNotifications) Notify(context.Context, domain.Notification) {}

func shared(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
}
