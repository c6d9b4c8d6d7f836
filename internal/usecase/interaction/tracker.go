package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/artshare/domain"
)

type axis int8

// undoTimeout bounds the revert of a reaction row after a failed counter RPC.
const undoTimeout = 5 * time.Second

const (
	axisLike axis = iota
	axisFavorite
)

func (a axis) String() string {
	if a == axisLike {
		return "like"
	}
	return "favorite"
}

// Tracker holds like/favorite/view/comment state of one image for one user.
// Each axis allows a single request in flight; the server's answer is
// adopted verbatim and a failure restores the last known-good value.
type Tracker struct {
	svc     *Service
	session domain.SessionSource

	mu       sync.Mutex
	imageID  string
	ownerID  string
	like     domain.Toggle
	favorite domain.Toggle
	stats    domain.ImageStats
	closed   bool
}

// Bind marks the image as loaded. Binding another image resets both toggles.
func (t *Tracker) Bind(img domain.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.imageID != img.ID {
		t.like = domain.Toggle{}
		t.favorite = domain.Toggle{}
	}
	t.imageID = img.ID
	t.ownerID = img.OwnerID
	t.stats = domain.ImageStats{
		LikeCount:    img.LikeCount,
		ViewCount:    img.ViewCount,
		CommentCount: img.CommentCount,
	}
}

// State returns a snapshot.
func (t *Tracker) State() domain.InteractionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() domain.InteractionState {
	return domain.InteractionState{
		ImageID:      t.imageID,
		IsLiked:      t.like.Value(),
		IsFavorited:  t.favorite.Value(),
		LikeLoading:  t.like.Pending(),
		FavLoading:   t.favorite.Pending(),
		LikeCount:    t.stats.LikeCount,
		ViewCount:    t.stats.ViewCount,
		CommentCount: t.stats.CommentCount,
	}
}

// Close discards the tracker; responses arriving afterwards are dropped.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// current returns the bound image id, or "" when the tracker is not ready or closed.
func (t *Tracker) current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ""
	}
	return t.imageID
}

// stale reports whether a response for imageID must be discarded. Caller holds mu.
func (t *Tracker) stale(imageID string) bool {
	return t.closed || t.imageID != imageID
}

// Load reads whether the user liked and favorited the image. Anonymous
// users get both false without a request.
func (t *Tracker) Load(ctx context.Context) (domain.InteractionState, error) {
	imageID := t.current()
	if imageID == "" {
		return t.State(), domain.ErrEntityNotReady
	}

	uid, ok := t.session.UserID()
	if !ok {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.stale(imageID) {
			t.like = domain.NewSettledToggle(false)
			t.favorite = domain.NewSettledToggle(false)
		}
		return t.snapshot(), nil
	}

	var liked, favorited bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		liked, err = t.svc.likes.Exists(gctx, uid, imageID)
		return
	})
	g.Go(func() (err error) {
		favorited, err = t.svc.favorites.Exists(gctx, uid, imageID)
		return
	})
	if err := g.Wait(); err != nil {
		logrus.Errorf("failed to load interaction state, image: %s, user: %s, err: %v", imageID, uid, err)
		return t.State(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stale(imageID) {
		return t.snapshot(), nil
	}
	if !t.like.Pending() {
		t.like = domain.NewSettledToggle(liked)
	}
	if !t.favorite.Pending() {
		t.favorite = domain.NewSettledToggle(favorited)
	}
	return t.snapshot(), nil
}

// LoadStats re-reads the server counters. It never toggles anything and may
// be called repeatedly.
func (t *Tracker) LoadStats(ctx context.Context) (domain.InteractionState, error) {
	imageID := t.current()
	if imageID == "" {
		return t.State(), domain.ErrEntityNotReady
	}

	stats, err := t.svc.images.GetStats(ctx, imageID)
	if err != nil {
		return t.State(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stale(imageID) {
		return t.snapshot(), nil
	}
	t.stats.ViewCount = stats.ViewCount
	t.stats.CommentCount = stats.CommentCount
	if !t.like.Pending() {
		t.stats.LikeCount = stats.LikeCount
	}
	return t.snapshot(), nil
}

// RecordView queues one view of the bound image.
func (t *Tracker) RecordView() error {
	imageID := t.current()
	if imageID == "" {
		return domain.ErrEntityNotReady
	}
	uid, _ := t.session.UserID()
	t.svc.views.Send(domain.ImageView{ImageID: imageID, UserID: uid})
	return nil
}

func (t *Tracker) ToggleLike(ctx context.Context) (domain.InteractionState, error) {
	return t.toggle(ctx, axisLike)
}

func (t *Tracker) ToggleFavorite(ctx context.Context) (domain.InteractionState, error) {
	return t.toggle(ctx, axisFavorite)
}

func (t *Tracker) toggleFor(a axis) *domain.Toggle {
	if a == axisLike {
		return &t.like
	}
	return &t.favorite
}

func (t *Tracker) toggle(ctx context.Context, a axis) (domain.InteractionState, error) {
	uid, ok := t.session.UserID()
	if !ok {
		return t.State(), domain.ErrNotAuthenticated
	}

	t.mu.Lock()
	if t.closed || t.imageID == "" {
		st := t.snapshot()
		t.mu.Unlock()
		return st, domain.ErrEntityNotReady
	}
	if !t.toggleFor(a).Begin() {
		st := t.snapshot()
		t.mu.Unlock()
		logrus.Debugf("%s toggle already in flight, image: %s", a, st.ImageID)
		return st, nil
	}
	imageID, ownerID := t.imageID, t.ownerID
	t.mu.Unlock()

	on, count, err := t.apply(ctx, a, uid, imageID)

	t.mu.Lock()
	if t.stale(imageID) {
		st := t.snapshot()
		t.mu.Unlock()
		return st, nil
	}
	tg := t.toggleFor(a)
	if err != nil {
		tg.Rollback()
		t.mu.Unlock()
		logrus.Warnf("failed to toggle %s, image: %s, user: %s, err: %v", a, imageID, uid, err)
		// 计数可能已经在服务端变化，重新拉取一次
		if _, serr := t.LoadStats(ctx); serr != nil {
			logrus.Warnf("failed to reconcile stats after %s failure, image: %s, err: %v", a, imageID, serr)
		}
		return t.State(), err
	}
	tg.Settle(on)
	if a == axisLike {
		t.stats.LikeCount = count
	}
	st := t.snapshot()
	t.mu.Unlock()

	if a == axisLike && on && ownerID != "" && ownerID != uid {
		t.svc.notifier.Notify(ctx, domain.Notification{
			UserID:  ownerID,
			ActorID: uid,
			Type:    domain.NotificationLike,
			ImageID: imageID,
		})
	}
	return st, nil
}

// apply flips the reaction row on the backend and, for likes, moves the
// counter through the atomic RPC. It returns the new state and like count.
func (t *Tracker) apply(ctx context.Context, a axis, uid, imageID string) (bool, int64, error) {
	var repo domain.ReactionRepository = t.svc.likes
	if a == axisFavorite {
		repo = t.svc.favorites
	}

	exists, err := repo.Exists(ctx, uid, imageID)
	if err != nil {
		return false, 0, err
	}

	if exists {
		if err := repo.Delete(ctx, uid, imageID); err != nil {
			return false, 0, conflictAsAlreadyInState(err)
		}
		if a != axisLike {
			return false, 0, nil
		}
		count, err := t.svc.counters.DecrementLikeCount(ctx, imageID)
		if err != nil {
			// 计数没动，行也要恢复，否则重试时会走反方向
			undoRow(ctx, imageID, func(ctx context.Context) error {
				return repo.Insert(ctx, domain.Reaction{ImageID: imageID, UserID: uid})
			})
			return false, 0, fmt.Errorf("decrement_like_count: %w", err)
		}
		return false, count, nil
	}

	if err := repo.Insert(ctx, domain.Reaction{ImageID: imageID, UserID: uid}); err != nil {
		return false, 0, conflictAsAlreadyInState(err)
	}
	if a != axisLike {
		return true, 0, nil
	}
	count, err := t.svc.counters.IncrementLikeCount(ctx, imageID)
	if err != nil {
		undoRow(ctx, imageID, func(ctx context.Context) error {
			return repo.Delete(ctx, uid, imageID)
		})
		return false, 0, fmt.Errorf("increment_like_count: %w", err)
	}
	return true, count, nil
}

// undoRow reverts a reaction row whose counter RPC failed, so the row and
// the counter stay in step. It runs even when ctx is already done.
func undoRow(ctx context.Context, imageID string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), undoTimeout)
	defer cancel()
	if err := fn(ctx); err != nil && !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrNotFound) {
		logrus.Errorf("failed to revert reaction row, image: %s, err: %v", imageID, err)
	}
}

// conflictAsAlreadyInState maps a lost race with another request of the
// same user (duplicate insert, missing delete) to ErrAlreadyInState.
func conflictAsAlreadyInState(err error) error {
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrAlreadyInState, err)
	}
	return err
}
