package feed_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/usecase/feed"
)

type fetchCall struct {
	query  domain.FeedQuery
	offset int
	limit  int
}

// fakeImages serves pages out of a fixed slice. shift simulates concurrent
// inserts moving the offset window; block, when set, holds each Fetch until
// a value is received.
type fakeImages struct {
	mu     sync.Mutex
	all    []domain.Image
	shift  int
	calls  []fetchCall
	err    error
	tags   []domain.TagCount
	tagErr error

	block   chan struct{}
	entered chan struct{}
}

func (f *fakeImages) GetByID(ctx context.Context, id string) (domain.Image, error) {
	return domain.Image{}, domain.ErrNotFound
}

func (f *fakeImages) Fetch(ctx context.Context, q domain.FeedQuery, offset, limit int) ([]domain.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{q, offset, limit})
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if block != nil {
		entered <- struct{}{}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	start := offset - f.shift
	if start < 0 {
		start = 0
	}
	if start >= len(f.all) {
		return []domain.Image{}, nil
	}
	end := start + limit
	if end > len(f.all) {
		end = len(f.all)
	}
	return append([]domain.Image(nil), f.all[start:end]...), nil
}

func (f *fakeImages) GetStats(ctx context.Context, id string) (domain.ImageStats, error) {
	return domain.ImageStats{}, nil
}

func (f *fakeImages) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	return f.tags, f.tagErr
}

func (f *fakeImages) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func images(n int) []domain.Image {
	out := make([]domain.Image, n)
	for i := range out {
		out[i] = domain.Image{ID: fmt.Sprintf("img-%02d", i)}
	}
	return out
}

func ids(items []domain.Image) []string {
	out := make([]string, len(items))
	for i, img := range items {
		out[i] = img.ID
	}
	return out
}

func newLoader(t *testing.T, repo *fakeImages, pageSize int) *feed.Loader {
	t.Helper()
	l, err := feed.NewService(repo, pageSize).NewLoader(domain.FeedQuery{Kind: domain.FeedRecent})
	require.NoError(t, err)
	return l
}

func TestNewLoader_InvalidQuery(t *testing.T) {
	_, err := feed.NewService(&fakeImages{}, 0).NewLoader(domain.FeedQuery{Kind: domain.FeedSearch, Term: "   "})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestLoadPage_DefaultPageSize(t *testing.T) {
	repo := &fakeImages{all: images(25)}
	l := newLoader(t, repo, 0)

	p, err := l.LoadPage(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, p.Items, feed.DefaultPageSize)
	assert.True(t, p.HasMore)
	assert.Equal(t, feed.DefaultPageSize, repo.Calls()[0].limit)
}

func TestLoadPage_AppendsUntilExhausted(t *testing.T) {
	repo := &fakeImages{all: images(7)}
	l := newLoader(t, repo, 3)
	ctx := context.Background()

	p, err := l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"img-00", "img-01", "img-02"}, ids(p.Items))
	assert.True(t, p.HasMore)

	p, err = l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.Len(t, p.Items, 6)
	assert.True(t, p.HasMore)

	p, err = l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.Len(t, p.Items, 7)
	assert.False(t, p.HasMore)
	assert.False(t, p.Loading)

	// exhausted: no further request
	_, err = l.LoadPage(ctx, false)
	require.NoError(t, err)
	offsets := []int{}
	for _, c := range repo.Calls() {
		offsets = append(offsets, c.offset)
	}
	assert.Equal(t, []int{0, 3, 6}, offsets)
}

func TestLoadPage_ExactMultipleCostsOneEmptyFetch(t *testing.T) {
	repo := &fakeImages{all: images(6)}
	l := newLoader(t, repo, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := l.LoadPage(ctx, false)
		require.NoError(t, err)
		assert.True(t, p.HasMore)
	}
	p, err := l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.False(t, p.HasMore)
	assert.Len(t, p.Items, 6)
	assert.Len(t, repo.Calls(), 3)
}

func TestLoadPage_DeduplicatesShiftedWindow(t *testing.T) {
	repo := &fakeImages{all: images(10)}
	l := newLoader(t, repo, 4)
	ctx := context.Background()

	_, err := l.LoadPage(ctx, false)
	require.NoError(t, err)

	// two new items landed at the head; the next window overlaps the first
	repo.mu.Lock()
	repo.shift = 2
	repo.mu.Unlock()

	for i := 0; i < 3; i++ {
		_, err = l.LoadPage(ctx, false)
		require.NoError(t, err)
	}

	got := ids(l.Items())
	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, got, 10)
}

func TestLoadPage_ResetAfterThreePages(t *testing.T) {
	repo := &fakeImages{all: images(20)}
	l := newLoader(t, repo, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.LoadPage(ctx, false)
		require.NoError(t, err)
	}
	require.Len(t, l.Items(), 15)

	p, err := l.LoadPage(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, ids(images(5)), ids(p.Items))
	assert.True(t, p.HasMore)

	// the next page continues from the reset
	p, err = l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "img-05", p.Items[5].ID)
}

func TestLoadPage_ResetReflectsShortFirstPage(t *testing.T) {
	repo := &fakeImages{all: images(12)}
	l := newLoader(t, repo, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.LoadPage(ctx, false)
		require.NoError(t, err)
	}
	repo.mu.Lock()
	repo.all = images(2)
	repo.mu.Unlock()

	p, err := l.LoadPage(ctx, true)
	require.NoError(t, err)
	assert.Len(t, p.Items, 2)
	assert.False(t, p.HasMore)
}

func TestLoadPage_ConcurrentLoadIgnored(t *testing.T) {
	repo := &fakeImages{all: images(10), block: make(chan struct{}), entered: make(chan struct{}, 2)}
	l := newLoader(t, repo, 3)
	ctx := context.Background()

	done := make(chan feed.Page, 1)
	go func() {
		p, err := l.LoadPage(ctx, false)
		assert.NoError(t, err)
		done <- p
	}()
	<-repo.entered
	assert.True(t, l.Loading())

	p, err := l.LoadPage(ctx, false)
	require.NoError(t, err)
	assert.True(t, p.Loading)
	assert.Len(t, repo.Calls(), 1)

	repo.block <- struct{}{}
	first := <-done
	assert.Len(t, first.Items, 3)
	assert.False(t, l.Loading())
}

func TestRequery_SupersedesInFlight(t *testing.T) {
	repo := &fakeImages{all: images(10), block: make(chan struct{}), entered: make(chan struct{}, 2)}
	l := newLoader(t, repo, 3)
	ctx := context.Background()

	stale := make(chan feed.Page, 1)
	go func() {
		p, err := l.LoadPage(ctx, false)
		assert.NoError(t, err, "superseded results are dropped silently")
		stale <- p
	}()
	<-repo.entered

	fresh := make(chan feed.Page, 1)
	go func() {
		p, err := l.Requery(ctx, domain.FeedQuery{Kind: domain.FeedSearch, Term: " sunset "})
		assert.NoError(t, err)
		fresh <- p
	}()
	<-repo.entered

	// the first fetch saw its context cancelled and returns on its own
	select {
	case <-stale:
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}

	repo.block <- struct{}{}
	p := <-fresh
	assert.Len(t, p.Items, 3)
	assert.Equal(t, domain.FeedQuery{Kind: domain.FeedSearch, Term: "sunset"}, p.Query)
	calls := repo.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "sunset", calls[1].query.Term)
}

func TestRequery_InvalidKeepsState(t *testing.T) {
	repo := &fakeImages{all: images(4)}
	l := newLoader(t, repo, 3)
	_, err := l.LoadPage(context.Background(), false)
	require.NoError(t, err)

	_, err = l.Requery(context.Background(), domain.FeedQuery{Kind: domain.FeedFavorites})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	assert.Len(t, l.Items(), 3)
	assert.Equal(t, domain.FeedRecent, l.State().Query.Kind)
}

func TestLoadPage_ErrorKeepsItems(t *testing.T) {
	repo := &fakeImages{all: images(9)}
	l := newLoader(t, repo, 3)
	ctx := context.Background()
	_, err := l.LoadPage(ctx, false)
	require.NoError(t, err)

	repo.mu.Lock()
	repo.err = domain.ErrBackendUnavailable
	repo.mu.Unlock()
	p, err := l.LoadPage(ctx, false)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Len(t, p.Items, 3)
	assert.False(t, p.Loading)
	assert.True(t, p.HasMore)
}

func TestPopularTags(t *testing.T) {
	repo := &fakeImages{tags: []domain.TagCount{{Tag: "ink", Count: 9}}}
	svc := feed.NewService(repo, 0)
	assert.Equal(t, repo.tags, svc.PopularTags(context.Background(), 5))

	repo.tagErr = domain.ErrTimeout
	assert.Equal(t, []domain.TagCount{}, svc.PopularTags(context.Background(), 5))
}
