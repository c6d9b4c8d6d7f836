package feed

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

// Loader pages through one feed with append semantics.
//
// A plain LoadPage while a page is loading is ignored. A reset while loading
// supersedes the running request: its context is cancelled and its result,
// whenever it arrives, is dropped by comparing sequence numbers.
type Loader struct {
	imageRepo domain.ImageRepository
	pageSize  int

	mu      sync.Mutex
	query   domain.FeedQuery
	items   []domain.Image
	seen    map[string]struct{}
	offset  int
	hasMore bool
	loading bool
	seq     uint64
	cancel  context.CancelFunc
}

// Page is a snapshot of the loader.
type Page struct {
	Items   []domain.Image   `json:"items"`
	HasMore bool             `json:"has_more"`
	Loading bool             `json:"loading"`
	Query   domain.FeedQuery `json:"query"`
}

func (l *Loader) snapshot() Page {
	items := make([]domain.Image, len(l.items))
	copy(items, l.items)
	return Page{
		Items:   items,
		HasMore: l.hasMore,
		Loading: l.loading,
		Query:   l.query,
	}
}

// State returns a snapshot.
func (l *Loader) State() Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Loader) Items() []domain.Image { return l.State().Items }

func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LoadPage fetches the next page, or the first page again when reset is set.
// hasMore is guessed from whether the page came back full, so one extra empty
// fetch may happen at the end of a feed.
func (l *Loader) LoadPage(ctx context.Context, reset bool) (Page, error) {
	l.mu.Lock()
	if !reset && (l.loading || !l.hasMore) {
		p := l.snapshot()
		l.mu.Unlock()
		return p, nil
	}
	return l.load(ctx, reset)
}

// Requery swaps the query and reloads from the first page.
func (l *Loader) Requery(ctx context.Context, q domain.FeedQuery) (Page, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return l.State(), err
	}
	l.mu.Lock()
	l.query = q
	return l.load(ctx, true)
}

// Close cancels any request in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// load must be called with mu held; it releases it.
func (l *Loader) load(ctx context.Context, reset bool) (Page, error) {
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	offset := l.offset
	if reset {
		offset = 0
	}
	q := l.query
	lctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	l.mu.Unlock()

	page, err := l.imageRepo.Fetch(lctx, q, offset, l.pageSize)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		logrus.Debugf("dropping superseded %s page at offset %d", q.Kind, offset)
		return l.snapshot(), nil
	}
	l.loading = false
	l.cancel = nil
	if err != nil {
		logrus.Errorf("failed to load %s feed, offset: %d, err: %v", q.Kind, offset, err)
		return l.snapshot(), err
	}

	if reset {
		l.items = make([]domain.Image, 0, len(page))
		l.seen = make(map[string]struct{}, len(page))
	}
	for _, img := range page {
		if _, dup := l.seen[img.ID]; dup {
			continue
		}
		l.seen[img.ID] = struct{}{}
		l.items = append(l.items, img)
	}
	l.offset = offset + len(page)
	l.hasMore = len(page) == l.pageSize
	return l.snapshot(), nil
}
