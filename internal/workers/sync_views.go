package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

const (
	viewQueueSize  = 1024
	viewBatchSize  = 100
	flushInterval  = 1 * time.Second
	shutdownBudget = 5 * time.Second
)

type syncViewsWorker struct {
	counters domain.CounterRPC
	ch       chan domain.ImageView
	interval time.Duration
}

var _ domain.SyncViewsWorker = (*syncViewsWorker)(nil)

func NewSyncViewsWorker(counters domain.CounterRPC) *syncViewsWorker {
	return &syncViewsWorker{
		counters: counters,
		ch:       make(chan domain.ImageView, viewQueueSize),
		interval: flushInterval,
	}
}

// Send queues a view without blocking; it is dropped when the queue is full.
func (s *syncViewsWorker) Send(view domain.ImageView) {
	if view.ImageID == "" {
		return
	}
	select {
	case s.ch <- view:
	default:
		logrus.Info("SyncViewsWorker's channel is full, view dropped")
	}
}

// Start flushes queued views every interval or every viewBatchSize views
// until ctx is done, then flushes what is left and returns.
func (s *syncViewsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	batch := make([]domain.ImageView, 0, viewBatchSize)
	for {
		select {
		case v := <-s.ch:
			batch = append(batch, v)
			if len(batch) == viewBatchSize {
				s.flush(ctx, batch)
				batch = make([]domain.ImageView, 0, viewBatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = make([]domain.ImageView, 0, viewBatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down SyncViewsWorker, flushing remaining views...")
			for drained := false; !drained; {
				select {
				case v := <-s.ch:
					batch = append(batch, v)
				default:
					drained = true
				}
			}
			// ctx is already done; the last flush gets its own budget
			fctx, cancel := context.WithTimeout(context.Background(), shutdownBudget)
			s.flush(fctx, batch)
			cancel()
			return
		}
	}
}

type viewKey struct {
	imageID, userID string
}

// flush collapses repeated views of one image by one signed-in user to a
// single increment_view_count call. Anonymous views are all counted, since
// they cannot be told apart.
func (s *syncViewsWorker) flush(ctx context.Context, batch []domain.ImageView) {
	seen := make(map[viewKey]struct{}, len(batch))
	for _, v := range batch {
		if v.UserID != "" {
			key := viewKey{imageID: v.ImageID, userID: v.UserID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		if _, err := s.counters.IncrementViewCount(ctx, v.ImageID); err != nil {
			logrus.Errorf("failed to record view, image: %s, err: %v", v.ImageID, err)
		}
	}
}
