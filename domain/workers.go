package domain

import "context"

// ImageView is one recorded view of an image.
type ImageView struct {
	ImageID string
	UserID  string // empty for anonymous viewers
}

// ViewRecorder accepts views for eventual delivery to increment_view_count.
type ViewRecorder interface {
	Send(view ImageView)
}

type SyncViewsWorker interface {
	Start(ctx context.Context)

	// Send queues a view; it never blocks and drops the view when the queue is full
	ViewRecorder
}
