package comment

import (
	"context"

	"github.com/Guyuepp/artshare/domain"
)

// DefaultFetchLimit bounds a single Load.
const DefaultFetchLimit = 100

type Service struct {
	commentRepo domain.CommentRepository
	notifier    domain.Notifier
	limit       int
}

// NewService will create a new comment service object. notifier may be nil.
func NewService(commentRepo domain.CommentRepository, notifier domain.Notifier) *Service {
	if notifier == nil {
		notifier = discardNotifications{}
	}
	return &Service{
		commentRepo: commentRepo,
		notifier:    notifier,
		limit:       DefaultFetchLimit,
	}
}

// NewThread creates the comment list of one image as seen by the user behind
// session. The thread is not ready until Bind is called.
func (s *Service) NewThread(session domain.SessionSource) *Thread {
	return &Thread{
		svc:     s,
		session: session,
		items:   []domain.Comment{},
	}
}

type discardNotifications struct{}

func (discardNotifications) Notify(context.Context, domain.Notification) {}
