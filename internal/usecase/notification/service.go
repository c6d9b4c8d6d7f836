package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type service struct {
	notificationRepo domain.NotificationRepository
}

var _ domain.NotificationUsecase = (*service)(nil)

// NewService will create a new notification service object
func NewService(notificationRepo domain.NotificationRepository) *service {
	return &service{
		notificationRepo: notificationRepo,
	}
}

// Notify stores n. Delivery is best effort: failures are logged, and actors
// are never notified about their own activity.
func (s *service) Notify(ctx context.Context, n domain.Notification) {
	if n.UserID == "" || n.ActorID == "" || n.UserID == n.ActorID {
		return
	}
	if err := s.notificationRepo.Insert(ctx, n); err != nil {
		logrus.Warnf("failed to send %s notification to %s, err: %v", n.Type, n.UserID, err)
	}
}

// List returns the newest notifications of userID.
func (s *service) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	res, err := s.notificationRepo.FetchByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []domain.Notification{}
	}
	return res, nil
}

// MarkRead flags the given notifications of userID as read.
func (s *service) MarkRead(ctx context.Context, userID string, ids []string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if len(ids) == 0 {
		return nil
	}
	return s.notificationRepo.MarkRead(ctx, userID, ids)
}
