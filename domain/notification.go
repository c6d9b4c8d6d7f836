package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification tells UserID that ActorID did something.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id" validate:"required"`
	ActorID   string           `json:"actor_id" validate:"required"`
	Type      NotificationType `json:"type" validate:"required,oneof=like comment follow"`
	ImageID   string           `json:"image_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationRepository interface {
	Insert(ctx context.Context, n Notification) error
	// FetchByUser returns the newest notifications of userID, newest first.
	FetchByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
}

// Notifier delivers activity notifications on a best-effort basis.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotificationUsecase represent the notification's usecases
type NotificationUsecase interface {
	Notifier
	List(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
}
