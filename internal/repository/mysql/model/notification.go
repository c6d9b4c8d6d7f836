package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Notification struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null;index"`
	ActorID   string    `gorm:"column:actor_id;type:char(36);not null"`
	Type      string    `gorm:"type:varchar(16);not null"`
	ImageID   *string   `gorm:"column:image_id;type:char(36)"`
	Read      bool      `gorm:"column:read;default:false"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Notification) TableName() string {
	return "notifications"
}

func NewNotificationFromDomain(n domain.Notification) *Notification {
	m := &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		ActorID:   n.ActorID,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.ImageID != "" {
		id := n.ImageID
		m.ImageID = &id
	}
	return m
}

func (m *Notification) ToDomain() domain.Notification {
	n := domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		ActorID:   m.ActorID,
		Type:      domain.NotificationType(m.Type),
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if m.ImageID != nil {
		n.ImageID = *m.ImageID
	}
	return n
}
