package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	ImageID   string    `gorm:"column:image_id;type:char(36);not null;index"`
	UserID    string    `gorm:"column:user_id;type:char(36);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"type:datetime"`
	UpdatedAt time.Time `gorm:"type:datetime"`

	// Author 评论作者
	Author *Profile `gorm:"foreignKey:UserID;references:ID"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c domain.RawComment) *Comment {
	return &Comment{
		ID:        c.ID,
		ImageID:   c.ImageID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.RawComment {
	c := domain.RawComment{
		ID:        m.ID,
		ImageID:   m.ImageID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author != nil {
		p := m.Author.ToDomain()
		c.Author = &p
	}
	return c
}
