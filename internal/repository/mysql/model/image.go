package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Image struct {
	ID           string    `gorm:"primaryKey;type:char(36)"`
	UserID       string    `gorm:"column:user_id;type:char(36);not null;index"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Description  string    `gorm:"type:text"`
	StoragePath  string    `gorm:"column:storage_path;type:varchar(512);not null"`
	Tags         []string  `gorm:"type:json;serializer:json"`
	LikeCount    int64     `gorm:"column:like_count;default:0"`
	ViewCount    int64     `gorm:"column:view_count;default:0"`
	CommentCount int64     `gorm:"column:comment_count;default:0"`
	CreatedAt    time.Time `gorm:"type:datetime"`
	UpdatedAt    time.Time `gorm:"type:datetime"`
}

func (Image) TableName() string {
	return "images"
}

func (m *Image) ToDomain() domain.Image {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Image{
		ID:           m.ID,
		OwnerID:      m.UserID,
		Owner:        domain.Profile{ID: m.UserID},
		Title:        m.Title,
		Description:  m.Description,
		StoragePath:  m.StoragePath,
		Tags:         tags,
		LikeCount:    m.LikeCount,
		ViewCount:    m.ViewCount,
		CommentCount: m.CommentCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ImageStats is the counter projection of images.
type ImageStats struct {
	LikeCount    int64
	ViewCount    int64
	CommentCount int64
}

// TagCount is one row of the popular tags query.
type TagCount struct {
	Tag   string
	Count int64
}
