package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Like struct {
	ImageID   string    `gorm:"column:image_id;type:char(36);primaryKey"`
	UserID    string    `gorm:"column:user_id;type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "likes"
}

type Favorite struct {
	ImageID   string    `gorm:"column:image_id;type:char(36);primaryKey"`
	UserID    string    `gorm:"column:user_id;type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func NewLikeFromDomain(r domain.Reaction) *Like {
	return &Like{ImageID: r.ImageID, UserID: r.UserID, CreatedAt: r.CreatedAt}
}

func NewFavoriteFromDomain(r domain.Reaction) *Favorite {
	return &Favorite{ImageID: r.ImageID, UserID: r.UserID, CreatedAt: r.CreatedAt}
}
