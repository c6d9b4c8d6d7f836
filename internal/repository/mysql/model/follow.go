package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Follow struct {
	FollowerID  string    `gorm:"column:follower_id;type:char(36);primaryKey"`
	FollowingID string    `gorm:"column:following_id;type:char(36);primaryKey;index"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (Follow) TableName() string {
	return "follows"
}

func NewFollowFromDomain(e domain.FollowEdge) *Follow {
	return &Follow{
		FollowerID:  e.FollowerID,
		FollowingID: e.FollowingID,
		CreatedAt:   e.CreatedAt,
	}
}
