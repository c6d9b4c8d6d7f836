package model

import (
	"time"

	"github.com/Guyuepp/artshare/domain"
)

type Profile struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex"`
	FullName  string    `gorm:"column:full_name;type:varchar(128)"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(512)"`
	Bio       string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

func (m *Profile) ToDomain() domain.Profile {
	return domain.Profile{
		ID:        m.ID,
		Username:  m.Username,
		FullName:  m.FullName,
		AvatarURL: m.AvatarURL,
		Bio:       m.Bio,
		CreatedAt: m.CreatedAt,
	}
}
