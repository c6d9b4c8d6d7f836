package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository/mysql/model"
)

// reactionRepository serves the likes and favorites tables, which share a shape.
type reactionRepository struct {
	DB    *gorm.DB
	table string
	row   func(domain.Reaction) any
}

var (
	_ domain.LikeRepository     = (*reactionRepository)(nil)
	_ domain.FavoriteRepository = (*reactionRepository)(nil)
)

func NewLikeRepository(db *gorm.DB) *reactionRepository {
	return &reactionRepository{
		DB:    db,
		table: model.Like{}.TableName(),
		row:   func(r domain.Reaction) any { return model.NewLikeFromDomain(r) },
	}
}

func NewFavoriteRepository(db *gorm.DB) *reactionRepository {
	return &reactionRepository{
		DB:    db,
		table: model.Favorite{}.TableName(),
		row:   func(r domain.Reaction) any { return model.NewFavoriteFromDomain(r) },
	}
}

func (m *reactionRepository) Exists(ctx context.Context, userID, imageID string) (bool, error) {
	var n int64
	err := m.DB.WithContext(ctx).Table(m.table).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (m *reactionRepository) Insert(ctx context.Context, r domain.Reaction) error {
	return translate(m.DB.WithContext(ctx).Create(m.row(r)).Error)
}

func (m *reactionRepository) Delete(ctx context.Context, userID, imageID string) error {
	result := m.DB.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Delete(m.row(domain.Reaction{}))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
