package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository/mysql/model"
)

type followRepository struct {
	DB *gorm.DB
}

var _ domain.FollowRepository = (*followRepository)(nil)

func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{
		DB: db,
	}
}

func (m *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int64
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (m *followRepository) Insert(ctx context.Context, e domain.FollowEdge) error {
	return translate(m.DB.WithContext(ctx).Create(model.NewFollowFromDomain(e)).Error)
}

func (m *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	err := m.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
	return translate(err)
}

func (m *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return m.count(ctx, "following_id = ?", userID)
}

func (m *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return m.count(ctx, "follower_id = ?", userID)
}

func (m *followRepository) count(ctx context.Context, where, userID string) (int64, error) {
	var n int64
	if err := m.DB.WithContext(ctx).Model(&model.Follow{}).Where(where, userID).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (m *followRepository) FollowingAmong(ctx context.Context, followerID string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}
	var res []string
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &res).Error
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}
