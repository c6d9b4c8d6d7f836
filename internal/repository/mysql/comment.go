package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository"
	"github.com/Guyuepp/artshare/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) FetchByImage(ctx context.Context, imageID string, limit int) ([]domain.RawComment, error) {
	repository.PageVerify(&limit)

	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Preload("Author").
		Where("image_id = ?", imageID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}

	res := make([]domain.RawComment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (c *commentRepository) Insert(ctx context.Context, in domain.RawComment) (domain.RawComment, error) {
	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now

	row := model.NewCommentFromDomain(in)
	if err := c.DB.WithContext(ctx).Create(row).Error; err != nil {
		return domain.RawComment{}, translate(err)
	}

	out := row.ToDomain()
	out.Author = c.author(ctx, in.UserID)
	return out, nil
}

func (c *commentRepository) Update(ctx context.Context, id, userID, content string) (domain.RawComment, error) {
	result := c.DB.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"content": content, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return domain.RawComment{}, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.RawComment{}, c.ownerOrMissing(ctx, id)
	}

	var row model.Comment
	if err := c.DB.WithContext(ctx).Preload("Author").First(&row, "id = ?", id).Error; err != nil {
		return domain.RawComment{}, translate(err)
	}
	return row.ToDomain(), nil
}

func (c *commentRepository) Delete(ctx context.Context, id, userID string) error {
	result := c.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Comment{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return c.ownerOrMissing(ctx, id)
	}
	return nil
}

// ownerOrMissing explains a zero-row owned mutation.
func (c *commentRepository) ownerOrMissing(ctx context.Context, id string) error {
	var n int64
	if err := c.DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrNotOwner
}

func (c *commentRepository) author(ctx context.Context, userID string) *domain.Profile {
	var p model.Profile
	err := c.DB.WithContext(ctx).First(&p, "id = ?", userID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Warnf("failed to load comment author %s: %v", userID, err)
		}
		return nil
	}
	out := p.ToDomain()
	return &out
}
