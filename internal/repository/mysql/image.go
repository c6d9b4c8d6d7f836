package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository"
	"github.com/Guyuepp/artshare/internal/repository/mysql/model"
)

type imageRepository struct {
	DB *gorm.DB
}

var (
	_ domain.ImageRepository = (*imageRepository)(nil)
	_ domain.CounterRPC      = (*imageRepository)(nil)
)

// NewImageRepository 图片表与计数存储过程
func NewImageRepository(db *gorm.DB) *imageRepository {
	return &imageRepository{db}
}

func (m *imageRepository) GetByID(ctx context.Context, id string) (domain.Image, error) {
	var img model.Image
	if err := m.DB.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return domain.Image{}, translate(err)
	}
	return img.ToDomain(), nil
}

func (m *imageRepository) Fetch(ctx context.Context, q domain.FeedQuery, offset, limit int) ([]domain.Image, error) {
	repository.PageVerify(&limit)
	repository.PageOffset(&offset)

	tx := m.DB.WithContext(ctx).Model(&model.Image{}).Select("images.*")
	switch q.Kind {
	case domain.FeedSearch:
		pattern := "%" + escapeLike(q.Term) + "%"
		tx = tx.Where("images.title LIKE ? OR images.description LIKE ?", pattern, pattern).
			Order("images.created_at DESC")
	case domain.FeedTag:
		tags, err := json.Marshal(q.Tags)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		tx = tx.Where("JSON_OVERLAPS(images.tags, ?)", string(tags)).
			Order("images.created_at DESC")
	case domain.FeedUser:
		tx = tx.Where("images.user_id = ?", q.UserID).
			Order("images.created_at DESC")
	case domain.FeedFavorites:
		tx = tx.Joins("JOIN favorites ON favorites.image_id = images.id").
			Where("favorites.user_id = ?", q.UserID).
			Order("favorites.created_at DESC")
	case domain.FeedTrending:
		tx = tx.Order("images.like_count DESC").
			Order("images.view_count DESC").
			Order("images.created_at DESC")
	default:
		tx = tx.Order("images.created_at DESC")
	}

	var rows []model.Image
	if err := tx.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	res := make([]domain.Image, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *imageRepository) GetStats(ctx context.Context, id string) (domain.ImageStats, error) {
	var stats model.ImageStats
	err := m.DB.WithContext(ctx).Model(&model.Image{}).
		Select("like_count, view_count, comment_count").
		Where("id = ?", id).
		Take(&stats).Error
	if err != nil {
		return domain.ImageStats{}, translate(err)
	}
	return domain.ImageStats{
		LikeCount:    stats.LikeCount,
		ViewCount:    stats.ViewCount,
		CommentCount: stats.CommentCount,
	}, nil
}

func (m *imageRepository) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	repository.PageVerify(&limit)

	var rows []model.TagCount
	err := m.DB.WithContext(ctx).Raw(
		"SELECT jt.tag AS tag, COUNT(*) AS count FROM images, "+
			"JSON_TABLE(images.tags, '$[*]' COLUMNS (tag VARCHAR(64) PATH '$')) AS jt "+
			"GROUP BY jt.tag ORDER BY count DESC, jt.tag LIMIT ?", limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	res := make([]domain.TagCount, len(rows))
	for i, r := range rows {
		res[i] = domain.TagCount{Tag: r.Tag, Count: r.Count}
	}
	return res, nil
}

func (m *imageRepository) IncrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	return m.call(ctx, "increment_like_count", imageID)
}

func (m *imageRepository) DecrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	return m.call(ctx, "decrement_like_count", imageID)
}

func (m *imageRepository) IncrementViewCount(ctx context.Context, imageID string) (int64, error) {
	return m.call(ctx, "increment_view_count", imageID)
}

// call runs one of the counter stored functions, which update the row
// atomically and return the new value (NULL for an unknown image).
func (m *imageRepository) call(ctx context.Context, fn, imageID string) (int64, error) {
	var count sql.NullInt64
	if err := m.DB.WithContext(ctx).Raw("SELECT "+fn+"(?)", imageID).Row().Scan(&count); err != nil {
		return 0, translate(err)
	}
	if !count.Valid {
		return 0, domain.ErrNotFound
	}
	return count.Int64, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
