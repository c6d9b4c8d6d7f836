package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository/cache"
)

// ProfileCacheDuration 作者信息缓存时长
const ProfileCacheDuration = 5 * time.Minute

// imageRepository 协调层，给后端返回的图片补全作者资料和公开地址
type imageRepository struct {
	db          domain.ImageRepository
	profileRepo domain.ProfileRepository
	storage     domain.ObjectStorage
	profiles    *cache.TTL[string, domain.Profile]
	group       singleflight.Group
}

var _ domain.ImageRepository = (*imageRepository)(nil)

// NewImageRepository 创建协调层repository. storage may be nil, in which case
// image URLs are left as returned by the backend.
func NewImageRepository(db domain.ImageRepository, profileRepo domain.ProfileRepository, storage domain.ObjectStorage) *imageRepository {
	return &imageRepository{
		db:          db,
		profileRepo: profileRepo,
		storage:     storage,
		profiles:    cache.NewTTL[string, domain.Profile](ProfileCacheDuration),
	}
}

// GetByID 单张图片，并发请求合并
func (r *imageRepository) GetByID(ctx context.Context, id string) (domain.Image, error) {
	v, err, _ := r.group.Do("image:"+id, func() (any, error) {
		img, err := r.db.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		imgs := []domain.Image{img}
		r.fillOwnerDetails(ctx, imgs)
		return imgs[0], nil
	})
	if err != nil {
		return domain.Image{}, err
	}
	return v.(domain.Image), nil
}

// Fetch 获取一页图片
func (r *imageRepository) Fetch(ctx context.Context, q domain.FeedQuery, offset, limit int) ([]domain.Image, error) {
	images, err := r.db.Fetch(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	r.fillOwnerDetails(ctx, images)
	return images, nil
}

func (r *imageRepository) GetStats(ctx context.Context, id string) (domain.ImageStats, error) {
	return r.db.GetStats(ctx, id)
}

func (r *imageRepository) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	return r.db.PopularTags(ctx, limit)
}

// fillOwnerDetails 批量填充作者信息. A failed profile lookup leaves the bare
// owner id in place; the images themselves are still served.
func (r *imageRepository) fillOwnerDetails(ctx context.Context, images []domain.Image) {
	for i := range images {
		if images[i].URL == "" && images[i].StoragePath != "" && r.storage != nil {
			images[i].URL = r.storage.PublicURL(images[i].StoragePath)
		}
	}
	if len(images) == 0 {
		return
	}

	// 收集缓存中没有的作者ID
	missing := make([]string, 0, len(images))
	existMap := make(map[string]bool)
	for _, img := range images {
		if img.OwnerID == "" || existMap[img.OwnerID] {
			continue
		}
		existMap[img.OwnerID] = true
		if _, ok := r.profiles.Get(img.OwnerID); !ok {
			missing = append(missing, img.OwnerID)
		}
	}

	if len(missing) > 0 {
		profiles, err := r.profileRepo.GetByIDs(ctx, missing)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logrus.Warnf("failed to fill owner profiles: %v", err)
		}
		for _, p := range profiles {
			r.profiles.Set(p.ID, p)
		}
	}

	for i := range images {
		if p, ok := r.profiles.Get(images[i].OwnerID); ok {
			images[i].Owner = p
		} else {
			images[i].Owner = domain.Profile{ID: images[i].OwnerID}
		}
	}
}
