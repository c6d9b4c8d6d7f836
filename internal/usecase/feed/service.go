package feed

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

// DefaultPageSize is used when a loader is created without a page size.
const DefaultPageSize = 20

// DefaultTagLimit bounds PopularTags when no limit is given.
const DefaultTagLimit = 10

type Service struct {
	imageRepo domain.ImageRepository
	pageSize  int
}

// NewService will create a new feed service object
func NewService(imageRepo domain.ImageRepository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		imageRepo: imageRepo,
		pageSize:  pageSize,
	}
}

// NewLoader creates an idle loader over q.
func (s *Service) NewLoader(q domain.FeedQuery) (*Loader, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &Loader{
		imageRepo: s.imageRepo,
		pageSize:  s.pageSize,
		query:     q,
		items:     []domain.Image{},
		seen:      make(map[string]struct{}),
		hasMore:   true,
	}, nil
}

// PopularTags is a non-critical read: failures yield an empty list.
func (s *Service) PopularTags(ctx context.Context, limit int) []domain.TagCount {
	if limit <= 0 {
		limit = DefaultTagLimit
	}
	tags, err := s.imageRepo.PopularTags(ctx, limit)
	if err != nil {
		logrus.Warnf("failed to load popular tags, err: %v", err)
		return []domain.TagCount{}
	}
	if tags == nil {
		return []domain.TagCount{}
	}
	return tags
}
