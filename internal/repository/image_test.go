package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository"
)

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) GetByID(ctx context.Context, id string) (domain.Image, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Image), args.Error(1)
}

func (m *MockImageRepository) Fetch(ctx context.Context, q domain.FeedQuery, offset, limit int) ([]domain.Image, error) {
	args := m.Called(ctx, q, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Image), args.Error(1)
}

func (m *MockImageRepository) GetStats(ctx context.Context, id string) (domain.ImageStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ImageStats), args.Error(1)
}

func (m *MockImageRepository) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.TagCount), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func TestFetch_FillsOwnersOnce(t *testing.T) {
	db := new(MockImageRepository)
	profiles := new(MockProfileRepository)
	repo := repository.NewImageRepository(db, profiles, nil)
	ctx := context.Background()
	q := domain.FeedQuery{Kind: domain.FeedRecent}

	page := []domain.Image{{ID: "i1", OwnerID: "u1"}, {ID: "i2", OwnerID: "u2"}, {ID: "i3", OwnerID: "u1"}}
	db.On("Fetch", mock.Anything, q, 0, 3).Return(page, nil).Once()
	profiles.On("GetByIDs", mock.Anything, []string{"u1", "u2"}).
		Return([]domain.Profile{{ID: "u1", Username: "ada"}, {ID: "u2", FullName: "Grace Hopper"}}, nil).Once()

	res, err := repo.Fetch(ctx, q, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "ada", res[0].Owner.DisplayName())
	assert.Equal(t, "Grace Hopper", res[1].Owner.DisplayName())
	assert.Equal(t, "ada", res[2].Owner.DisplayName())

	// owners are cached for the next page
	db.On("Fetch", mock.Anything, q, 3, 3).Return([]domain.Image{{ID: "i4", OwnerID: "u2"}}, nil).Once()
	res, err = repo.Fetch(ctx, q, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", res[0].Owner.FullName)
	profiles.AssertNumberOfCalls(t, "GetByIDs", 1)
}

func TestFetch_ProfileFailureStillServesImages(t *testing.T) {
	db := new(MockImageRepository)
	profiles := new(MockProfileRepository)
	repo := repository.NewImageRepository(db, profiles, nil)

	db.On("Fetch", mock.Anything, mock.Anything, 0, 20).Return([]domain.Image{{ID: "i1", OwnerID: "u1"}}, nil)
	profiles.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, domain.ErrBackendUnavailable)

	res, err := repo.Fetch(context.Background(), domain.FeedQuery{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, "u1", res[0].Owner.ID)
	assert.Equal(t, "Anonymous", res[0].Owner.DisplayName())
}

func TestGetByID(t *testing.T) {
	db := new(MockImageRepository)
	profiles := new(MockProfileRepository)
	repo := repository.NewImageRepository(db, profiles, nil)

	db.On("GetByID", mock.Anything, "missing").Return(domain.Image{}, domain.ErrNotFound)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	db.On("GetByID", mock.Anything, "i1").Return(domain.Image{ID: "i1", OwnerID: "u1"}, nil)
	profiles.On("GetByIDs", mock.Anything, []string{"u1"}).Return([]domain.Profile{{ID: "u1", Username: "ada"}}, nil)
	img, err := repo.GetByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "ada", img.Owner.Username)
}
