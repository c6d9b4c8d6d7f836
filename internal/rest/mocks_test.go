package rest_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/artshare/domain"
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TagCount), args.Error(1)
}

type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Exists(ctx context.Context, userID, imageID string) (bool, error) {
	args := m.Called(ctx, userID, imageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Insert(ctx context.Context, r domain.Reaction) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReactionRepository) Delete(ctx context.Context, userID, imageID string) error {
	return m.Called(ctx, userID, imageID).Error(0)
}

type MockCounterRPC struct {
	mock.Mock
}

func (m *MockCounterRPC) IncrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRPC) DecrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRPC) IncrementViewCount(ctx context.Context, imageID string) (int64, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FetchByImage(ctx context.Context, imageID string, limit int) ([]domain.RawComment, error) {
	args := m.Called(ctx, imageID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawComment), args.Error(1)
}

func (m *MockCommentRepository) Insert(ctx context.Context, c domain.RawComment) (domain.RawComment, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.RawComment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, id, userID, content string) (domain.RawComment, error) {
	args := m.Called(ctx, id, userID, content)
	return args.Get(0).(domain.RawComment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockFollowUsecase struct {
	mock.Mock
}

func (m *MockFollowUsecase) Follow(ctx context.Context, targetID, actingUserID string) error {
	return m.Called(ctx, targetID, actingUserID).Error(0)
}

func (m *MockFollowUsecase) Unfollow(ctx context.Context, targetID, actingUserID string) error {
	return m.Called(ctx, targetID, actingUserID).Error(0)
}

func (m *MockFollowUsecase) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowUsecase) GetFollowStats(ctx context.Context, userID string) domain.FollowStats {
	return m.Called(ctx, userID).Get(0).(domain.FollowStats)
}

func (m *MockFollowUsecase) CheckMultipleFollowStatus(ctx context.Context, ids []string, actingUserID string) (map[string]bool, error) {
	args := m.Called(ctx, ids, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type MockNotificationUsecase struct {
	mock.Mock
}

func (m *MockNotificationUsecase) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

func (m *MockNotificationUsecase) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationUsecase) MarkRead(ctx context.Context, userID string, ids []string) error {
	return m.Called(ctx, userID, ids).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(domain.Session), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, path, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) PublicURL(path string) string {
	return m.Called(path).String(0)
}

func (m *MockObjectStorage) ExtractPath(rawURL string) (string, error) {
	args := m.Called(rawURL)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}
