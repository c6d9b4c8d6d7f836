package comment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/usecase/comment"
)

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
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

type session string

func (s session) UserID() (string, bool) { return string(s), s != "" }

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func raw(id, imageID, userID, content string, age time.Duration) domain.RawComment {
	created := t0.Add(-age)
	return domain.RawComment{
		ID:        id,
		ImageID:   imageID,
		UserID:    userID,
		Content:   content,
		CreatedAt: created,
		UpdatedAt: created,
		Author:    &domain.Profile{ID: userID, Username: "user-" + userID},
	}
}

func setup(t *testing.T, uid string) (*comment.Thread, *MockCommentRepository, *MockNotifier, domain.Image) {
	t.Helper()
	repo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	img := domain.Image{ID: "abc", OwnerID: faker.UUIDHyphenated()}
	th := comment.NewService(repo, notifier).NewThread(session(uid))
	return th, repo, notifier, img
}

func loaded(t *testing.T, th *comment.Thread, repo *MockCommentRepository, img domain.Image) {
	t.Helper()
	th.Bind(img)
	repo.On("FetchByImage", mock.Anything, img.ID, comment.DefaultFetchLimit).Return([]domain.RawComment{
		raw("c3", img.ID, "u2", "third", time.Minute),
		raw("c2", img.ID, "u1", "second", 2*time.Minute),
		raw("c1", img.ID, "u3", "first", 3*time.Minute),
	}, nil).Once()
	_, err := th.Load(context.Background())
	require.NoError(t, err)
}

func ids(items []domain.Comment) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func TestLoad_Normalizes(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	th.Bind(img)

	edited := raw("c2", img.ID, "u1", "edited", time.Hour)
	edited.UpdatedAt = t0
	edited.Author = &domain.Profile{ID: "u1", FullName: "Ada Lovelace", AvatarURL: "https://cdn/a.png"}
	noAuthor := raw("c1", img.ID, "u9", "hi", 2*time.Hour)
	noAuthor.Author = nil
	repo.On("FetchByImage", mock.Anything, img.ID, comment.DefaultFetchLimit).
		Return([]domain.RawComment{edited, noAuthor}, nil)

	items, err := th.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ada Lovelace", items[0].AuthorName)
	assert.Equal(t, "https://cdn/a.png", items[0].AuthorAvatar)
	assert.True(t, items[0].IsEdited)
	assert.False(t, items[1].IsEdited)
	assert.Equal(t, "u9", items[1].AuthorID)

	// idempotent
	again, err := th.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestLoad_NotReady(t *testing.T) {
	th, repo, _, _ := setup(t, "u1")
	_, err := th.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrEntityNotReady)
	repo.AssertNotCalled(t, "FetchByImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdd_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		uid     string
		bind    bool
		content string
		want    error
	}{
		{"no session wins over empty content", "", false, "  ", domain.ErrNotAuthenticated},
		{"empty after trim", "u1", false, " \n\t ", domain.ErrEmptyContent},
		{"entity not ready", "u1", false, "hello", domain.ErrEntityNotReady},
		{"too long", "u1", true, strings.Repeat("é", domain.MaxCommentLength+1), domain.ErrContentTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, repo, _, img := setup(t, tt.uid)
			if tt.bind {
				th.Bind(img)
			}
			_, err := th.Add(context.Background(), tt.content)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsPrecondition(err))
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestAdd_MaxLengthAccepted(t *testing.T) {
	th, repo, notifier, img := setup(t, "u1")
	th.Bind(img)
	content := strings.Repeat("é", domain.MaxCommentLength)
	repo.On("Insert", mock.Anything, mock.Anything).Return(raw("c1", img.ID, "u1", content, 0), nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return()

	_, err := th.Add(context.Background(), content)
	assert.NoError(t, err)
}

func TestAdd_PrependsServerComment(t *testing.T) {
	th, repo, notifier, img := setup(t, "u1")
	loaded(t, th, repo, img)

	repo.On("Insert", mock.Anything, domain.RawComment{ImageID: img.ID, UserID: "u1", Content: "hello"}).
		Return(raw("c4", img.ID, "u1", "hello", 0), nil).Once()
	notifier.On("Notify", mock.Anything, domain.Notification{
		UserID:  img.OwnerID,
		ActorID: "u1",
		Type:    domain.NotificationComment,
		ImageID: img.ID,
	}).Return().Once()

	c, err := th.Add(context.Background(), "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "c4", c.ID)
	assert.Equal(t, t0, c.CreatedAt)
	assert.Equal(t, []string{"c4", "c3", "c2", "c1"}, ids(th.Items()))
	assert.False(t, th.Submitting())
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAdd_FailureKeepsList(t *testing.T) {
	th, repo, notifier, img := setup(t, "u1")
	loaded(t, th, repo, img)
	repo.On("Insert", mock.Anything, mock.Anything).Return(domain.RawComment{}, domain.ErrBackendUnavailable)

	_, err := th.Add(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(th.Items()))
	assert.False(t, th.Submitting())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestAdd_OwnCommentDoesNotNotify(t *testing.T) {
	th, repo, notifier, img := setup(t, "owner")
	img.OwnerID = "owner"
	th.Bind(img)
	repo.On("Insert", mock.Anything, mock.Anything).Return(raw("c1", img.ID, "owner", "hi", 0), nil)

	_, err := th.Add(context.Background(), "hi")
	require.NoError(t, err)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestUpdate_OverwritesInPlace(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	loaded(t, th, repo, img)

	updated := raw("c2", img.ID, "u1", "second, revised", 2*time.Minute)
	updated.UpdatedAt = t0
	updated.Author = nil
	repo.On("Update", mock.Anything, "c2", "u1", "second, revised").Return(updated, nil)

	c, err := th.Update(context.Background(), "c2", "second, revised")
	require.NoError(t, err)
	assert.True(t, c.IsEdited)

	items := th.Items()
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(items))
	assert.Equal(t, "second, revised", items[1].Content)
	// server row wins, no merge with the old author fields
	assert.Empty(t, items[1].AuthorName)
}

func TestUpdate_NotOwner(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	loaded(t, th, repo, img)
	repo.On("Update", mock.Anything, "c3", "u1", "mine now").Return(domain.RawComment{}, domain.ErrNotOwner)

	_, err := th.Update(context.Background(), "c3", "mine now")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Equal(t, "third", th.Items()[0].Content)
}

func TestDelete_KeepsOrder(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	loaded(t, th, repo, img)
	repo.On("Delete", mock.Anything, "c2", "u1").Return(nil)

	require.NoError(t, th.Delete(context.Background(), "c2"))
	assert.Equal(t, []string{"c3", "c1"}, ids(th.Items()))
}

func TestDelete_Failure(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	loaded(t, th, repo, img)
	repo.On("Delete", mock.Anything, "c1", "u1").Return(domain.ErrNotOwner)

	assert.ErrorIs(t, th.Delete(context.Background(), "c1"), domain.ErrNotOwner)
	assert.Len(t, th.Items(), 3)
}

func TestItems_ReturnsCopy(t *testing.T) {
	th, repo, _, img := setup(t, "u1")
	loaded(t, th, repo, img)

	items := th.Items()
	items[0].Content = "tampered"
	assert.Equal(t, "third", th.Items()[0].Content)
}
