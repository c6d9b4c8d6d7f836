package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository/rest"
)

func newClient(t *testing.T, h http.HandlerFunc) (*rest.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return rest.NewClient(rest.Config{BaseURL: srv.URL, AnonKey: "anon", Bucket: "artworks"}), srv
}

func TestCounterRPC(t *testing.T) {
	var body map[string]string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/rpc/increment_like_count", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, "6")
	})
	repo := rest.NewImageRepository(c)

	ctx := rest.WithAccessToken(context.Background(), "user-token")
	n, err := repo.IncrementLikeCount(ctx, "img-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, map[string]string{"image_id": "img-1"}, body)
}

func TestCounterRPC_NullIsNotFound(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	})
	_, err := rest.NewImageRepository(c).DecrementLikeCount(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrNotAuthenticated},
		{http.StatusForbidden, domain.ErrNotOwner},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusGatewayTimeout, domain.ErrTimeout},
		{http.StatusBadRequest, domain.ErrBadParamInput},
		{http.StatusInternalServerError, domain.ErrBackendUnavailable},
		{http.StatusServiceUnavailable, domain.ErrBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
			})
			err := rest.NewLikeRepository(c).Insert(context.Background(), domain.Reaction{ImageID: "i", UserID: "u"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	c := rest.NewClient(rest.Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := rest.NewFollowRepository(c).CountFollowers(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.True(t, domain.IsRetryable(err))
}

func TestExists_UsesExactCount(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "eq.img-1", r.URL.Query().Get("image_id"))
		w.Header().Set("Content-Range", "*/1")
	})

	ok, err := rest.NewFavoriteRepository(c).Exists(context.Background(), "u1", "img-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_MalformedContentRange(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "garbage")
	})
	_, err := rest.NewLikeRepository(c).Exists(context.Background(), "u1", "img-1")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestReactionDelete_Missing(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = io.WriteString(w, "[]")
	})
	err := rest.NewLikeRepository(c).Delete(context.Background(), "u1", "img-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetch_BuildsFeedQueries(t *testing.T) {
	var got []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RawQuery)
		_, _ = io.WriteString(w, `[{"id":"img-1","user_id":"u1","title":"Dusk","image_url":"https://cdn/storage/v1/object/public/artworks/u1/dusk.png","tags":["ink"],"like_count":3,"created_at":"2026-01-02T03:04:05Z"}]`)
	})
	repo := rest.NewImageRepository(c)
	ctx := context.Background()

	res, err := repo.Fetch(ctx, domain.FeedQuery{Kind: domain.FeedSearch, Term: "blue, sky"}, 40, 20)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "u1/dusk.png", res[0].StoragePath)
	assert.Equal(t, []string{"ink"}, res[0].Tags)

	_, err = repo.Fetch(ctx, domain.FeedQuery{Kind: domain.FeedTag, Tags: []string{"ink", "oil"}}, 0, 20)
	require.NoError(t, err)
	_, err = repo.Fetch(ctx, domain.FeedQuery{Kind: domain.FeedTrending}, 0, 20)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Contains(t, got[0], "offset=40")
	assert.Contains(t, got[0], "or=%28title.ilike.%2Ablue++sky%2A%2Cdescription.ilike.%2Ablue++sky%2A%29")
	assert.Contains(t, got[1], "tags=ov.%7B%22ink%22%2C%22oil%22%7D")
	assert.Contains(t, got[2], "order=like_count.desc%2Cview_count.desc%2Ccreated_at.desc")
}

func TestFetch_RejectsMalformedRows(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"img-1","title":"no owner"}]`)
	})
	_, err := rest.NewImageRepository(c).Fetch(context.Background(), domain.FeedQuery{}, 0, 20)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCommentInsert(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"c1","image_id":"abc","user_id":"u1","content":"hello","created_at":"2026-01-02T03:04:05Z","updated_at":"2026-01-02T03:04:05Z","user_profiles":{"id":"u1","username":"ada"}}]`)
	})

	raw, err := rest.NewCommentRepository(c).Insert(context.Background(), domain.RawComment{ImageID: "abc", UserID: "u1", Content: "hello"})
	require.NoError(t, err)
	got := raw.Normalize()
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "ada", got.AuthorName)
	assert.False(t, got.IsEdited)
}

func TestCommentUpdate_NotOwner(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			_, _ = io.WriteString(w, "[]")
		case http.MethodHead:
			w.Header().Set("Content-Range", "*/1")
		}
	})
	_, err := rest.NewCommentRepository(c).Update(context.Background(), "c1", "u2", "mine")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestFollowingAmong(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `in.("a","b")`, r.URL.Query().Get("following_id"))
		_, _ = io.WriteString(w, `[{"following_id":"b"}]`)
	})
	res, err := rest.NewFollowRepository(c).FollowingAmong(context.Background(), "u1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, res)
}

func TestAuthSignIn(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_, _ = io.WriteString(w, `{"access_token":"at","refresh_token":"rt","expires_at":1900000000,"user":{"id":"u1","email":"a@b.co"}}`)
	})
	auth := rest.NewAuthService(c)

	s, err := auth.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, time.Unix(1900000000, 0), s.ExpiresAt)

	_, err = auth.SignIn(context.Background(), "not-an-email", "secret1")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestStorage(t *testing.T) {
	var uploaded string
	c, srv := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			uploaded = r.URL.Path + ":" + string(b)
		}
	})
	st := rest.NewStorage(c)
	ctx := context.Background()

	path, err := st.Upload(ctx, "/u1/dusk.png", "image/png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "u1/dusk.png", path)
	assert.Equal(t, "/storage/v1/object/artworks/u1/dusk.png:PNG", uploaded)

	public := st.PublicURL(path)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/artworks/u1/dusk.png", public)

	back, err := st.ExtractPath(public)
	require.NoError(t, err)
	assert.Equal(t, path, back)

	bare, err := st.ExtractPath("u1/dusk.png")
	require.NoError(t, err)
	assert.Equal(t, path, bare)

	_, err = st.ExtractPath("https://elsewhere.example/img.png")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	require.NoError(t, st.Delete(ctx, public))
}
