package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/repository"
)

type imageRow struct {
	ID           string    `json:"id" validate:"required"`
	UserID       string    `json:"user_id" validate:"required"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url" validate:"required"`
	Tags         []string  `json:"tags"`
	LikeCount    int64     `json:"like_count" validate:"gte=0"`
	ViewCount    int64     `json:"view_count" validate:"gte=0"`
	CommentCount int64     `json:"comment_count" validate:"gte=0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type statsRow struct {
	LikeCount    int64 `json:"like_count" validate:"gte=0"`
	ViewCount    int64 `json:"view_count" validate:"gte=0"`
	CommentCount int64 `json:"comment_count" validate:"gte=0"`
}

type tagRow struct {
	Tag   string `json:"tag" validate:"required"`
	Count int64  `json:"count"`
}

const imageColumns = "id,user_id,title,description,image_url,tags,like_count,view_count,comment_count,created_at,updated_at"

type imageRepository struct {
	c       *Client
	storage *storage
}

var (
	_ domain.ImageRepository = (*imageRepository)(nil)
	_ domain.CounterRPC      = (*imageRepository)(nil)
)

func NewImageRepository(c *Client) *imageRepository {
	return &imageRepository{c: c, storage: NewStorage(c)}
}

func (r *imageRepository) toDomain(row imageRow) domain.Image {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	img := domain.Image{
		ID:           row.ID,
		OwnerID:      row.UserID,
		Owner:        domain.Profile{ID: row.UserID},
		Title:        row.Title,
		Description:  row.Description,
		URL:          row.ImageURL,
		Tags:         tags,
		LikeCount:    row.LikeCount,
		ViewCount:    row.ViewCount,
		CommentCount: row.CommentCount,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if p, err := r.storage.ExtractPath(row.ImageURL); err == nil {
		img.StoragePath = p
	}
	return img
}

func (r *imageRepository) GetByID(ctx context.Context, id string) (domain.Image, error) {
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/images",
		query:  url.Values{"select": {imageColumns}, "id": {eq(id)}, "limit": {"1"}},
	})
	if err != nil {
		return domain.Image{}, err
	}
	row, err := decodeOne[imageRow](r.c, resp.body)
	if err != nil {
		return domain.Image{}, err
	}
	return r.toDomain(row), nil
}

func (r *imageRepository) Fetch(ctx context.Context, q domain.FeedQuery, offset, limit int) ([]domain.Image, error) {
	repository.PageVerify(&limit)
	repository.PageOffset(&offset)

	query := url.Values{
		"select": {imageColumns},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
		"order":  {"created_at.desc"},
	}
	switch q.Kind {
	case domain.FeedSearch:
		term := "*" + sanitizeTerm(q.Term) + "*"
		query.Set("or", "(title.ilike."+term+",description.ilike."+term+")")
	case domain.FeedTag:
		query.Set("tags", "ov.{"+strings.Join(quoteAll(q.Tags), ",")+"}")
	case domain.FeedUser:
		query.Set("user_id", eq(q.UserID))
	case domain.FeedFavorites:
		query.Set("select", imageColumns+",favorites!inner(user_id,created_at)")
		query.Set("favorites.user_id", eq(q.UserID))
		query.Set("order", "created_at.desc")
	case domain.FeedTrending:
		query.Set("order", "like_count.desc,view_count.desc,created_at.desc")
	}

	resp, err := r.c.do(ctx, request{method: http.MethodGet, path: "/rest/v1/images", query: query})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[imageRow](r.c, resp.body)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Image, len(rows))
	for i := range rows {
		res[i] = r.toDomain(rows[i])
	}
	return res, nil
}

func (r *imageRepository) GetStats(ctx context.Context, id string) (domain.ImageStats, error) {
	resp, err := r.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/images",
		query:  url.Values{"select": {"like_count,view_count,comment_count"}, "id": {eq(id)}, "limit": {"1"}},
	})
	if err != nil {
		return domain.ImageStats{}, err
	}
	row, err := decodeOne[statsRow](r.c, resp.body)
	if err != nil {
		return domain.ImageStats{}, err
	}
	return domain.ImageStats{
		LikeCount:    row.LikeCount,
		ViewCount:    row.ViewCount,
		CommentCount: row.CommentCount,
	}, nil
}

// PopularTags is served by the popular_tags procedure.
func (r *imageRepository) PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	repository.PageVerify(&limit)
	resp, err := r.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/rpc/popular_tags",
		body:   map[string]int{"tag_limit": limit},
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[tagRow](r.c, resp.body)
	if err != nil {
		return nil, err
	}
	res := make([]domain.TagCount, len(rows))
	for i, row := range rows {
		res[i] = domain.TagCount{Tag: row.Tag, Count: row.Count}
	}
	return res, nil
}

func (r *imageRepository) IncrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	return r.counter(ctx, "increment_like_count", imageID)
}

func (r *imageRepository) DecrementLikeCount(ctx context.Context, imageID string) (int64, error) {
	return r.counter(ctx, "decrement_like_count", imageID)
}

func (r *imageRepository) IncrementViewCount(ctx context.Context, imageID string) (int64, error) {
	return r.counter(ctx, "increment_view_count", imageID)
}

func (r *imageRepository) counter(ctx context.Context, fn, imageID string) (int64, error) {
	var n *int64
	if err := r.c.rpc(ctx, fn, map[string]string{"image_id": imageID}, &n); err != nil {
		logrus.Warnf("%s failed, image: %s, err: %v", fn, imageID, err)
		return 0, err
	}
	if n == nil {
		return 0, domain.ErrNotFound
	}
	return *n, nil
}

// sanitizeTerm drops characters that carry meaning in a PostgREST filter.
func sanitizeTerm(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '"', '\\':
			return ' '
		}
		return r
	}, s)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Quote(v)
	}
	return out
}
