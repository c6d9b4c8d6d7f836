package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
	"github.com/Guyuepp/artshare/internal/rest/response"
	"github.com/Guyuepp/artshare/internal/usecase/feed"
)

const (
	DefaultTagLimit = feed.DefaultTagLimit
	TagLimitMax     = 50
)

// FeedHandler keeps one loader per caller and feed kind, so repeated GETs
// page through the feed.
type FeedHandler struct {
	Service *feed.Service

	loaders *registry[*feed.Loader]
}

func NewFeedHandler(svc *feed.Service) *FeedHandler {
	return &FeedHandler{
		Service: svc,
		loaders: newRegistry[*feed.Loader](ComponentIdleTTL),
	}
}

// FetchFeed returns the next page of the feed, or the first page when reset
// is set or the query changed since the last call.
func (h *FeedHandler) FetchFeed(c *gin.Context) {
	var req request.Feed
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	kind := c.Param("kind")
	q := req.ToDomain(kind)
	if q.Kind == domain.FeedFavorites && q.UserID == "" {
		if q.UserID = userID(c); q.UserID == "" {
			abortWithError(c, domain.ErrNotAuthenticated)
			return
		}
	}
	if err := q.Validate(); err != nil {
		abortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	k := key(userID(c), kind)
	l, ok := h.loaders.get(k)
	if !ok {
		created, err := h.Service.NewLoader(q)
		if err != nil {
			abortWithError(c, err)
			return
		}
		l = h.loaders.put(k, created)
	}

	var (
		page feed.Page
		err  error
	)
	if !sameQuery(l.State().Query, q) {
		page, err = l.Requery(ctx, q)
	} else {
		page, err = l.LoadPage(ctx, req.Reset)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewFeedFromPage(page))
}

// CloseFeed drops the caller's loader of :kind, cancelling a page in flight
func (h *FeedHandler) CloseFeed(c *gin.Context) {
	h.loaders.remove(key(userID(c), c.Param("kind")))
	c.Status(http.StatusNoContent)
}

// FetchPopularTags is a non-critical read: failures show an empty list
func (h *FeedHandler) FetchPopularTags(c *gin.Context) {
	limit := queryInt(c, "limit", DefaultTagLimit, 1, TagLimitMax)
	c.JSON(http.StatusOK, response.NewTagsFromDomain(h.Service.PopularTags(c.Request.Context(), limit)))
}

func sameQuery(a, b domain.FeedQuery) bool {
	if a.Kind != b.Kind || a.Term != b.Term || a.UserID != b.UserID || len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}
