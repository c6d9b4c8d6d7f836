package domain

import "strings"

// FeedKind selects which logical list of images a feed shows.
type FeedKind string

const (
	FeedRecent    FeedKind = "recent"
	FeedTrending  FeedKind = "trending"
	FeedSearch    FeedKind = "search"
	FeedTag       FeedKind = "tag"
	FeedUser      FeedKind = "user"
	FeedFavorites FeedKind = "favorites"
)

// Valid checks if the kind is one the backends know how to query.
func (k FeedKind) Valid() bool {
	switch k {
	case FeedRecent, FeedTrending, FeedSearch, FeedTag, FeedUser, FeedFavorites:
		return true
	default:
		return false
	}
}

// FeedQuery describes one logical feed.
type FeedQuery struct {
	Kind   FeedKind
	Term   string   // FeedSearch: pattern matched against title and description
	Tags   []string // FeedTag: images whose tags overlap these
	UserID string   // FeedUser: uploader, FeedFavorites: the user who favorited
}

// Normalize lower-cases tags and trims the search term.
func (q FeedQuery) Normalize() FeedQuery {
	q.Term = strings.TrimSpace(q.Term)
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	q.Tags = tags
	if q.Kind == "" {
		q.Kind = FeedRecent
	}
	return q
}

// Validate reports ErrBadParamInput when a kind misses the field it filters on.
func (q FeedQuery) Validate() error {
	if !q.Kind.Valid() {
		return ErrBadParamInput
	}
	switch q.Kind {
	case FeedSearch:
		if q.Term == "" {
			return ErrBadParamInput
		}
	case FeedTag:
		if len(q.Tags) == 0 {
			return ErrBadParamInput
		}
	case FeedUser, FeedFavorites:
		if q.UserID == "" {
			return ErrBadParamInput
		}
	}
	return nil
}
