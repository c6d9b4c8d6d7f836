package request

import (
	"strings"

	"github.com/Guyuepp/artshare/domain"
)

// Feed is the query string of GET /feeds/:kind.
type Feed struct {
	Term   string   `form:"q"`
	Tags   []string `form:"tag"`
	UserID string   `form:"user_id"`
	// Reset reloads from the first page instead of appending the next one.
	Reset bool `form:"reset"`
}

// ToDomain: Request -> Domain. Comma separated tags are split.
func (f *Feed) ToDomain(kind string) domain.FeedQuery {
	var tags []string
	for _, t := range f.Tags {
		tags = append(tags, strings.Split(t, ",")...)
	}
	return domain.FeedQuery{
		Kind:   domain.FeedKind(kind),
		Term:   f.Term,
		Tags:   tags,
		UserID: f.UserID,
	}.Normalize()
}

