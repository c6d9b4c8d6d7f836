package response

import "github.com/Guyuepp/artshare/internal/usecase/feed"

type Feed struct {
	Kind    string   `json:"kind"`
	Items   []Image  `json:"items"`
	HasMore bool     `json:"has_more"`
	Loading bool     `json:"loading"`
	Term    string   `json:"q,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	UserID  string   `json:"user_id,omitempty"`
}

func NewFeedFromPage(p feed.Page) Feed {
	items := make([]Image, len(p.Items))
	for i := range p.Items {
		items[i] = NewImageFromDomain(&p.Items[i])
	}
	return Feed{
		Kind:    string(p.Query.Kind),
		Items:   items,
		HasMore: p.HasMore,
		Loading: p.Loading,
		Term:    p.Query.Term,
		Tags:    p.Query.Tags,
		UserID:  p.Query.UserID,
	}
}
