package response

import (
	"github.com/Guyuepp/artshare/domain"
)

const DateTimeFormat = "2006-01-02 15:04:05"

type Image struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Tags         []string `json:"tags"`
	Owner        *User    `json:"owner"`
	LikeCount    int64    `json:"like_count"`
	ViewCount    int64    `json:"view_count"`
	CommentCount int64    `json:"comment_count"`
	CreatedAt    string   `json:"created_at"`
}

// NewImageFromDomain: Domain -> Response
func NewImageFromDomain(img *domain.Image) Image {
	tags := img.Tags
	if tags == nil {
		tags = []string{}
	}
	return Image{
		ID:           img.ID,
		Title:        img.Title,
		Description:  img.Description,
		URL:          img.URL,
		Tags:         tags,
		Owner:        NewUserFromDomain(&img.Owner),
		LikeCount:    img.LikeCount,
		ViewCount:    img.ViewCount,
		CommentCount: img.CommentCount,
		CreatedAt:    img.CreatedAt.Format(DateTimeFormat),
	}
}

// Interaction is the like/favorite state of one image for the caller.
type Interaction struct {
	ImageID      string `json:"image_id"`
	IsLiked      bool   `json:"is_liked"`
	IsFavorited  bool   `json:"is_favorited"`
	LikeLoading  bool   `json:"like_loading"`
	FavLoading   bool   `json:"fav_loading"`
	LikeCount    int64  `json:"like_count"`
	ViewCount    int64  `json:"view_count"`
	CommentCount int64  `json:"comment_count"`
}

func NewInteractionFromDomain(s domain.InteractionState) Interaction {
	return Interaction{
		ImageID:      s.ImageID,
		IsLiked:      s.IsLiked,
		IsFavorited:  s.IsFavorited,
		LikeLoading:  s.LikeLoading,
		FavLoading:   s.FavLoading,
		LikeCount:    s.LikeCount,
		ViewCount:    s.ViewCount,
		CommentCount: s.CommentCount,
	}
}

type Tag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

func NewTagsFromDomain(tags []domain.TagCount) []Tag {
	res := make([]Tag, len(tags))
	for i, t := range tags {
		res[i] = Tag{Tag: t.Tag, Count: t.Count}
	}
	return res
}
