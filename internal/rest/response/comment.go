package response

import "github.com/Guyuepp/artshare/domain"

type Comment struct {
	ID        string `json:"id"`
	ImageID   string `json:"image_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	IsEdited  bool   `json:"is_edited"`

	// User 评论作者信息
	User *User `json:"user"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		ImageID:   c.ImageID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt: c.UpdatedAt.Format(DateTimeFormat),
		IsEdited:  c.IsEdited,
		User: &User{
			ID:        c.AuthorID,
			Name:      c.AuthorName,
			AvatarURL: c.AuthorAvatar,
		},
	}
}

// Thread is the comment list of one image.
type Thread struct {
	Comments   []Comment `json:"comments"`
	Submitting bool      `json:"submitting"`
}

func NewThread(items []domain.Comment, submitting bool) Thread {
	res := make([]Comment, len(items))
	for i := range items {
		res[i] = NewCommentFromDomain(&items[i])
	}
	return Thread{Comments: res, Submitting: submitting}
}
