package domain

import (
	"context"
	"time"
)

// MaxCommentLength bounds comment content, counted in runes.
const MaxCommentLength = 2200

// RawComment is a comment row as the backend returns it, with the author
// embedded as a sub-object.
type RawComment struct {
	ID        string    `json:"id" validate:"required"`
	ImageID   string    `json:"image_id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *Profile  `json:"user_profiles,omitempty"`
}

// Comment is the UI-shaped comment
type Comment struct {
	ID           string    `json:"id"`
	ImageID      string    `json:"image_id"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsEdited     bool      `json:"is_edited"`
}

// Normalize flattens the author sub-object and computes IsEdited.
func (r RawComment) Normalize() Comment {
	c := Comment{
		ID:        r.ID,
		ImageID:   r.ImageID,
		Content:   r.Content,
		AuthorID:  r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	c.IsEdited = !c.UpdatedAt.Equal(c.CreatedAt)
	if r.Author != nil {
		c.AuthorName = r.Author.DisplayName()
		c.AuthorAvatar = r.Author.AvatarURL
	}
	return c
}

// CommentRepository 评论数据存取接口
type CommentRepository interface {
	// FetchByImage returns the newest comments of an image, newest first.
	FetchByImage(ctx context.Context, imageID string, limit int) ([]RawComment, error)

	// Insert stores a comment and returns the stored row with its real id
	// and timestamps.
	Insert(ctx context.Context, c RawComment) (RawComment, error)

	// Update replaces the content of a comment owned by userID.
	// Returns ErrNotOwner when userID does not own it.
	Update(ctx context.Context, id, userID, content string) (RawComment, error)

	// Delete removes a comment owned by userID.
	// Returns ErrNotOwner when userID does not own it.
	Delete(ctx context.Context, id, userID string) error
}
