package comment

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/artshare/domain"
)

// Thread keeps the newest-first comments of one image. Additions are not
// optimistic: the server's row is prepended once the insert returns.
type Thread struct {
	svc     *Service
	session domain.SessionSource

	mu         sync.Mutex
	imageID    string
	ownerID    string
	items      []domain.Comment
	submitting bool
}

// Bind marks the image as loaded. Binding another image clears the list.
func (t *Thread) Bind(img domain.Image) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.imageID != img.ID {
		t.items = []domain.Comment{}
	}
	t.imageID = img.ID
	t.ownerID = img.OwnerID
}

// Items returns a copy of the current list.
func (t *Thread) Items() []domain.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Comment, len(t.items))
	copy(out, t.items)
	return out
}

// Submitting reports whether an Add is waiting for the server.
func (t *Thread) Submitting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting
}

func (t *Thread) bound() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.imageID
}

// Load replaces the list with the server's newest comments.
func (t *Thread) Load(ctx context.Context) ([]domain.Comment, error) {
	imageID := t.bound()
	if imageID == "" {
		return t.Items(), domain.ErrEntityNotReady
	}

	raws, err := t.svc.commentRepo.FetchByImage(ctx, imageID, t.svc.limit)
	if err != nil {
		logrus.Errorf("failed to fetch comments, image: %s, err: %v", imageID, err)
		return t.Items(), err
	}

	list := make([]domain.Comment, 0, len(raws))
	for _, r := range raws {
		list = append(list, r.Normalize())
	}

	t.mu.Lock()
	if t.imageID == imageID {
		t.items = list
	}
	t.mu.Unlock()
	return t.Items(), nil
}

// Add posts content and prepends the stored comment. The preconditions are
// checked in order and each fails with its own error.
func (t *Thread) Add(ctx context.Context, content string) (domain.Comment, error) {
	uid, ok := t.session.UserID()
	if !ok {
		return domain.Comment{}, domain.ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, domain.ErrEmptyContent
	}

	t.mu.Lock()
	imageID, ownerID := t.imageID, t.ownerID
	if imageID == "" {
		t.mu.Unlock()
		return domain.Comment{}, domain.ErrEntityNotReady
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		t.mu.Unlock()
		return domain.Comment{}, domain.ErrContentTooLong
	}
	t.submitting = true
	t.mu.Unlock()

	raw, err := t.svc.commentRepo.Insert(ctx, domain.RawComment{
		ImageID: imageID,
		UserID:  uid,
		Content: content,
	})

	t.mu.Lock()
	t.submitting = false
	if err != nil {
		t.mu.Unlock()
		logrus.Errorf("failed to add comment, image: %s, user: %s, err: %v", imageID, uid, err)
		return domain.Comment{}, err
	}
	c := raw.Normalize()
	if t.imageID == imageID {
		t.items = append([]domain.Comment{c}, t.items...)
	}
	t.mu.Unlock()

	if ownerID != "" && ownerID != uid {
		t.svc.notifier.Notify(ctx, domain.Notification{
			UserID:  ownerID,
			ActorID: uid,
			Type:    domain.NotificationComment,
			ImageID: imageID,
		})
	}
	return c, nil
}

// Update replaces the content of comment id and overwrites the local item
// with the server's row.
func (t *Thread) Update(ctx context.Context, id, content string) (domain.Comment, error) {
	uid, ok := t.session.UserID()
	if !ok {
		return domain.Comment{}, domain.ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return domain.Comment{}, domain.ErrContentTooLong
	}

	raw, err := t.svc.commentRepo.Update(ctx, id, uid, content)
	if err != nil {
		logrus.Warnf("failed to update comment %s, user: %s, err: %v", id, uid, err)
		return domain.Comment{}, err
	}
	c := raw.Normalize()

	t.mu.Lock()
	for i := range t.items {
		if t.items[i].ID == id {
			t.items[i] = c
			break
		}
	}
	t.mu.Unlock()
	return c, nil
}

// Delete removes comment id, keeping the order of the rest.
func (t *Thread) Delete(ctx context.Context, id string) error {
	uid, ok := t.session.UserID()
	if !ok {
		return domain.ErrNotAuthenticated
	}

	if err := t.svc.commentRepo.Delete(ctx, id, uid); err != nil {
		logrus.Warnf("failed to delete comment %s, user: %s, err: %v", id, uid, err)
		return err
	}

	t.mu.Lock()
	kept := t.items[:0:0]
	for _, c := range t.items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	t.items = kept
	t.mu.Unlock()
	return nil
}
