package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Guyuepp/artshare/domain"
)

// storage implements the bucket surface. Public URLs look like
// {base}/storage/v1/object/public/{bucket}/{path}.
type storage struct {
	c *Client
}

var _ domain.ObjectStorage = (*storage)(nil)

func NewStorage(c *Client) *storage {
	return &storage{c: c}
}

func (s *storage) publicPrefix() string {
	return s.c.baseURL + "/storage/v1/object/public/" + s.c.bucket + "/"
}

func (s *storage) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", domain.ErrBadParamInput
	}
	_, err := s.c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/storage/v1/object/" + s.c.bucket + "/" + escapePath(path),
		raw:     body,
		headers: map[string]string{"Content-Type": contentType, "x-upsert": "false"},
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *storage) PublicURL(path string) string {
	return s.publicPrefix() + escapePath(strings.TrimLeft(path, "/"))
}

// ExtractPath accepts a public URL issued by PublicURL, or a bare path, and
// returns the bucket path.
func (s *storage) ExtractPath(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrBadParamInput
	}
	if !strings.Contains(raw, "://") {
		return strings.TrimLeft(raw, "/"), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}
	marker := "/storage/v1/object/public/" + s.c.bucket + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %q is not in bucket %s", domain.ErrBadParamInput, raw, s.c.bucket)
	}
	path := u.Path[i+len(marker):]
	if path == "" {
		return "", domain.ErrBadParamInput
	}
	return path, nil
}

func (s *storage) Delete(ctx context.Context, path string) error {
	p, err := s.ExtractPath(path)
	if err != nil {
		return err
	}
	_, err = s.c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/storage/v1/object/" + s.c.bucket,
		body:   map[string][]string{"prefixes": {p}},
	})
	return err
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}
