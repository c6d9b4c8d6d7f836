package domain

import (
	"context"
	"io"
)

// ObjectStorage is the backend's bucket surface.
type ObjectStorage interface {
	// Upload stores body at path and returns the stored path.
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)

	// PublicURL returns the absolute URL of path.
	PublicURL(path string) string

	// ExtractPath turns a previously issued public URL, or a bare path,
	// back into the bucket path.
	ExtractPath(rawURL string) (string, error)

	Delete(ctx context.Context, path string) error
}
