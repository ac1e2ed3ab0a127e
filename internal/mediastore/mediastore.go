package mediastore

import (
	"context"
	"io"
)

// UploadResult is what the portal persists about a stored object: the
// CDN URL plus the deletion handle.
type UploadResult struct {
	URL          string
	PublicID     string
	Format       string
	ResourceType string
}

// Store is the boundary to the external media host. File and report
// bytes never touch the portal's database; only the returned URL and
// public id are persisted.
type Store interface {
	// UploadFile stores an arbitrary document (pdf, image, ...) under the
	// report folder, auto-detecting the resource type.
	UploadFile(ctx context.Context, r io.Reader) (*UploadResult, error)

	// UploadImage stores an image under the gallery folder.
	UploadImage(ctx context.Context, r io.Reader) (*UploadResult, error)

	// Delete removes a previously uploaded object by its public id.
	Delete(ctx context.Context, publicID string) error
}
