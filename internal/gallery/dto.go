package gallery

import (
	"io"

	internal "github.com/rizkypratama/maintenance-portal/internal"
)

// ImageUpload carries the raw image toward the media store.
type ImageUpload struct {
	Reader      io.Reader
	Name        string
	ContentType string
}

// CreateImageDTO represents the multipart form fields for publishing an
// image. The file itself travels separately as an ImageUpload.
type CreateImageDTO struct {
	Title       string
	Category    string
	Description *string
}

func (dto CreateImageDTO) Validate(hasImage bool) error {
	if dto.Title == "" || dto.Category == "" {
		return internal.NewValidationError("Judul dan kategori diperlukan", internal.ErrCodeValidationFailed)
	}
	if !hasImage {
		return internal.NewValidationError("Gambar diperlukan", internal.ErrCodeMissingFile)
	}
	if !ValidCategory(dto.Category) {
		return internal.NewValidationError("Kategori galeri tidak valid", internal.ErrCodeInvalidCategory)
	}
	return nil
}

// UpdateImageDTO represents an edit. A replacement image is optional;
// title and category must be re-sent in full.
type UpdateImageDTO struct {
	Title       string
	Category    string
	Description *string
}

func (dto UpdateImageDTO) Validate() error {
	if dto.Title == "" || dto.Category == "" {
		return internal.NewValidationError("Judul dan kategori diperlukan", internal.ErrCodeValidationFailed)
	}
	if !ValidCategory(dto.Category) {
		return internal.NewValidationError("Kategori galeri tidak valid", internal.ErrCodeInvalidCategory)
	}
	return nil
}

// ListFilter holds the optional category filter. The literal "all" is
// what the client sends for an unset dropdown and is treated as absent.
type ListFilter struct {
	Category string
}

func (f ListFilter) Normalized() ListFilter {
	if f.Category == "all" {
		f.Category = ""
	}
	return f
}

// Stats is the gallery dashboard payload: per-category counts plus the
// latest uploads.
type Stats struct {
	Total        int64            `json:"total"`
	ByCategory   map[string]int64 `json:"byCategory"`
	RecentImages []*Image         `json:"recentImages"`
}
