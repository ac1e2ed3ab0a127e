package report

import (
	"io"
	"time"

	internal "github.com/rizkypratama/maintenance-portal/internal"
)

// CreateReportDTO represents the multipart form fields for a submission.
type CreateReportDTO struct {
	Title       string
	Type        string
	Date        time.Time
	Description *string
}

func (dto CreateReportDTO) Validate() error {
	if dto.Title == "" {
		return internal.NewValidationError("Judul laporan diperlukan", internal.ErrCodeInvalidTitle)
	}
	if dto.Type == "" || dto.Date.IsZero() {
		return internal.NewValidationError("Tipe dan tanggal laporan diperlukan", internal.ErrCodeValidationFailed)
	}
	if !ValidType(dto.Type) {
		return internal.NewValidationError("Tipe laporan tidak valid", internal.ErrCodeInvalidType)
	}
	return nil
}

// FileUpload carries an attachment toward the media store.
type FileUpload struct {
	Reader      io.Reader
	Name        string
	ContentType string
}

// ReviewDTO is the PATCH payload for the review transition.
type ReviewDTO struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

func (dto ReviewDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationError("Status laporan diperlukan", internal.ErrCodeValidationFailed)
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationError("Status laporan tidak valid", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// ListFilter holds the optional query filters. The literal "all" is what
// the client sends for an unset dropdown and is treated as absent.
type ListFilter struct {
	Type   string
	Status string
}

func (f ListFilter) Normalized() ListFilter {
	if f.Type == "all" {
		f.Type = ""
	}
	if f.Status == "all" {
		f.Status = ""
	}
	return f
}

// Stats is the pre-aggregated dashboard payload.
type Stats struct {
	Total         int64     `json:"total"`
	Pending       int64     `json:"pending"`
	Approved      int64     `json:"approved"`
	Rejected      int64     `json:"rejected"`
	RecentReports []*Report `json:"recentReports"`
}

// DownloadInfo is the JSON fallback returned when streaming the remote
// file fails.
type DownloadInfo struct {
	FileURL  string  `json:"fileUrl"`
	FileName *string `json:"fileName"`
	FileType *string `json:"fileType"`
}
