package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
)

const (
	TypeDaily   = "DAILY"
	TypeWeekly  = "WEEKLY"
	TypeMonthly = "MONTHLY"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

func ValidType(t string) bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeMonthly:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Report is a reviewable document submission. The file reference fields
// are set together when an attachment was uploaded to the media store,
// and are all nil otherwise.
type Report struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Type        string     `json:"type" gorm:"not null"`
	Date        time.Time  `json:"date" gorm:"type:date;not null"`
	Description *string    `json:"description,omitempty"`
	FileURL     *string    `json:"fileUrl,omitempty" gorm:"column:file_url"`
	PublicID    *string    `json:"publicId,omitempty" gorm:"column:public_id"`
	FileName    *string    `json:"fileName,omitempty" gorm:"column:file_name"`
	FileType    *string    `json:"fileType,omitempty" gorm:"column:file_type"`
	Status      string     `json:"status" gorm:"default:PENDING"`
	Comment     *string    `json:"comment,omitempty"`
	AuthorID    string     `json:"authorId" gorm:"column:author_id;not null;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Author *auth.AuthorRef `json:"author,omitempty" gorm:"-"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Report) HasFile() bool {
	return r.PublicID != nil && *r.PublicID != ""
}

// Review overwrites the status and, when provided, the reviewer comment.
// Prior comments are not retained; only the latest survives.
func (r *Report) Review(status string, comment *string) {
	r.Status = status
	if comment != nil {
		r.Comment = comment
	}
	r.UpdatedAt = time.Now()
}

// CanBeDeletedBy reproduces the report deletion policy: the author or an
// ADMIN. Managers deliberately have no extra rights here, unlike the
// gallery policy.
func (r *Report) CanBeDeletedBy(userID, role string) bool {
	return r.AuthorID == userID || role == auth.RoleAdmin
}
