package gallery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
)

const (
	CategoryMaintenance  = "MAINTENANCE"
	CategoryTeam         = "TEAM"
	CategoryInstallation = "INSTALLATION"
	CategoryTraining     = "TRAINING"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryMaintenance, CategoryTeam, CategoryInstallation, CategoryTraining:
		return true
	}
	return false
}

// Image is a published gallery entry. Unlike report attachments the
// image is mandatory, so ImageURL and PublicID are never empty.
type Image struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category" gorm:"not null"`
	ImageURL    string    `json:"imageUrl" gorm:"column:image_url;not null"`
	PublicID    string    `json:"publicId" gorm:"column:public_id;not null"`
	AuthorID    string    `json:"authorId" gorm:"column:author_id;not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Author *auth.AuthorRef `json:"author,omitempty" gorm:"-"`
}

func (Image) TableName() string {
	return "gallery_images"
}

func (img *Image) BeforeCreate(tx *gorm.DB) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	return nil
}

// CanBeModifiedBy reproduces the gallery moderation policy: the author,
// an ADMIN, or a MANAGER. Broader than report deletion, where managers
// have no say.
func (img *Image) CanBeModifiedBy(userID, role string) bool {
	return img.AuthorID == userID || role == auth.RoleAdmin || role == auth.RoleManager
}
