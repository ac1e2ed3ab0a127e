package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
)

// GalleryRepository implements the gallery.Repository interface using GORM.
type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) gallery.Repository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) Create(img *gallery.Image) error {
	return r.db.Create(img).Error
}

func (r *GalleryRepository) GetByID(id string) (*gallery.Image, error) {
	var img gallery.Image
	err := r.db.Where("id = ?", id).First(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachAuthors([]*gallery.Image{&img}); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *GalleryRepository) List(filter gallery.ListFilter) ([]*gallery.Image, error) {
	var images []*gallery.Image
	q := r.db.Order("created_at DESC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	if err := r.attachAuthors(images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GalleryRepository) Update(img *gallery.Image) error {
	return r.db.Save(img).Error
}

func (r *GalleryRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&gallery.Image{}).Error
}

func (r *GalleryRepository) attachAuthors(images []*gallery.Image) error {
	if len(images) == 0 {
		return nil
	}

	ids := make([]string, 0, len(images))
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		if !seen[img.AuthorID] {
			seen[img.AuthorID] = true
			ids = append(ids, img.AuthorID)
		}
	}

	var users []auth.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}

	byID := make(map[string]*auth.AuthorRef, len(users))
	for i := range users {
		u := users[i]
		byID[u.ID] = &auth.AuthorRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	for _, img := range images {
		img.Author = byID[img.AuthorID]
	}
	return nil
}
