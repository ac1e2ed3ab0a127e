package gallery

import (
	"context"
	"log/slog"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/mediastore"
)

// Repository defines the data access methods for gallery images.
type Repository interface {
	Create(img *Image) error
	GetByID(id string) (*Image, error)
	List(filter ListFilter) ([]*Image, error)
	Update(img *Image) error
	Delete(id string) error
}

// StatsRepository serves the pre-aggregated gallery dashboard queries.
type StatsRepository interface {
	CategoryCounts() (total int64, byCategory map[string]int64, err error)
	RecentImages(limit int) ([]*Image, error)
}

// UserResolver re-checks that a session subject still exists before a
// write is accepted.
type UserResolver interface {
	GetByID(id string) (*auth.User, error)
}

// Service handles gallery business logic.
type Service struct {
	repo   Repository
	stats  StatsRepository
	users  UserResolver
	media  mediastore.Store
	logger *slog.Logger
}

func NewService(repo Repository, stats StatsRepository, users UserResolver, media mediastore.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		stats:  stats,
		users:  users,
		media:  media,
		logger: logger,
	}
}

// Publish uploads the image to the media store and persists the entry.
// The upload runs first so no row is created without its image.
func (s *Service) Publish(ctx context.Context, userID string, dto CreateImageDTO, image *ImageUpload) (*Image, error) {
	if err := dto.Validate(image != nil); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		s.logger.Error("author lookup failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengunggah gambar", err)
	}
	if user == nil {
		s.logger.Warn("publish rejected, session user no longer exists", "user_id", userID)
		return nil, internal.ErrUserNotFound
	}

	uploaded, err := s.media.UploadImage(ctx, image.Reader)
	if err != nil {
		s.logger.Error("image upload failed, aborting publish", "error", err, "user_id", userID)
		return nil, internal.NewExternalError("Gagal mengunggah gambar", internal.ErrCodeMediaUploadFailed, err)
	}

	img := &Image{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		ImageURL:    uploaded.URL,
		PublicID:    uploaded.PublicID,
		AuthorID:    user.ID,
	}

	if err := s.repo.Create(img); err != nil {
		s.logger.Error("failed to create gallery image", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat menyimpan gambar", err)
	}

	img.Author = &auth.AuthorRef{ID: user.ID, Name: user.Name, Email: user.Email}

	s.logger.Info("gallery image published",
		"image_id", img.ID,
		"category", img.Category,
		"author_id", user.ID)

	return img, nil
}

// Update edits an entry's metadata and optionally replaces its image.
// Only the author, an ADMIN, or a MANAGER may edit. When a replacement
// is supplied the new image is uploaded first; the old one is removed
// afterwards, best-effort.
func (s *Service) Update(ctx context.Context, imageID, userID, role string, dto UpdateImageDTO, image *ImageUpload) (*Image, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	img, err := s.repo.GetByID(imageID)
	if err != nil {
		s.logger.Error("failed to load image for update", "error", err, "image_id", imageID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat memperbarui gambar", err)
	}
	if img == nil {
		return nil, internal.ErrImageNotFound
	}

	if !img.CanBeModifiedBy(userID, role) {
		s.logger.Warn("image update denied",
			"image_id", imageID,
			"user_id", userID,
			"author_id", img.AuthorID,
			"role", role)
		return nil, internal.ErrForbiddenImage
	}

	img.Title = dto.Title
	img.Category = dto.Category
	img.Description = dto.Description

	if image != nil {
		uploaded, err := s.media.UploadImage(ctx, image.Reader)
		if err != nil {
			s.logger.Error("replacement upload failed, aborting update", "error", err, "image_id", imageID)
			return nil, internal.NewExternalError("Gagal mengunggah gambar", internal.ErrCodeMediaUploadFailed, err)
		}

		oldPublicID := img.PublicID
		img.ImageURL = uploaded.URL
		img.PublicID = uploaded.PublicID

		if err := s.media.Delete(ctx, oldPublicID); err != nil {
			s.logger.Error("failed to remove replaced image from media store",
				"error", err,
				"image_id", imageID,
				"public_id", oldPublicID)
		}
	}

	if err := s.repo.Update(img); err != nil {
		s.logger.Error("failed to update gallery image", "error", err, "image_id", imageID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat memperbarui gambar", err)
	}

	s.logger.Info("gallery image updated", "image_id", imageID, "updated_by", userID)
	return img, nil
}

// Delete removes an entry. Only the author, an ADMIN, or a MANAGER may
// delete. The media store delete runs first; its failure is logged and
// the record delete proceeds anyway.
func (s *Service) Delete(ctx context.Context, imageID, userID, role string) error {
	img, err := s.repo.GetByID(imageID)
	if err != nil {
		s.logger.Error("failed to load image for deletion", "error", err, "image_id", imageID)
		return internal.NewInternalError("Terjadi kesalahan saat menghapus gambar", err)
	}
	if img == nil {
		return internal.ErrImageNotFound
	}

	if !img.CanBeModifiedBy(userID, role) {
		s.logger.Warn("image deletion denied",
			"image_id", imageID,
			"user_id", userID,
			"author_id", img.AuthorID,
			"role", role)
		return internal.ErrForbiddenImage
	}

	if err := s.media.Delete(ctx, img.PublicID); err != nil {
		s.logger.Error("media delete failed, proceeding with record deletion",
			"error", err,
			"image_id", imageID,
			"public_id", img.PublicID)
	}

	if err := s.repo.Delete(imageID); err != nil {
		s.logger.Error("failed to delete gallery image", "error", err, "image_id", imageID)
		return internal.NewInternalError("Terjadi kesalahan saat menghapus gambar", err)
	}

	s.logger.Info("gallery image deleted", "image_id", imageID, "deleted_by", userID)
	return nil
}

func (s *Service) List(filter ListFilter) ([]*Image, error) {
	images, err := s.repo.List(filter.Normalized())
	if err != nil {
		s.logger.Error("failed to list gallery images", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil data galeri", err)
	}
	return images, nil
}

func (s *Service) Get(imageID string) (*Image, error) {
	img, err := s.repo.GetByID(imageID)
	if err != nil {
		s.logger.Error("failed to get gallery image", "error", err, "image_id", imageID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil data galeri", err)
	}
	if img == nil {
		return nil, internal.ErrImageNotFound
	}
	return img, nil
}

// Stats returns per-category counts plus the six most recent uploads.
func (s *Service) Stats() (*Stats, error) {
	total, byCategory, err := s.stats.CategoryCounts()
	if err != nil {
		s.logger.Error("failed to aggregate gallery counts", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil statistik galeri", err)
	}

	recent, err := s.stats.RecentImages(6)
	if err != nil {
		s.logger.Error("failed to load recent gallery images", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil statistik galeri", err)
	}
	if recent == nil {
		recent = []*Image{}
	}

	return &Stats{
		Total:        total,
		ByCategory:   byCategory,
		RecentImages: recent,
	}, nil
}
