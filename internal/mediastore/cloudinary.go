package mediastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	internal "github.com/rizkypratama/maintenance-portal/internal"
)

type Config struct {
	CloudName     string
	APIKey        string
	APISecret     string
	ReportFolder  string
	GalleryFolder string
	UploadTimeout time.Duration
}

// CloudinaryStore implements Store against the Cloudinary upload API.
type CloudinaryStore struct {
	cld           *cloudinary.Cloudinary
	reportFolder  string
	galleryFolder string
	timeout       time.Duration
	logger        *slog.Logger
}

func NewCloudinaryStore(cfg Config, logger *slog.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary client: %w", err)
	}

	reportFolder := cfg.ReportFolder
	if reportFolder == "" {
		reportFolder = "reports"
	}
	galleryFolder := cfg.GalleryFolder
	if galleryFolder == "" {
		galleryFolder = "gallery"
	}
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CloudinaryStore{
		cld:           cld,
		reportFolder:  reportFolder,
		galleryFolder: galleryFolder,
		timeout:       timeout,
		logger:        logger,
	}, nil
}

func (s *CloudinaryStore) UploadFile(ctx context.Context, r io.Reader) (*UploadResult, error) {
	return s.upload(ctx, r, s.reportFolder, "auto")
}

func (s *CloudinaryStore) UploadImage(ctx context.Context, r io.Reader) (*UploadResult, error) {
	return s.upload(ctx, r, s.galleryFolder, "image")
}

func (s *CloudinaryStore) upload(ctx context.Context, r io.Reader, folder, resourceType string) (*UploadResult, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		s.logger.Error("media upload failed", "folder", folder, "error", err)
		return nil, fmt.Errorf("upload to media store: %w", err)
	}
	if resp.Error.Message != "" {
		s.logger.Error("media upload rejected", "folder", folder, "message", resp.Error.Message)
		return nil, fmt.Errorf("upload to media store: %s", resp.Error.Message)
	}

	s.logger.Info("media uploaded",
		"folder", folder,
		"public_id", resp.PublicID,
		"resource_type", resp.ResourceType)

	return &UploadResult{
		URL:          resp.SecureURL,
		PublicID:     resp.PublicID,
		Format:       resp.Format,
		ResourceType: resp.ResourceType,
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.logger.Error("media delete failed", "public_id", publicID, "error", err)
		return internal.NewExternalError("Gagal menghapus media", internal.ErrCodeMediaDeleteFailed, err)
	}
	if resp.Result != "" && resp.Result != "ok" && resp.Result != "not found" {
		s.logger.Error("media delete rejected", "public_id", publicID, "result", resp.Result)
		return internal.NewExternalError("Gagal menghapus media", internal.ErrCodeMediaDeleteFailed, fmt.Errorf("media store result: %s", resp.Result))
	}

	s.logger.Info("media deleted", "public_id", publicID)
	return nil
}
