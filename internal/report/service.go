package report

import (
	"context"
	"log/slog"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/mediastore"
)

// Repository defines the data access methods for reports.
type Repository interface {
	Create(report *Report) error
	GetByID(id string) (*Report, error)
	List(filter ListFilter) ([]*Report, error)
	Update(report *Report) error
	Delete(id string) error
}

// StatsRepository serves the pre-aggregated dashboard queries.
type StatsRepository interface {
	StatusCounts() (total, pending, approved, rejected int64, err error)
	RecentPending(limit int) ([]*Report, error)
}

// UserResolver re-checks that a session subject still exists before a
// write is accepted.
type UserResolver interface {
	GetByID(id string) (*auth.User, error)
}

// Service handles report business logic.
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

// Submit creates a report. When a file is attached it is uploaded to the
// media store first; an upload failure aborts the whole operation so no
// report row without its file is ever persisted. Status is forced to
// PENDING regardless of caller input.
func (s *Service) Submit(ctx context.Context, userID string, dto CreateReportDTO, file *FileUpload) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		s.logger.Error("author lookup failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat membuat laporan", err)
	}
	if user == nil {
		s.logger.Warn("submission rejected, session user no longer exists", "user_id", userID)
		return nil, internal.ErrUserNotFound
	}

	rep := &Report{
		Title:       dto.Title,
		Type:        dto.Type,
		Date:        dto.Date,
		Description: dto.Description,
		Status:      StatusPending,
		AuthorID:    user.ID,
	}

	if file != nil {
		uploaded, err := s.media.UploadFile(ctx, file.Reader)
		if err != nil {
			s.logger.Error("file upload failed, aborting report creation", "error", err, "user_id", userID)
			return nil, internal.NewExternalError("Gagal mengunggah file", internal.ErrCodeMediaUploadFailed, err)
		}
		rep.FileURL = &uploaded.URL
		rep.PublicID = &uploaded.PublicID
		rep.FileName = &file.Name
		rep.FileType = &file.ContentType
	}

	if err := s.repo.Create(rep); err != nil {
		s.logger.Error("failed to create report", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat membuat laporan", err)
	}

	rep.Author = &auth.AuthorRef{ID: user.ID, Name: user.Name, Email: user.Email}

	s.logger.Info("report submitted",
		"report_id", rep.ID,
		"type", rep.Type,
		"author_id", user.ID,
		"has_file", rep.HasFile())

	return rep, nil
}

// Review overwrites the report status and reviewer comment. Any
// authenticated session may review; no role restriction is applied.
func (s *Service) Review(reportID string, dto ReviewDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rep, err := s.repo.GetByID(reportID)
	if err != nil {
		s.logger.Error("failed to load report for review", "error", err, "report_id", reportID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat memperbarui laporan", err)
	}
	if rep == nil {
		return nil, internal.ErrReportNotFound
	}

	rep.Review(dto.Status, dto.Comment)

	if err := s.repo.Update(rep); err != nil {
		s.logger.Error("failed to update report status", "error", err, "report_id", reportID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat memperbarui laporan", err)
	}

	s.logger.Info("report reviewed", "report_id", reportID, "status", dto.Status)
	return rep, nil
}

// Delete removes a report. Only the author or an ADMIN may delete. The
// media store delete runs first; its failure is logged and the record
// delete proceeds anyway, preferring an orphaned remote file over a
// report that cannot be removed.
func (s *Service) Delete(ctx context.Context, reportID, userID, role string) error {
	rep, err := s.repo.GetByID(reportID)
	if err != nil {
		s.logger.Error("failed to load report for deletion", "error", err, "report_id", reportID)
		return internal.NewInternalError("Terjadi kesalahan saat menghapus laporan", err)
	}
	if rep == nil {
		return internal.ErrReportNotFound
	}

	if !rep.CanBeDeletedBy(userID, role) {
		s.logger.Warn("report deletion denied",
			"report_id", reportID,
			"user_id", userID,
			"author_id", rep.AuthorID,
			"role", role)
		return internal.ErrForbiddenReport
	}

	if rep.HasFile() {
		if err := s.media.Delete(ctx, *rep.PublicID); err != nil {
			s.logger.Error("media delete failed, proceeding with record deletion",
				"error", err,
				"report_id", reportID,
				"public_id", *rep.PublicID)
		}
	}

	if err := s.repo.Delete(reportID); err != nil {
		s.logger.Error("failed to delete report", "error", err, "report_id", reportID)
		return internal.NewInternalError("Terjadi kesalahan saat menghapus laporan", err)
	}

	s.logger.Info("report deleted", "report_id", reportID, "deleted_by", userID)
	return nil
}

func (s *Service) List(filter ListFilter) ([]*Report, error) {
	reports, err := s.repo.List(filter.Normalized())
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil data laporan", err)
	}
	return reports, nil
}

func (s *Service) Get(reportID string) (*Report, error) {
	rep, err := s.repo.GetByID(reportID)
	if err != nil {
		s.logger.Error("failed to get report", "error", err, "report_id", reportID)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil data laporan", err)
	}
	if rep == nil {
		return nil, internal.ErrReportNotFound
	}
	return rep, nil
}

// DownloadInfo resolves the stored file reference for a report. Reports
// without an attachment yield a not-found error.
func (s *Service) DownloadInfo(reportID string) (*DownloadInfo, error) {
	rep, err := s.Get(reportID)
	if err != nil {
		return nil, err
	}
	if rep.FileURL == nil || *rep.FileURL == "" {
		return nil, internal.ErrFileNotFound
	}
	return &DownloadInfo{
		FileURL:  *rep.FileURL,
		FileName: rep.FileName,
		FileType: rep.FileType,
	}, nil
}

// Stats returns the dashboard aggregates plus the five most recent
// pending reports.
func (s *Service) Stats() (*Stats, error) {
	total, pending, approved, rejected, err := s.stats.StatusCounts()
	if err != nil {
		s.logger.Error("failed to aggregate report counts", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil statistik laporan", err)
	}

	recent, err := s.stats.RecentPending(5)
	if err != nil {
		s.logger.Error("failed to load recent pending reports", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat mengambil statistik laporan", err)
	}
	if recent == nil {
		recent = []*Report{}
	}

	return &Stats{
		Total:         total,
		Pending:       pending,
		Approved:      approved,
		Rejected:      rejected,
		RecentReports: recent,
	}, nil
}
