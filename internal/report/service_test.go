package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/mediastore"
	"github.com/rizkypratama/maintenance-portal/internal/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Module Suite")
}

type mockReportRepository struct {
	reports     map[string]*report.Report
	createError error
	getError    error
	updateError error
	deleteError error
	nextID      int
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{reports: make(map[string]*report.Report), nextID: 1}
}

func (m *mockReportRepository) Create(rep *report.Report) error {
	if m.createError != nil {
		return m.createError
	}
	rep.ID = "report-" + strings.Repeat("x", m.nextID)
	m.nextID++
	rep.CreatedAt = time.Now()
	rep.UpdatedAt = time.Now()
	m.reports[rep.ID] = rep
	return nil
}

func (m *mockReportRepository) GetByID(id string) (*report.Report, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.reports[id], nil
}

func (m *mockReportRepository) List(filter report.ListFilter) ([]*report.Report, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*report.Report
	for _, rep := range m.reports {
		if filter.Type != "" && rep.Type != filter.Type {
			continue
		}
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		out = append(out, rep)
	}
	return out, nil
}

func (m *mockReportRepository) Update(rep *report.Report) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.reports[rep.ID] = rep
	return nil
}

func (m *mockReportRepository) Delete(id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.reports, id)
	return nil
}

type mockStatsRepository struct {
	total, pending, approved, rejected int64
	recent                             []*report.Report
	err                                error
}

func (m *mockStatsRepository) StatusCounts() (int64, int64, int64, int64, error) {
	if m.err != nil {
		return 0, 0, 0, 0, m.err
	}
	return m.total, m.pending, m.approved, m.rejected, nil
}

func (m *mockStatsRepository) RecentPending(limit int) ([]*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

type mockUserResolver struct {
	users map[string]*auth.User
	err   error
}

func (m *mockUserResolver) GetByID(id string) (*auth.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

type mockMediaStore struct {
	uploadResult *mediastore.UploadResult
	uploadError  error
	deleteError  error
	uploads      int
	deleted      []string
}

func (m *mockMediaStore) UploadFile(ctx context.Context, r io.Reader) (*mediastore.UploadResult, error) {
	if m.uploadError != nil {
		return nil, m.uploadError
	}
	m.uploads++
	return m.uploadResult, nil
}

func (m *mockMediaStore) UploadImage(ctx context.Context, r io.Reader) (*mediastore.UploadResult, error) {
	return m.UploadFile(ctx, r)
}

func (m *mockMediaStore) Delete(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return m.deleteError
}

var _ = Describe("ReportService", func() {
	var (
		service *report.Service
		repo    *mockReportRepository
		stats   *mockStatsRepository
		users   *mockUserResolver
		media   *mockMediaStore
		ctx     context.Context
	)

	author := &auth.User{ID: "user-1", Name: "Teknisi", Email: "teknisi@pabrik.co.id", Role: auth.RoleStaff}

	validDTO := report.CreateReportDTO{
		Title: "Inspeksi Harian Lini 2",
		Type:  report.TypeDaily,
		Date:  time.Now(),
	}

	BeforeEach(func() {
		repo = newMockReportRepository()
		stats = &mockStatsRepository{}
		users = &mockUserResolver{users: map[string]*auth.User{author.ID: author}}
		media = &mockMediaStore{
			uploadResult: &mediastore.UploadResult{
				URL:      "https://cdn.example.com/reports/file.pdf",
				PublicID: "reports/file",
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(repo, stats, users, media, logger)
		ctx = context.Background()
	})

	Describe("Submit", func() {
		It("should create a pending report without a file", func() {
			rep, err := service.Submit(ctx, author.ID, validDTO, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Status).To(Equal(report.StatusPending))
			Expect(rep.HasFile()).To(BeFalse())
			Expect(rep.Author.Name).To(Equal("Teknisi"))
			Expect(media.uploads).To(BeZero())
		})

		It("should attach the uploaded file reference", func() {
			file := &report.FileUpload{
				Reader:      strings.NewReader("pdf-bytes"),
				Name:        "inspeksi.pdf",
				ContentType: "application/pdf",
			}

			rep, err := service.Submit(ctx, author.ID, validDTO, file)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.HasFile()).To(BeTrue())
			Expect(*rep.FileURL).To(Equal("https://cdn.example.com/reports/file.pdf"))
			Expect(*rep.FileName).To(Equal("inspeksi.pdf"))
			Expect(*rep.FileType).To(Equal("application/pdf"))
		})

		It("should not persist anything when the upload fails", func() {
			media.uploadError = errors.New("cloudinary down")
			file := &report.FileUpload{Reader: strings.NewReader("x"), Name: "a.pdf"}

			_, err := service.Submit(ctx, author.ID, validDTO, file)
			Expect(err).To(HaveOccurred())
			Expect(repo.reports).To(BeEmpty())
		})

		It("should reject a submission from a deleted session user", func() {
			_, err := service.Submit(ctx, "sudah-dihapus", validDTO, nil)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should reject an invalid type", func() {
			dto := validDTO
			dto.Type = "YEARLY"
			_, err := service.Submit(ctx, author.ID, dto, nil)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Review", func() {
		var reportID string

		BeforeEach(func() {
			rep, err := service.Submit(ctx, author.ID, validDTO, nil)
			Expect(err).NotTo(HaveOccurred())
			reportID = rep.ID
		})

		It("should approve with a comment", func() {
			comment := "Sudah sesuai"
			rep, err := service.Review(reportID, report.ReviewDTO{
				Status:  report.StatusApproved,
				Comment: &comment,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Status).To(Equal(report.StatusApproved))
			Expect(*rep.Comment).To(Equal("Sudah sesuai"))
		})

		It("should allow re-reviewing an already reviewed report", func() {
			comment := "Sudah sesuai"
			_, err := service.Review(reportID, report.ReviewDTO{Status: report.StatusApproved, Comment: &comment})
			Expect(err).NotTo(HaveOccurred())

			rep, err := service.Review(reportID, report.ReviewDTO{Status: report.StatusRejected})
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Status).To(Equal(report.StatusRejected))
			// prior comment survives when the reviewer sends none
			Expect(*rep.Comment).To(Equal("Sudah sesuai"))
		})

		It("should reject an unknown status", func() {
			_, err := service.Review(reportID, report.ReviewDTO{Status: "ARCHIVED"})
			Expect(err).To(HaveOccurred())
		})

		It("should report a missing report", func() {
			_, err := service.Review("tidak-ada", report.ReviewDTO{Status: report.StatusApproved})
			Expect(err).To(Equal(internal.ErrReportNotFound))
		})
	})

	Describe("Delete", func() {
		var withFile *report.Report

		BeforeEach(func() {
			file := &report.FileUpload{Reader: strings.NewReader("x"), Name: "a.pdf", ContentType: "application/pdf"}
			rep, err := service.Submit(ctx, author.ID, validDTO, file)
			Expect(err).NotTo(HaveOccurred())
			withFile = rep
		})

		It("should let the author delete their own report", func() {
			err := service.Delete(ctx, withFile.ID, author.ID, auth.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.reports).To(BeEmpty())
			Expect(media.deleted).To(ContainElement("reports/file"))
		})

		It("should let an admin delete any report", func() {
			err := service.Delete(ctx, withFile.ID, "user-lain", auth.RoleAdmin)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should deny a manager who is not the author", func() {
			err := service.Delete(ctx, withFile.ID, "user-lain", auth.RoleManager)
			Expect(err).To(Equal(internal.ErrForbiddenReport))
			Expect(repo.reports).NotTo(BeEmpty())
		})

		It("should proceed with the record delete when the media delete fails", func() {
			media.deleteError = errors.New("cloudinary down")
			err := service.Delete(ctx, withFile.ID, author.ID, auth.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.reports).To(BeEmpty())
		})
	})

	Describe("List", func() {
		It("should treat the literal all as no filter", func() {
			_, err := service.Submit(ctx, author.ID, validDTO, nil)
			Expect(err).NotTo(HaveOccurred())

			reports, err := service.List(report.ListFilter{Type: "all", Status: "all"})
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(1))
		})

		It("should filter by type and status", func() {
			_, err := service.Submit(ctx, author.ID, validDTO, nil)
			Expect(err).NotTo(HaveOccurred())

			reports, err := service.List(report.ListFilter{Type: report.TypeWeekly})
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(BeEmpty())
		})
	})

	Describe("DownloadInfo", func() {
		It("should return the stored reference", func() {
			file := &report.FileUpload{Reader: strings.NewReader("x"), Name: "a.pdf", ContentType: "application/pdf"}
			rep, err := service.Submit(ctx, author.ID, validDTO, file)
			Expect(err).NotTo(HaveOccurred())

			info, err := service.DownloadInfo(rep.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.FileURL).To(Equal("https://cdn.example.com/reports/file.pdf"))
		})

		It("should report a missing attachment as file not found", func() {
			rep, err := service.Submit(ctx, author.ID, validDTO, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.DownloadInfo(rep.ID)
			Expect(err).To(Equal(internal.ErrFileNotFound))
		})
	})

	Describe("Stats", func() {
		It("should combine the counts with the recent pending reports", func() {
			stats.total = 10
			stats.pending = 4
			stats.approved = 5
			stats.rejected = 1
			stats.recent = []*report.Report{{ID: "r1", Status: report.StatusPending}}

			out, err := service.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Total).To(Equal(int64(10)))
			Expect(out.Pending).To(Equal(int64(4)))
			Expect(out.RecentReports).To(HaveLen(1))
		})
	})
})
