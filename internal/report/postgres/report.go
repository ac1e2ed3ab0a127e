package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/report"
)

// ReportRepository implements the report.Repository interface using GORM.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(rep *report.Report) error {
	return r.db.Create(rep).Error
}

func (r *ReportRepository) GetByID(id string) (*report.Report, error) {
	var rep report.Report
	err := r.db.Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachAuthors([]*report.Report{&rep}); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) List(filter report.ListFilter) ([]*report.Report, error) {
	var reports []*report.Report
	q := r.db.Order("date DESC, created_at DESC")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	if err := r.attachAuthors(reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) Update(rep *report.Report) error {
	return r.db.Save(rep).Error
}

func (r *ReportRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&report.Report{}).Error
}

// attachAuthors resolves author references for a batch of reports with a
// single users query.
func (r *ReportRepository) attachAuthors(reports []*report.Report) error {
	if len(reports) == 0 {
		return nil
	}

	ids := make([]string, 0, len(reports))
	seen := make(map[string]bool, len(reports))
	for _, rep := range reports {
		if !seen[rep.AuthorID] {
			seen[rep.AuthorID] = true
			ids = append(ids, rep.AuthorID)
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
	for _, rep := range reports {
		rep.Author = byID[rep.AuthorID]
	}
	return nil
}
