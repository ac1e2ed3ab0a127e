package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/report"
)

// StatsRepository serves the dashboard aggregates over sqlx. The counts
// run as a single grouped scan instead of four separate queries.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) report.StatsRepository {
	return &StatsRepository{db: db}
}

const statusCountsQuery = `
SELECT
	COUNT(*)                                            AS total,
	COUNT(*) FILTER (WHERE status = 'PENDING')          AS pending,
	COUNT(*) FILTER (WHERE status = 'APPROVED')         AS approved,
	COUNT(*) FILTER (WHERE status = 'REJECTED')         AS rejected
FROM reports`

func (r *StatsRepository) StatusCounts() (total, pending, approved, rejected int64, err error) {
	var row struct {
		Total    int64 `db:"total"`
		Pending  int64 `db:"pending"`
		Approved int64 `db:"approved"`
		Rejected int64 `db:"rejected"`
	}
	if err = r.db.Get(&row, statusCountsQuery); err != nil {
		return 0, 0, 0, 0, err
	}
	return row.Total, row.Pending, row.Approved, row.Rejected, nil
}

const recentPendingQuery = `
SELECT
	r.id, r.title, r.type, r.date, r.status, r.author_id, r.created_at, r.updated_at,
	u.name AS author_name, u.email AS author_email
FROM reports r
JOIN users u ON u.id = r.author_id
WHERE r.status = 'PENDING'
ORDER BY r.created_at DESC
LIMIT $1`

func (r *StatsRepository) RecentPending(limit int) ([]*report.Report, error) {
	var rows []struct {
		ID          string    `db:"id"`
		Title       string    `db:"title"`
		Type        string    `db:"type"`
		Date        time.Time `db:"date"`
		Status      string    `db:"status"`
		AuthorID    string    `db:"author_id"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
		AuthorName  string    `db:"author_name"`
		AuthorEmail string    `db:"author_email"`
	}
	if err := r.db.Select(&rows, recentPendingQuery, limit); err != nil {
		return nil, err
	}

	reports := make([]*report.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, &report.Report{
			ID:        row.ID,
			Title:     row.Title,
			Type:      row.Type,
			Date:      row.Date,
			Status:    row.Status,
			AuthorID:  row.AuthorID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Author: &auth.AuthorRef{
				ID:    row.AuthorID,
				Name:  row.AuthorName,
				Email: row.AuthorEmail,
			},
		})
	}
	return reports, nil
}
