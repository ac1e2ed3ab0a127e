package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
)

// StatsRepository serves the gallery dashboard aggregates over sqlx.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) gallery.StatsRepository {
	return &StatsRepository{db: db}
}

const categoryCountsQuery = `
SELECT category, COUNT(*) AS count
FROM gallery_images
GROUP BY category`

func (r *StatsRepository) CategoryCounts() (int64, map[string]int64, error) {
	var rows []struct {
		Category string `db:"category"`
		Count    int64  `db:"count"`
	}
	if err := r.db.Select(&rows, categoryCountsQuery); err != nil {
		return 0, nil, err
	}

	var total int64
	byCategory := make(map[string]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
		total += row.Count
	}
	return total, byCategory, nil
}

const recentImagesQuery = `
SELECT
	g.id, g.title, g.category, g.image_url, g.public_id, g.author_id,
	g.created_at, g.updated_at,
	u.name AS author_name, u.email AS author_email
FROM gallery_images g
JOIN users u ON u.id = g.author_id
ORDER BY g.created_at DESC
LIMIT $1`

func (r *StatsRepository) RecentImages(limit int) ([]*gallery.Image, error) {
	var rows []struct {
		ID          string    `db:"id"`
		Title       string    `db:"title"`
		Category    string    `db:"category"`
		ImageURL    string    `db:"image_url"`
		PublicID    string    `db:"public_id"`
		AuthorID    string    `db:"author_id"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
		AuthorName  string    `db:"author_name"`
		AuthorEmail string    `db:"author_email"`
	}
	if err := r.db.Select(&rows, recentImagesQuery, limit); err != nil {
		return nil, err
	}

	images := make([]*gallery.Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, &gallery.Image{
			ID:        row.ID,
			Title:     row.Title,
			Category:  row.Category,
			ImageURL:  row.ImageURL,
			PublicID:  row.PublicID,
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
	return images, nil
}
