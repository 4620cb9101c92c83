package repository

import (
	"fmt"

	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
)

type StatsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Collect gathers the admin dashboard counters in a single round trip.
func (r *StatsRepository) Collect() (*models.PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM brands),
			(SELECT COUNT(*) FROM brands WHERE is_claimed),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM reviews WHERE status = 'pending'),
			(SELECT COUNT(*) FROM reviews WHERE status = 'approved'),
			(SELECT COUNT(*) FROM reviews WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM reviews WHERE is_flagged),
			(SELECT COUNT(*) FROM review_reports WHERE status = 'pending'),
			(SELECT COUNT(*) FROM leads)
	`

	stats := &models.PlatformStats{}
	err := r.db.QueryRow(query).Scan(
		&stats.TotalUsers,
		&stats.TotalBrands,
		&stats.ClaimedBrands,
		&stats.TotalReviews,
		&stats.PendingReviews,
		&stats.ApprovedReviews,
		&stats.RejectedReviews,
		&stats.FlaggedReviews,
		&stats.OpenReports,
		&stats.TotalLeads,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to collect platform stats: %w", err)
	}

	return stats, nil
}
