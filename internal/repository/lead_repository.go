package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
)

type LeadRepository struct {
	db *database.DB
}

func NewLeadRepository(db *database.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create records a prospective-franchisee inquiry. When the brand is
// claimed, the lead is routed to the claim holder at insert time.
func (r *LeadRepository) Create(lead *models.Lead) error {
	query := `
		INSERT INTO leads (brand_id, first_name, last_name, email, phone, investment_range, message, routed_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT claimed_by_id FROM brands WHERE id = $1))
		RETURNING id, status, routed_to, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		lead.BrandID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.InvestmentRange,
		lead.Message,
	).Scan(&lead.ID, &lead.Status, &lead.RoutedTo, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// ListForOwner returns the leads routed to a claim holder, newest first
func (r *LeadRepository) ListForOwner(ownerID uuid.UUID) ([]models.Lead, error) {
	query := `
		SELECT id, brand_id, first_name, last_name, email, phone, investment_range, message, status, routed_to, created_at, updated_at
		FROM leads
		WHERE routed_to = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.BrandID,
			&lead.FirstName,
			&lead.LastName,
			&lead.Email,
			&lead.Phone,
			&lead.InvestmentRange,
			&lead.Message,
			&lead.Status,
			&lead.RoutedTo,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

// UpdateStatus moves a lead through its contact pipeline. Unscoped;
// reserved for admin callers.
func (r *LeadRepository) UpdateStatus(id uuid.UUID, status string) error {
	result, err := r.db.Exec(
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NotFound("lead")
	}
	return nil
}

// UpdateStatusForOwner is UpdateStatus scoped to leads routed to the
// calling claim holder. A lead that exists but is routed to someone
// else looks the same as a missing one.
func (r *LeadRepository) UpdateStatusForOwner(id, ownerID uuid.UUID, status string) error {
	result, err := r.db.Exec(
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2 AND routed_to = $3`,
		status, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NotFound("lead")
	}
	return nil
}
