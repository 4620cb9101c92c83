package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetBySessionID retrieves a payment by its checkout session ID
func (r *PaymentRepository) GetBySessionID(sessionID string) (*models.Payment, error) {
	query := `
		SELECT id, user_id, brand_id, stripe_session_id, stripe_payment_intent_id, amount, currency, status, created_at
		FROM payments
		WHERE stripe_session_id = $1
	`

	payment := &models.Payment{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.BrandID,
		&payment.StripeSessionID,
		&payment.StripeIntentID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("payment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// ProcessClaim records a completed brand-claim payment and marks the
// brand as claimed, both in one transaction. The session ID carries a
// unique constraint, so a replayed webhook either finds the existing
// payment up front or loses the insert race; both cases return the
// recorded payment with created=false and change nothing.
func (r *PaymentRepository) ProcessClaim(payment *models.Payment) (created bool, err error) {
	existing, err := r.GetBySessionID(payment.StripeSessionID)
	if err == nil {
		*payment = *existing
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return false, apperrors.Storage(err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO payments (user_id, brand_id, stripe_session_id, stripe_payment_intent_id, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		payment.UserID,
		payment.BrandID,
		payment.StripeSessionID,
		payment.StripeIntentID,
		payment.Amount,
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// Concurrent delivery of the same event won the race.
			if existing, lookupErr := r.GetBySessionID(payment.StripeSessionID); lookupErr == nil {
				*payment = *existing
				return false, nil
			}
			return false, nil
		}
		return false, apperrors.Storage(fmt.Errorf("failed to record payment: %w", err))
	}

	if _, err := tx.Exec(
		`UPDATE brands
		 SET is_claimed = true, claimed_by_id = $1, claimed_at = NOW(), updated_at = NOW()
		 WHERE id = $2`,
		payment.UserID, payment.BrandID,
	); err != nil {
		return false, apperrors.Storage(fmt.Errorf("failed to claim brand: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.Storage(err)
	}

	return true, nil
}

// ListByUser returns a user's payment history, newest first
func (r *PaymentRepository) ListByUser(userID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT id, user_id, brand_id, stripe_session_id, stripe_payment_intent_id, amount, currency, status, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.BrandID, &p.StripeSessionID, &p.StripeIntentID, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, nil
}
