package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses
const (
	PaymentStatusCompleted = "completed"
)

// Payment records a completed brand-claim purchase. Exactly one row per
// gateway checkout session; the unique stripe_session_id is the
// idempotency guard for webhook redelivery.
type Payment struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	BrandID         uuid.UUID `json:"brand_id" db:"brand_id"`
	StripeSessionID string    `json:"stripe_session_id" db:"stripe_session_id"`
	StripeIntentID  string    `json:"stripe_payment_intent_id" db:"stripe_payment_intent_id"`
	Amount          int64     `json:"amount" db:"amount"`
	Currency        string    `json:"currency" db:"currency"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
