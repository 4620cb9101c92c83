package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationLog records a moderator's decision on a review. Append-only:
// rows are never updated or deleted.
type ModerationLog struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ReviewID       uuid.UUID `json:"review_id" db:"review_id"`
	ModeratorID    uuid.UUID `json:"moderator_id" db:"moderator_id"`
	Action         string    `json:"action" db:"action"`
	PreviousStatus string    `json:"previous_status" db:"previous_status"`
	NewStatus      string    `json:"new_status" db:"new_status"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
