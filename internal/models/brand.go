package models

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	Website     string    `json:"website,omitempty" db:"website"`

	IsClaimed   bool       `json:"is_claimed" db:"is_claimed"`
	ClaimedByID *uuid.UUID `json:"claimed_by_id,omitempty" db:"claimed_by_id"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`

	// Aggregate reputation fields. A pure function of the brand's
	// currently approved reviews; written only by the score recompute.
	TotalReviews       int     `json:"total_reviews" db:"total_reviews"`
	AverageRating      float64 `json:"average_rating" db:"average_rating"`
	ZScore             float64 `json:"z_score" db:"z_score"`
	SupportScore       float64 `json:"support_score" db:"support_score"`
	TrainingScore      float64 `json:"training_score" db:"training_score"`
	ProfitabilityScore float64 `json:"profitability_score" db:"profitability_score"`
	CultureScore       float64 `json:"culture_score" db:"culture_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScoreUpdate is the payload broadcast to score-feed subscribers after a
// brand's aggregates are recomputed.
type ScoreUpdate struct {
	BrandID            uuid.UUID `json:"brand_id"`
	TotalReviews       int       `json:"total_reviews"`
	AverageRating      float64   `json:"average_rating"`
	ZScore             float64   `json:"z_score"`
	SupportScore       float64   `json:"support_score"`
	TrainingScore      float64   `json:"training_score"`
	ProfitabilityScore float64   `json:"profitability_score"`
	CultureScore       float64   `json:"culture_score"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"required,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	Website     string `json:"website"`
}
