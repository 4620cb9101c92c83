package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review lifecycle statuses. A review only ever moves forward:
// pending -> approved or pending -> rejected, both terminal.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Moderation categories assigned by the AI classifier at submission time.
// Advisory only; never changes the review status by itself.
const (
	ModerationClean       = "clean"
	ModerationNeedsReview = "needs_review"
	ModerationRejected    = "rejected"
)

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Moderation actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Report resolution statuses
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Review struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	BrandID             uuid.UUID `json:"brand_id" db:"brand_id"`
	AuthorID            uuid.UUID `json:"author_id" db:"author_id"`
	Title               string    `json:"title" db:"title"`
	Content             string    `json:"content" db:"content"`
	OverallRating       int       `json:"overall_rating" db:"overall_rating"`
	SupportRating       *int      `json:"support_rating,omitempty" db:"support_rating"`
	TrainingRating      *int      `json:"training_rating,omitempty" db:"training_rating"`
	ProfitabilityRating *int      `json:"profitability_rating,omitempty" db:"profitability_rating"`
	CultureRating       *int      `json:"culture_rating,omitempty" db:"culture_rating"`
	YearsAsFranchisee   *int      `json:"years_as_franchisee,omitempty" db:"years_as_franchisee"`
	Status              string    `json:"status" db:"status"`
	IsFlagged           bool      `json:"is_flagged" db:"is_flagged"`
	ModerationCategory  string    `json:"moderation_category" db:"moderation_category"`
	Sentiment           string    `json:"sentiment" db:"sentiment"`
	SentimentScore      float64   `json:"sentiment_score" db:"sentiment_score"`
	AIFlags             []string  `json:"ai_flags" db:"ai_flags"`
	AISummary           string    `json:"ai_summary,omitempty" db:"ai_summary"`
	IsVerified          bool      `json:"is_verified" db:"is_verified"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the fields an author controls at submission time.
func (r *Review) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	if r.OverallRating < 1 || r.OverallRating > 5 {
		return fmt.Errorf("overall rating must be between 1 and 5")
	}
	for _, rating := range []*int{r.SupportRating, r.TrainingRating, r.ProfitabilityRating, r.CultureRating} {
		if rating != nil && (*rating < 1 || *rating > 5) {
			return fmt.Errorf("category ratings must be between 1 and 5")
		}
	}
	return nil
}

// Decided reports whether the review has left the pending state.
func (r *Review) Decided() bool {
	return r.Status != ReviewStatusPending
}

// ReviewResponse is a claim holder's reply to a published review.
type ReviewResponse struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ReviewID    uuid.UUID `json:"review_id" db:"review_id"`
	ResponderID uuid.UUID `json:"responder_id" db:"responder_id"`
	Content     string    `json:"content" db:"content"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewReport is a user report against a review. Creating one sets the
// review's flagged marker without touching its lifecycle status.
type ReviewReport struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ReviewID    uuid.UUID  `json:"review_id" db:"review_id"`
	ReporterID  uuid.UUID  `json:"reporter_id" db:"reporter_id"`
	Reason      string     `json:"reason" db:"reason"`
	Description string     `json:"description,omitempty" db:"description"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}

type CreateReviewRequest struct {
	BrandID             string `json:"brand_id" binding:"required,uuid"`
	Title               string `json:"title" binding:"required,max=255"`
	Content             string `json:"content" binding:"required"`
	OverallRating       int    `json:"overall_rating" binding:"required,min=1,max=5"`
	SupportRating       *int   `json:"support_rating" binding:"omitempty,min=1,max=5"`
	TrainingRating      *int   `json:"training_rating" binding:"omitempty,min=1,max=5"`
	ProfitabilityRating *int   `json:"profitability_rating" binding:"omitempty,min=1,max=5"`
	CultureRating       *int   `json:"culture_rating" binding:"omitempty,min=1,max=5"`
	YearsAsFranchisee   *int   `json:"years_as_franchisee" binding:"omitempty,min=0,max=60"`
}

type RespondRequest struct {
	Content string `json:"content" binding:"required"`
}

type ReportReviewRequest struct {
	Reason      string `json:"reason" binding:"required,max=100"`
	Description string `json:"description"`
}

type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Notes  string `json:"notes"`
}
