// Package notify delivers transactional email off the request path.
// Producers enqueue typed tasks onto Redis; a worker drains the queue
// and hands each one to the configured sender. Delivery is best effort:
// a failed enqueue is logged and swallowed so the operation that
// triggered it still succeeds.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Task type names, shared between the dispatcher and the worker mux.
const (
	TypeReviewDecided  = "notify:review_decided"
	TypeBrandNewReview = "notify:brand_new_review"
	TypeBrandClaimed   = "notify:brand_claimed"
	TypeLeadCreated    = "notify:lead_created"
)

// ReviewDecidedPayload notifies a review author of the moderation outcome.
type ReviewDecidedPayload struct {
	ReviewID    uuid.UUID `json:"review_id"`
	ReviewTitle string    `json:"review_title"`
	BrandName   string    `json:"brand_name"`
	Status      string    `json:"status"`
	AuthorEmail string    `json:"author_email"`
	AuthorName  string    `json:"author_name"`
	DecidedAt   time.Time `json:"decided_at"`
}

// BrandNewReviewPayload tells a brand's claim holder that a new review
// of their brand was approved and is now public.
type BrandNewReviewPayload struct {
	ReviewID      uuid.UUID `json:"review_id"`
	BrandName     string    `json:"brand_name"`
	OwnerEmail    string    `json:"owner_email"`
	OwnerName     string    `json:"owner_name"`
	ReviewTitle   string    `json:"review_title"`
	ReviewPreview string    `json:"review_preview"`
	OverallRating int       `json:"overall_rating"`
}

// BrandClaimedPayload confirms a successful brand claim purchase.
type BrandClaimedPayload struct {
	BrandID    uuid.UUID `json:"brand_id"`
	BrandName  string    `json:"brand_name"`
	OwnerEmail string    `json:"owner_email"`
	OwnerName  string    `json:"owner_name"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
}

// LeadCreatedPayload forwards a prospective-franchisee inquiry to the
// brand's claim holder.
type LeadCreatedPayload struct {
	LeadID          uuid.UUID `json:"lead_id"`
	BrandName       string    `json:"brand_name"`
	OwnerEmail      string    `json:"owner_email"`
	ProspectName    string    `json:"prospect_name"`
	ProspectEmail   string    `json:"prospect_email"`
	InvestmentRange string    `json:"investment_range"`
	Message         string    `json:"message"`
}
