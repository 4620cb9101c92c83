package models

import (
	"time"

	"github.com/google/uuid"
)

// WordFrequency counts how often a term appears across a brand's approved
// reviews, with the most recently observed sentiment for the term. Counts
// only ever grow; rejecting a review later does not decrement them.
type WordFrequency struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BrandID     uuid.UUID `json:"brand_id" db:"brand_id"`
	Word        string    `json:"word" db:"word"`
	Count       int       `json:"count" db:"count"`
	Sentiment   string    `json:"sentiment" db:"sentiment"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}
