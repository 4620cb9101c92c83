// Package classifier defines the contract with the external AI content
// classifier and provides the OpenAI-backed implementation. The classifier
// is advisory: its output is attached to a review at submission time and
// never changes the review's lifecycle status on its own.
package classifier

import (
	"context"

	"github.com/zeeverify/backend/internal/models"
)

// Result is the classification of a single review.
type Result struct {
	Category       string   `json:"category"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore float64  `json:"sentimentScore"`
	Flags          []string `json:"flags"`
	Summary        string   `json:"summary"`
}

// Term is a keyword extracted from review content with the sentiment of
// its surrounding context.
type Term struct {
	Word      string `json:"word"`
	Sentiment string `json:"sentiment"`
}

// Classifier analyzes review content. Implementations may fail; callers
// must degrade gracefully and let human moderation proceed.
type Classifier interface {
	Classify(ctx context.Context, title, content string) (*Result, error)
	ExtractTerms(ctx context.Context, content string) ([]Term, error)
}

// Fallback is the conservative result substituted when classification
// fails: the review is routed to human review with an error flag.
func Fallback() *Result {
	return &Result{
		Category:       models.ModerationNeedsReview,
		Sentiment:      models.SentimentNeutral,
		SentimentScore: 0,
		Flags:          []string{"classification_error"},
		Summary:        "Unable to analyze content automatically",
	}
}
