package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier_FlagsSuspectContent(t *testing.T) {
	k := NewKeywordClassifier()

	result, err := k.Classify(context.Background(), "Total scam", "They threatened a lawsuit when I complained.")
	require.NoError(t, err)

	assert.Equal(t, "needs_review", result.Category)
	assert.Contains(t, result.Flags, "fraud_accusation")
	assert.Contains(t, result.Flags, "legal_claim")
}

func TestKeywordClassifier_Sentiment(t *testing.T) {
	k := NewKeywordClassifier()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"positive", "Excellent support, profitable territory, would recommend.", "positive"},
		{"negative", "Terrible training and hidden fees, avoid this one.", "negative"},
		{"neutral", "The onboarding took about six weeks.", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := k.Classify(context.Background(), "", tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Sentiment)
			assert.Equal(t, "clean", result.Category)
		})
	}
}

func TestKeywordClassifier_ExtractTerms(t *testing.T) {
	k := NewKeywordClassifier()

	terms, err := k.ExtractTerms(context.Background(),
		"Training was thorough. Training materials and territory maps helped. Territory selection mattered most.")
	require.NoError(t, err)
	require.NotEmpty(t, terms)

	// Repeated words rank first.
	assert.Equal(t, "territory", terms[0].Word)
	assert.Equal(t, "training", terms[1].Word)
	for _, term := range terms {
		assert.GreaterOrEqual(t, len(term.Word), 4)
	}
}
