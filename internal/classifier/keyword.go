package classifier

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/zeeverify/backend/internal/models"
)

// KeywordClassifier is a deterministic, list-based classifier used when
// no model-backed classifier is configured. It never errors.
type KeywordClassifier struct {
	flagWords     map[string]string
	positiveWords map[string]struct{}
	negativeWords map[string]struct{}
	stopWords     map[string]struct{}
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		flagWords: map[string]string{
			"scam":    "fraud_accusation",
			"fraud":   "fraud_accusation",
			"lawsuit": "legal_claim",
			"sue":     "legal_claim",
			"illegal": "legal_claim",
		},
		positiveWords: wordSet(
			"great", "excellent", "profitable", "supportive", "helpful",
			"recommend", "love", "best", "growth", "success",
		),
		negativeWords: wordSet(
			"terrible", "awful", "worst", "avoid", "loss",
			"misleading", "hidden", "disappointed", "poor", "overpriced",
		),
		stopWords: wordSet(
			"the", "a", "an", "and", "or", "but", "is", "are", "was", "were",
			"i", "my", "we", "our", "they", "their", "this", "that", "it",
			"to", "of", "in", "for", "with", "as", "at", "on", "be", "have",
			"had", "has", "very", "not", "you", "your", "from", "by",
		),
	}
}

// Classify scores the content against the word lists. Anything matching
// a flag word lands in needs_review; nothing is ever auto rejected.
func (k *KeywordClassifier) Classify(_ context.Context, title, content string) (*Result, error) {
	words := tokenize(title + " " + content)

	var positive, negative int
	flags := []string{}
	seenFlags := map[string]struct{}{}

	for _, w := range words {
		if _, ok := k.positiveWords[w]; ok {
			positive++
		}
		if _, ok := k.negativeWords[w]; ok {
			negative++
		}
		if flag, ok := k.flagWords[w]; ok {
			if _, dup := seenFlags[flag]; !dup {
				seenFlags[flag] = struct{}{}
				flags = append(flags, flag)
			}
		}
	}

	result := &Result{
		Category:  models.ModerationClean,
		Sentiment: models.SentimentNeutral,
		Flags:     flags,
	}
	if len(flags) > 0 {
		result.Category = models.ModerationNeedsReview
	}

	total := positive + negative
	if total > 0 {
		result.SentimentScore = float64(positive-negative) / float64(total)
	}
	switch {
	case result.SentimentScore > 0.2:
		result.Sentiment = models.SentimentPositive
	case result.SentimentScore < -0.2:
		result.Sentiment = models.SentimentNegative
	}

	return result, nil
}

// ExtractTerms returns the most repeated non-stop words in the content,
// each labelled with the content's overall sentiment direction.
func (k *KeywordClassifier) ExtractTerms(ctx context.Context, content string) ([]Term, error) {
	result, _ := k.Classify(ctx, "", content)

	counts := map[string]int{}
	for _, w := range tokenize(content) {
		if len(w) < 4 {
			continue
		}
		if _, skip := k.stopWords[w]; skip {
			continue
		}
		counts[w]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	const maxTerms = 10
	if len(words) > maxTerms {
		words = words[:maxTerms]
	}

	terms := make([]Term, 0, len(words))
	for _, w := range words {
		terms = append(terms, Term{Word: w, Sentiment: result.Sentiment})
	}
	return terms, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
