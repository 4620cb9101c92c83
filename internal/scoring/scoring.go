// Package scoring computes a brand's aggregate reputation from its set of
// approved reviews. The computation is a pure function of that set: running
// it twice over the same reviews always yields the same result, and an
// empty set yields the zero state.
package scoring

import (
	"math"

	"github.com/zeeverify/backend/internal/models"
)

// Z-Score weights. The overall rating dominates; each category contributes
// equally to the remainder.
const (
	weightOverall  = 0.40
	weightCategory = 0.15
)

// Scores holds the aggregate fields persisted on a brand, rounded to two
// decimal places.
type Scores struct {
	TotalReviews       int
	AverageRating      float64
	ZScore             float64
	SupportScore       float64
	TrainingScore      float64
	ProfitabilityScore float64
	CultureScore       float64
}

// Compute derives aggregate scores from the given approved reviews.
// Category averages only consider reviews that carry that rating; a
// category no review rated averages to 0 rather than NaN. Sums are
// accumulated as integers so intermediate values stay exact; rounding
// happens once, on the final persisted value.
func Compute(reviews []models.Review) Scores {
	if len(reviews) == 0 {
		return Scores{}
	}

	var overallSum int
	var supportSum, supportN int
	var trainingSum, trainingN int
	var profitSum, profitN int
	var cultureSum, cultureN int

	for _, r := range reviews {
		overallSum += r.OverallRating
		if r.SupportRating != nil {
			supportSum += *r.SupportRating
			supportN++
		}
		if r.TrainingRating != nil {
			trainingSum += *r.TrainingRating
			trainingN++
		}
		if r.ProfitabilityRating != nil {
			profitSum += *r.ProfitabilityRating
			profitN++
		}
		if r.CultureRating != nil {
			cultureSum += *r.CultureRating
			cultureN++
		}
	}

	avgOverall := float64(overallSum) / float64(len(reviews))
	avgSupport := mean(supportSum, supportN)
	avgTraining := mean(trainingSum, trainingN)
	avgProfit := mean(profitSum, profitN)
	avgCulture := mean(cultureSum, cultureN)

	zScore := weightOverall*avgOverall +
		weightCategory*avgSupport +
		weightCategory*avgTraining +
		weightCategory*avgProfit +
		weightCategory*avgCulture

	return Scores{
		TotalReviews:       len(reviews),
		AverageRating:      Round2(avgOverall),
		ZScore:             Round2(zScore),
		SupportScore:       Round2(avgSupport),
		TrainingScore:      Round2(avgTraining),
		ProfitabilityScore: Round2(avgProfit),
		CultureScore:       Round2(avgCulture),
	}
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
