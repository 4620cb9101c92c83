package scoring

import (
	"testing"

	"github.com/zeeverify/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func TestCompute_EmptySet(t *testing.T) {
	got := Compute(nil)
	if got != (Scores{}) {
		t.Errorf("expected zero-state scores for empty set, got %+v", got)
	}
}

func TestCompute_WeightedExample(t *testing.T) {
	// Two approved reviews: overall [5,4], support [5,3], every other
	// category absent on both.
	reviews := []models.Review{
		{OverallRating: 5, SupportRating: intPtr(5)},
		{OverallRating: 4, SupportRating: intPtr(3)},
	}

	got := Compute(reviews)

	if got.TotalReviews != 2 {
		t.Errorf("TotalReviews = %d, want 2", got.TotalReviews)
	}
	if got.AverageRating != 4.5 {
		t.Errorf("AverageRating = %v, want 4.5", got.AverageRating)
	}
	if got.SupportScore != 4.0 {
		t.Errorf("SupportScore = %v, want 4.0", got.SupportScore)
	}
	if got.TrainingScore != 0 || got.ProfitabilityScore != 0 || got.CultureScore != 0 {
		t.Errorf("absent categories should average 0, got %+v", got)
	}
	// zScore = 0.4*4.5 + 0.15*4.0 = 2.4
	if got.ZScore != 2.4 {
		t.Errorf("ZScore = %v, want 2.4", got.ZScore)
	}
}

func TestCompute_AllCategoriesPresent(t *testing.T) {
	reviews := []models.Review{
		{
			OverallRating:       5,
			SupportRating:       intPtr(5),
			TrainingRating:      intPtr(5),
			ProfitabilityRating: intPtr(5),
			CultureRating:       intPtr(5),
		},
	}

	got := Compute(reviews)

	// 0.4*5 + 4*0.15*5 = 5.0
	if got.ZScore != 5.0 {
		t.Errorf("ZScore = %v, want 5.0", got.ZScore)
	}
	if got.AverageRating != 5.0 {
		t.Errorf("AverageRating = %v, want 5.0", got.AverageRating)
	}
}

func TestCompute_CategoryMeanSkipsAbsent(t *testing.T) {
	// Only one of three reviews rates training; its mean must divide by 1.
	reviews := []models.Review{
		{OverallRating: 4, TrainingRating: intPtr(2)},
		{OverallRating: 3},
		{OverallRating: 5},
	}

	got := Compute(reviews)

	if got.TrainingScore != 2.0 {
		t.Errorf("TrainingScore = %v, want 2.0", got.TrainingScore)
	}
	if got.AverageRating != 4.0 {
		t.Errorf("AverageRating = %v, want 4.0", got.AverageRating)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	reviews := []models.Review{
		{OverallRating: 4, SupportRating: intPtr(3), CultureRating: intPtr(5)},
		{OverallRating: 2, TrainingRating: intPtr(1)},
		{OverallRating: 5, ProfitabilityRating: intPtr(4)},
	}

	first := Compute(reviews)
	second := Compute(reviews)

	if first != second {
		t.Errorf("Compute is not idempotent: %+v != %+v", first, second)
	}
}

func TestCompute_RoundingOnlyAtFinalValue(t *testing.T) {
	// Three reviews with overall [5,5,4]: mean is 4.666..., persisted 4.67.
	reviews := []models.Review{
		{OverallRating: 5},
		{OverallRating: 5},
		{OverallRating: 4},
	}

	got := Compute(reviews)

	if got.AverageRating != 4.67 {
		t.Errorf("AverageRating = %v, want 4.67", got.AverageRating)
	}
	// zScore = 0.4 * (14/3) = 1.8666... -> 1.87
	if got.ZScore != 1.87 {
		t.Errorf("ZScore = %v, want 1.87", got.ZScore)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1.0},  // float64 representation of 1.005 is just below it
		{2.675, 2.67}, // same
		{4.666666, 4.67},
		{2.4, 2.4},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
