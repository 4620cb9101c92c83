package models

import (
	"testing"
)

func intPtr(v int) *int { return &v }

func TestReview_Validate(t *testing.T) {
	tests := []struct {
		name    string
		review  Review
		wantErr bool
	}{
		{
			name: "Valid review",
			review: Review{
				Title:         "Great franchise to run",
				Content:       "Support has been responsive from day one.",
				OverallRating: 5,
			},
			wantErr: false,
		},
		{
			name: "Valid review with category ratings",
			review: Review{
				Title:         "Solid system",
				Content:       "Training was thorough.",
				OverallRating: 4,
				SupportRating: intPtr(5),
				CultureRating: intPtr(3),
			},
			wantErr: false,
		},
		{
			name: "Missing title",
			review: Review{
				Content:       "Some content",
				OverallRating: 3,
			},
			wantErr: true,
		},
		{
			name: "Missing content",
			review: Review{
				Title:         "A title",
				OverallRating: 3,
			},
			wantErr: true,
		},
		{
			name: "Overall rating too low",
			review: Review{
				Title:         "A title",
				Content:       "Some content",
				OverallRating: 0,
			},
			wantErr: true,
		},
		{
			name: "Overall rating too high",
			review: Review{
				Title:         "A title",
				Content:       "Some content",
				OverallRating: 6,
			},
			wantErr: true,
		},
		{
			name: "Category rating out of range",
			review: Review{
				Title:          "A title",
				Content:        "Some content",
				OverallRating:  4,
				TrainingRating: intPtr(0),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Review.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReview_Decided(t *testing.T) {
	r := Review{Status: ReviewStatusPending}
	if r.Decided() {
		t.Error("pending review should not be decided")
	}
	r.Status = ReviewStatusApproved
	if !r.Decided() {
		t.Error("approved review should be decided")
	}
	r.Status = ReviewStatusRejected
	if !r.Decided() {
		t.Error("rejected review should be decided")
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    User{Email: "test@example.com", FirstName: "Test", Role: RoleFranchisee},
			wantErr: false,
		},
		{
			name:    "Empty email",
			user:    User{Email: "", FirstName: "Test", Role: RoleFranchisee},
			wantErr: true,
		},
		{
			name:    "Invalid email",
			user:    User{Email: "invalid-email", FirstName: "Test", Role: RoleFranchisee},
			wantErr: true,
		},
		{
			name:    "Empty first name",
			user:    User{Email: "test@example.com", FirstName: "", Role: RoleFranchisee},
			wantErr: true,
		},
		{
			name:    "Unknown role",
			user:    User{Email: "test@example.com", FirstName: "Test", Role: "superuser"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("User.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
