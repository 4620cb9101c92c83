package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/classifier"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
)

func newMockRepo(t *testing.T) (*ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReviewRepository(&database.DB{DB: db}), mock
}

func reviewRows(id, brandID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "brand_id", "author_id", "title", "content",
		"overall_rating", "support_rating", "training_rating", "profitability_rating", "culture_rating",
		"years_as_franchisee", "status", "is_flagged", "moderation_category",
		"sentiment", "sentiment_score", "ai_flags", "ai_summary", "is_verified",
		"created_at", "updated_at",
	}).AddRow(
		id, brandID, uuid.New(), "Great franchise", "Support was excellent",
		5, 4, nil, nil, nil,
		nil, status, false, models.ModerationClean,
		models.SentimentPositive, 0.8, []byte(`[]`), "", true,
		now, now,
	)
}

func TestDecide_ApprovesPendingReview(t *testing.T) {
	repo, mock := newMockRepo(t)

	reviewID := uuid.New()
	brandID := uuid.New()
	moderatorID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(reviewID).
		WillReturnRows(reviewRows(reviewID, brandID, models.ReviewStatusPending))
	mock.ExpectQuery("UPDATE reviews SET status").
		WithArgs(models.ReviewStatusApproved, reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO moderation_logs").
		WithArgs(reviewID, moderatorID, models.ActionApprove, models.ReviewStatusPending, models.ReviewStatusApproved, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO word_frequencies").
		WithArgs(brandID, "support", models.SentimentPositive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT overall_rating").
		WithArgs(brandID, models.ReviewStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{
			"overall_rating", "support_rating", "training_rating", "profitability_rating", "culture_rating",
		}).AddRow(5, 4, nil, nil, nil))
	mock.ExpectExec("UPDATE brands").
		WithArgs(1, 5.0, 2.6, 4.0, 0.0, 0.0, 0.0, brandID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	terms := []classifier.Term{{Word: "support", Sentiment: models.SentimentPositive}}
	review, scores, err := repo.Decide(reviewID, models.ActionApprove, moderatorID, nil, terms)

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)
	assert.Equal(t, 1, scores.TotalReviews)
	assert.Equal(t, 5.0, scores.AverageRating)
	assert.Equal(t, 2.6, scores.ZScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_RejectSkipsWordFrequencies(t *testing.T) {
	repo, mock := newMockRepo(t)

	reviewID := uuid.New()
	brandID := uuid.New()
	moderatorID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(reviewID).
		WillReturnRows(reviewRows(reviewID, brandID, models.ReviewStatusPending))
	mock.ExpectQuery("UPDATE reviews SET status").
		WithArgs(models.ReviewStatusRejected, reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO moderation_logs").
		WithArgs(reviewID, moderatorID, models.ActionReject, models.ReviewStatusPending, models.ReviewStatusRejected, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT overall_rating").
		WithArgs(brandID, models.ReviewStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{
			"overall_rating", "support_rating", "training_rating", "profitability_rating", "culture_rating",
		}))
	mock.ExpectExec("UPDATE brands").
		WithArgs(0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, brandID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	terms := []classifier.Term{{Word: "support", Sentiment: models.SentimentPositive}}
	review, scores, err := repo.Decide(reviewID, models.ActionReject, moderatorID, nil, terms)

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, review.Status)
	assert.Equal(t, 0, scores.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_AlreadyDecided(t *testing.T) {
	repo, mock := newMockRepo(t)

	reviewID := uuid.New()
	brandID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(reviewID).
		WillReturnRows(reviewRows(reviewID, brandID, models.ReviewStatusApproved))
	mock.ExpectRollback()

	_, _, err := repo.Decide(reviewID, models.ActionReject, uuid.New(), nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_UnknownAction(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, _, err := repo.Decide(uuid.New(), "escalate", uuid.New(), nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestDecide_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	reviewID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, _, err := repo.Decide(reviewID, models.ActionApprove, uuid.New(), nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCreateReport_FlagsReview(t *testing.T) {
	repo, mock := newMockRepo(t)

	report := &models.ReviewReport{
		ReviewID:   uuid.New(),
		ReporterID: uuid.New(),
		Reason:     "spam",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO review_reports").
		WithArgs(report.ReviewID, report.ReporterID, "spam", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).
			AddRow(uuid.New(), "pending", time.Now()))
	mock.ExpectExec("UPDATE reviews SET is_flagged = true").
		WithArgs(report.ReviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateReport(report))
	assert.Equal(t, "pending", report.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
