package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
)

func newMockPaymentRepo(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPaymentRepository(&database.DB{DB: db}), mock
}

func claimPayment(sessionID string) *models.Payment {
	return &models.Payment{
		UserID:          uuid.New(),
		BrandID:         uuid.New(),
		StripeSessionID: sessionID,
		StripeIntentID:  "pi_123",
		Amount:          9900,
		Currency:        "usd",
		Status:          models.PaymentStatusCompleted,
	}
}

func paymentRows(p *models.Payment) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "brand_id", "stripe_session_id", "stripe_payment_intent_id",
		"amount", "currency", "status", "created_at",
	}).AddRow(
		uuid.New(), p.UserID, p.BrandID, p.StripeSessionID, p.StripeIntentID,
		p.Amount, p.Currency, p.Status, time.Now(),
	)
}

func TestProcessClaim_NewSession(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	payment := claimPayment("cs_test_abc")

	mock.ExpectQuery("FROM payments").
		WithArgs("cs_test_abc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(payment.UserID, payment.BrandID, "cs_test_abc", "pi_123", int64(9900), "usd", models.PaymentStatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
	mock.ExpectExec("UPDATE brands").
		WithArgs(payment.UserID, payment.BrandID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.ProcessClaim(payment)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessClaim_ReplayedSession(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	payment := claimPayment("cs_test_replay")

	mock.ExpectQuery("FROM payments").
		WithArgs("cs_test_replay").
		WillReturnRows(paymentRows(payment))

	created, err := repo.ProcessClaim(payment)

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessClaim_InsertRace(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	payment := claimPayment("cs_test_race")

	mock.ExpectQuery("FROM payments").
		WithArgs("cs_test_race").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(payment.UserID, payment.BrandID, "cs_test_race", "pi_123", int64(9900), "usd", models.PaymentStatusCompleted).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery("FROM payments").
		WithArgs("cs_test_race").
		WillReturnRows(paymentRows(payment))
	mock.ExpectRollback()

	created, err := repo.ProcessClaim(payment)

	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
