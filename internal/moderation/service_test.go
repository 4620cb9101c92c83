package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/classifier"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/notify"
	"github.com/zeeverify/backend/internal/scoring"
)

type fakeReviewStore struct {
	created   *models.Review
	reviews   map[uuid.UUID]*models.Review
	decided   *models.Review
	scores    *scoring.Scores
	decideErr error
	gotAction string
	gotTerms  []classifier.Term
}

func (f *fakeReviewStore) Create(review *models.Review) error {
	review.ID = uuid.New()
	review.Status = models.ReviewStatusPending
	f.created = review
	return nil
}

func (f *fakeReviewStore) GetByID(id uuid.UUID) (*models.Review, error) {
	if r, ok := f.reviews[id]; ok {
		return r, nil
	}
	return nil, apperrors.NotFound("review")
}

func (f *fakeReviewStore) Decide(_ uuid.UUID, action string, _ uuid.UUID, _ *string, terms []classifier.Term) (*models.Review, *scoring.Scores, error) {
	f.gotAction = action
	f.gotTerms = terms
	if f.decideErr != nil {
		return nil, nil, f.decideErr
	}
	return f.decided, f.scores, nil
}

func (f *fakeReviewStore) ModerationLogs(uuid.UUID) ([]models.ModerationLog, error) {
	return nil, nil
}

type fakeBrandStore struct {
	brands map[uuid.UUID]*models.Brand
}

func (f *fakeBrandStore) GetByID(id uuid.UUID) (*models.Brand, error) {
	if b, ok := f.brands[id]; ok {
		return b, nil
	}
	return nil, apperrors.NotFound("brand")
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) GetByID(id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user")
}

type fakeClassifier struct {
	result      *classifier.Result
	classifyErr error
	terms       []classifier.Term
	termsErr    error
}

func (f *fakeClassifier) Classify(context.Context, string, string) (*classifier.Result, error) {
	return f.result, f.classifyErr
}

func (f *fakeClassifier) ExtractTerms(context.Context, string) ([]classifier.Term, error) {
	return f.terms, f.termsErr
}

type fakePublisher struct {
	updates []models.ScoreUpdate
}

func (f *fakePublisher) PublishScoreUpdate(update models.ScoreUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

type fakeNotifier struct {
	decided    []notify.ReviewDecidedPayload
	newReviews []notify.BrandNewReviewPayload
}

func (f *fakeNotifier) ReviewDecided(payload notify.ReviewDecidedPayload) {
	f.decided = append(f.decided, payload)
}

func (f *fakeNotifier) BrandNewReview(payload notify.BrandNewReviewPayload) {
	f.newReviews = append(f.newReviews, payload)
}

type fixture struct {
	svc       *Service
	reviews   *fakeReviewStore
	brands    *fakeBrandStore
	users     *fakeUserStore
	cls       *fakeClassifier
	publisher *fakePublisher
	notifier  *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		reviews: &fakeReviewStore{reviews: map[uuid.UUID]*models.Review{}},
		brands:  &fakeBrandStore{brands: map[uuid.UUID]*models.Brand{}},
		users:   &fakeUserStore{users: map[uuid.UUID]*models.User{}},
		cls: &fakeClassifier{result: &classifier.Result{
			Category:       models.ModerationClean,
			Sentiment:      models.SentimentPositive,
			SentimentScore: 0.7,
		}},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(f.reviews, f.brands, f.users, f.cls, f.publisher, f.notifier, logger)
	return f
}

func (f *fixture) addBrand(name string) *models.Brand {
	brand := &models.Brand{ID: uuid.New(), Name: name}
	f.brands.brands[brand.ID] = brand
	return brand
}

func TestSubmit_AttachesClassification(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")
	authorID := uuid.New()

	review, err := f.svc.Submit(context.Background(), authorID, true, &models.CreateReviewRequest{
		BrandID:       brand.ID.String(),
		Title:         "Solid operation",
		Content:       "Support was strong in year one.",
		OverallRating: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, models.ModerationClean, review.ModerationCategory)
	assert.Equal(t, models.SentimentPositive, review.Sentiment)
	assert.True(t, review.IsVerified)
}

func TestSubmit_ClassifierOutageFallsBack(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")
	f.cls.classifyErr = errors.New("model timeout")

	review, err := f.svc.Submit(context.Background(), uuid.New(), false, &models.CreateReviewRequest{
		BrandID:       brand.ID.String(),
		Title:         "Mixed experience",
		Content:       "Training lagged behind the sales pitch.",
		OverallRating: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, models.ModerationNeedsReview, review.ModerationCategory)
	assert.Contains(t, review.AIFlags, "classification_error")
}

func TestSubmit_RejectsOutOfRangeRatings(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")

	six := 6
	_, err := f.svc.Submit(context.Background(), uuid.New(), false, &models.CreateReviewRequest{
		BrandID:       brand.ID.String(),
		Title:         "Off the scale",
		Content:       "x",
		OverallRating: 3,
		SupportRating: &six,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Nil(t, f.reviews.created)
}

func TestSubmit_UnknownBrand(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), false, &models.CreateReviewRequest{
		BrandID:       uuid.New().String(),
		Title:         "Ghost brand",
		Content:       "x",
		OverallRating: 1,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestModerate_ApprovePublishesAndNotifies(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")

	author := &models.User{ID: uuid.New(), Email: "sam@example.com", FirstName: "Sam"}
	f.users.users[author.ID] = author

	reviewID := uuid.New()
	pending := &models.Review{
		ID:       reviewID,
		BrandID:  brand.ID,
		AuthorID: author.ID,
		Title:    "Solid operation",
		Content:  "Support was strong.",
		Status:   models.ReviewStatusPending,
	}
	f.reviews.reviews[reviewID] = pending

	approved := *pending
	approved.Status = models.ReviewStatusApproved
	f.reviews.decided = &approved
	f.reviews.scores = &scoring.Scores{TotalReviews: 1, AverageRating: 5, ZScore: 2.6}
	f.cls.terms = []classifier.Term{{Word: "support", Sentiment: models.SentimentPositive}}

	review, err := f.svc.Moderate(context.Background(), reviewID, uuid.New(), models.ActionApprove, "looks genuine")

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)
	assert.Equal(t, f.cls.terms, f.reviews.gotTerms)

	require.Len(t, f.publisher.updates, 1)
	assert.Equal(t, brand.ID, f.publisher.updates[0].BrandID)
	assert.Equal(t, 2.6, f.publisher.updates[0].ZScore)

	require.Len(t, f.notifier.decided, 1)
	assert.Equal(t, "sam@example.com", f.notifier.decided[0].AuthorEmail)
	assert.Equal(t, models.ReviewStatusApproved, f.notifier.decided[0].Status)
	assert.Empty(t, f.notifier.newReviews, "unclaimed brand has no owner to notify")
}

func TestModerate_ApproveNotifiesClaimHolder(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")

	author := &models.User{ID: uuid.New(), Email: "sam@example.com", FirstName: "Sam"}
	f.users.users[author.ID] = author
	owner := &models.User{ID: uuid.New(), Email: "owner@crust.co", FirstName: "Pat"}
	f.users.users[owner.ID] = owner
	brand.IsClaimed = true
	brand.ClaimedByID = &owner.ID

	approved := &models.Review{
		ID:            uuid.New(),
		BrandID:       brand.ID,
		AuthorID:      author.ID,
		Title:         "Solid operation",
		Content:       "Support was strong.",
		OverallRating: 5,
		Status:        models.ReviewStatusApproved,
	}
	f.reviews.reviews[approved.ID] = approved
	f.reviews.decided = approved
	f.reviews.scores = &scoring.Scores{TotalReviews: 1, AverageRating: 5, ZScore: 2.0}

	_, err := f.svc.Moderate(context.Background(), approved.ID, uuid.New(), models.ActionApprove, "")

	require.NoError(t, err)
	require.Len(t, f.notifier.newReviews, 1)
	assert.Equal(t, "owner@crust.co", f.notifier.newReviews[0].OwnerEmail)
	assert.Equal(t, 5, f.notifier.newReviews[0].OverallRating)
	assert.Equal(t, "Support was strong.", f.notifier.newReviews[0].ReviewPreview)
}

func TestModerate_RejectSkipsTermExtraction(t *testing.T) {
	f := newFixture()
	brand := f.addBrand("Crust & Co")

	author := &models.User{ID: uuid.New(), Email: "sam@example.com"}
	f.users.users[author.ID] = author

	rejected := &models.Review{
		ID:       uuid.New(),
		BrandID:  brand.ID,
		AuthorID: author.ID,
		Status:   models.ReviewStatusRejected,
	}
	f.reviews.decided = rejected
	f.reviews.scores = &scoring.Scores{}
	f.cls.terms = []classifier.Term{{Word: "should-not-appear"}}

	review, err := f.svc.Moderate(context.Background(), rejected.ID, uuid.New(), models.ActionReject, "")

	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, review.Status)
	assert.Nil(t, f.reviews.gotTerms)
}

func TestPreviewText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short text untouched", "Support was strong.", 160, "Support was strong."},
		{"cuts at word boundary", "Support was strong in year one", 20, "Support was strong..."},
		{"no space falls back to hard cut", "aaaaaaaaaa", 5, "aaaaa..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, previewText(tt.in, tt.max))
		})
	}
}

func TestPreviewText_NeverSplitsRunes(t *testing.T) {
	in := strings.Repeat("の", 40)
	got := previewText(in, 10)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("の", 10)+"...", got)
}

func TestModerate_DecideErrorPropagates(t *testing.T) {
	f := newFixture()
	f.reviews.decideErr = apperrors.IllegalState("review has already been approved")

	_, err := f.svc.Moderate(context.Background(), uuid.New(), uuid.New(), models.ActionReject, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIllegalState))
	assert.Empty(t, f.publisher.updates)
	assert.Empty(t, f.notifier.decided)
}
