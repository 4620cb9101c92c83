// Package moderation owns the review lifecycle: intake with AI
// classification, the approve/reject decision, and everything that
// fans out from a decision (score publication, author notification).
package moderation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/classifier"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/notify"
	"github.com/zeeverify/backend/internal/scoring"
)

// ReviewStore is the persistence surface the service needs.
type ReviewStore interface {
	Create(review *models.Review) error
	GetByID(id uuid.UUID) (*models.Review, error)
	Decide(reviewID uuid.UUID, action string, moderatorID uuid.UUID, notes *string, terms []classifier.Term) (*models.Review, *scoring.Scores, error)
	ModerationLogs(reviewID uuid.UUID) ([]models.ModerationLog, error)
}

type BrandStore interface {
	GetByID(id uuid.UUID) (*models.Brand, error)
}

type UserStore interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// ScorePublisher pushes recomputed aggregates to feed subscribers.
type ScorePublisher interface {
	PublishScoreUpdate(update models.ScoreUpdate) error
}

// Notifier enqueues decision notifications. Implementations never fail
// the caller.
type Notifier interface {
	ReviewDecided(payload notify.ReviewDecidedPayload)
	BrandNewReview(payload notify.BrandNewReviewPayload)
}

type Service struct {
	reviews    ReviewStore
	brands     BrandStore
	users      UserStore
	classifier classifier.Classifier
	publisher  ScorePublisher
	notifier   Notifier
	logger     *slog.Logger
}

func NewService(
	reviews ReviewStore,
	brands BrandStore,
	users UserStore,
	cls classifier.Classifier,
	publisher ScorePublisher,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		reviews:    reviews,
		brands:     brands,
		users:      users,
		classifier: cls,
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Submit runs the classifier over a new review and persists it. The
// classifier's verdict is advisory metadata for the moderation queue;
// the review always enters as pending, and a classifier outage falls
// back to a needs_review marking rather than blocking intake.
func (s *Service) Submit(ctx context.Context, authorID uuid.UUID, verified bool, req *models.CreateReviewRequest) (*models.Review, error) {
	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		return nil, err
	}
	if _, err := s.brands.GetByID(brandID); err != nil {
		return nil, err
	}

	review := &models.Review{
		BrandID:             brandID,
		AuthorID:            authorID,
		Title:               req.Title,
		Content:             req.Content,
		OverallRating:       req.OverallRating,
		SupportRating:       req.SupportRating,
		TrainingRating:      req.TrainingRating,
		ProfitabilityRating: req.ProfitabilityRating,
		CultureRating:       req.CultureRating,
		YearsAsFranchisee:   req.YearsAsFranchisee,
		IsVerified:          verified,
	}
	// Request binding already checks these, but the service is also
	// reachable without gin in front of it.
	if err := review.Validate(); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	result, err := s.classifier.Classify(ctx, req.Title, req.Content)
	if err != nil {
		s.logger.Warn("classifier unavailable, marking review for manual screening",
			"brand_id", brandID, "error", err)
		result = classifier.Fallback()
	}
	review.ModerationCategory = result.Category
	review.Sentiment = result.Sentiment
	review.SentimentScore = result.SentimentScore
	review.AIFlags = result.Flags
	review.AISummary = result.Summary

	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		"review_id", review.ID,
		"brand_id", brandID,
		"moderation_category", review.ModerationCategory,
	)
	return review, nil
}

// Moderate applies an approve or reject decision. The status flip, log
// entry, score recompute, and word frequency updates land atomically;
// the score broadcast and author notification run after commit and are
// best effort.
func (s *Service) Moderate(ctx context.Context, reviewID, moderatorID uuid.UUID, action, notes string) (*models.Review, error) {
	var terms []classifier.Term
	if action == models.ActionApprove {
		current, err := s.reviews.GetByID(reviewID)
		if err != nil {
			return nil, err
		}
		terms, err = s.classifier.ExtractTerms(ctx, current.Content)
		if err != nil {
			s.logger.Warn("term extraction failed, approving without word frequencies",
				"review_id", reviewID, "error", err)
			terms = nil
		}
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	review, scores, err := s.reviews.Decide(reviewID, action, moderatorID, notesPtr, terms)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review moderated",
		"review_id", reviewID,
		"moderator_id", moderatorID,
		"action", action,
		"brand_z_score", scores.ZScore,
	)

	s.publishScores(review.BrandID, scores)
	s.notifyDecision(review)

	return review, nil
}

// Logs returns a review's decision history.
func (s *Service) Logs(reviewID uuid.UUID) ([]models.ModerationLog, error) {
	return s.reviews.ModerationLogs(reviewID)
}

func (s *Service) publishScores(brandID uuid.UUID, scores *scoring.Scores) {
	update := models.ScoreUpdate{
		BrandID:            brandID,
		TotalReviews:       scores.TotalReviews,
		AverageRating:      scores.AverageRating,
		ZScore:             scores.ZScore,
		SupportScore:       scores.SupportScore,
		TrainingScore:      scores.TrainingScore,
		ProfitabilityScore: scores.ProfitabilityScore,
		CultureScore:       scores.CultureScore,
		UpdatedAt:          time.Now(),
	}
	if err := s.publisher.PublishScoreUpdate(update); err != nil {
		s.logger.Warn("failed to publish score update", "brand_id", brandID, "error", err)
	}
}

func (s *Service) notifyDecision(review *models.Review) {
	author, err := s.users.GetByID(review.AuthorID)
	if err != nil {
		s.logger.Warn("skipping decision notification, author lookup failed",
			"review_id", review.ID, "error", err)
		return
	}
	brand, err := s.brands.GetByID(review.BrandID)
	if err != nil {
		s.logger.Warn("skipping decision notification, brand lookup failed",
			"review_id", review.ID, "error", err)
		return
	}

	s.notifier.ReviewDecided(notify.ReviewDecidedPayload{
		ReviewID:    review.ID,
		ReviewTitle: review.Title,
		BrandName:   brand.Name,
		Status:      review.Status,
		AuthorEmail: author.Email,
		AuthorName:  author.FirstName,
		DecidedAt:   review.UpdatedAt,
	})

	// Claim holders hear about approved reviews of their brand.
	if review.Status != models.ReviewStatusApproved || brand.ClaimedByID == nil {
		return
	}
	owner, err := s.users.GetByID(*brand.ClaimedByID)
	if err != nil {
		s.logger.Warn("skipping claim holder notification, owner lookup failed",
			"brand_id", brand.ID, "error", err)
		return
	}
	s.notifier.BrandNewReview(notify.BrandNewReviewPayload{
		ReviewID:      review.ID,
		BrandName:     brand.Name,
		OwnerEmail:    owner.Email,
		OwnerName:     owner.FirstName,
		ReviewTitle:   review.Title,
		ReviewPreview: previewText(review.Content, 160),
		OverallRating: review.OverallRating,
	})
}

func previewText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
