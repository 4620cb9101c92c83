package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/classifier"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/scoring"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, brand_id, author_id, title, content,
	overall_rating, support_rating, training_rating, profitability_rating, culture_rating,
	years_as_franchisee, status, is_flagged, moderation_category,
	sentiment, sentiment_score, ai_flags, ai_summary, is_verified,
	created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	review := &models.Review{}
	var aiFlags []byte
	err := row.Scan(
		&review.ID,
		&review.BrandID,
		&review.AuthorID,
		&review.Title,
		&review.Content,
		&review.OverallRating,
		&review.SupportRating,
		&review.TrainingRating,
		&review.ProfitabilityRating,
		&review.CultureRating,
		&review.YearsAsFranchisee,
		&review.Status,
		&review.IsFlagged,
		&review.ModerationCategory,
		&review.Sentiment,
		&review.SentimentScore,
		&aiFlags,
		&review.AISummary,
		&review.IsVerified,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(aiFlags) > 0 {
		if err := json.Unmarshal(aiFlags, &review.AIFlags); err != nil {
			return nil, fmt.Errorf("failed to decode ai flags: %w", err)
		}
	}
	return review, nil
}

// Create persists a freshly submitted review. The status is always
// pending regardless of what the classifier said about the content.
func (r *ReviewRepository) Create(review *models.Review) error {
	aiFlags, err := json.Marshal(review.AIFlags)
	if err != nil {
		return fmt.Errorf("failed to encode ai flags: %w", err)
	}
	if review.AIFlags == nil {
		aiFlags = []byte("[]")
	}

	query := `
		INSERT INTO reviews (
			brand_id, author_id, title, content,
			overall_rating, support_rating, training_rating, profitability_rating, culture_rating,
			years_as_franchisee, status, moderation_category,
			sentiment, sentiment_score, ai_flags, ai_summary, is_verified
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(
		query,
		review.BrandID,
		review.AuthorID,
		review.Title,
		review.Content,
		review.OverallRating,
		review.SupportRating,
		review.TrainingRating,
		review.ProfitabilityRating,
		review.CultureRating,
		review.YearsAsFranchisee,
		models.ReviewStatusPending,
		review.ModerationCategory,
		review.Sentiment,
		review.SentimentScore,
		aiFlags,
		review.AISummary,
		review.IsVerified,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	review.Status = models.ReviewStatusPending
	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(id uuid.UUID) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("review")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// ListApprovedByBrand returns the published reviews for a brand,
// newest first.
func (r *ReviewRepository) ListApprovedByBrand(brandID uuid.UUID, limit, offset int) ([]models.Review, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE brand_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(query, brandID, models.ReviewStatusApproved, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews WHERE brand_id = $1 AND status = $2`
	if err := r.db.QueryRow(countQuery, brandID, models.ReviewStatusApproved).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return reviews, total, nil
}

// ListByAuthor returns every review a user has submitted, any status.
func (r *ReviewRepository) ListByAuthor(authorID uuid.UUID) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE author_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListForModeration returns the moderation queue. An empty status
// matches everything; flaggedOnly narrows to reviews carrying the
// flagged marker regardless of lifecycle status.
func (r *ReviewRepository) ListForModeration(status string, flaggedOnly bool, limit, offset int) ([]models.Review, int, error) {
	if limit <= 0 {
		limit = 50
	}

	filter := `WHERE ($1 = '' OR status = $1) AND (NOT $2 OR is_flagged)`
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews ` + filter + `
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(query, status, flaggedOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query moderation queue: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews `+filter, status, flaggedOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count moderation queue: %w", err)
	}

	return reviews, total, nil
}

// Decide applies a moderation decision to a pending review. Inside one
// transaction it flips the status, appends the moderation log entry,
// recomputes the brand's aggregate scores from its approved set, and,
// on approval, folds the review's extracted terms into the brand's word
// frequencies. Either everything lands or nothing does.
//
// A review that has already been decided yields an illegal-state error
// and changes nothing; the log keeps one entry per decision.
func (r *ReviewRepository) Decide(reviewID uuid.UUID, action string, moderatorID uuid.UUID, notes *string, terms []classifier.Term) (*models.Review, *scoring.Scores, error) {
	var newStatus string
	switch action {
	case models.ActionApprove:
		newStatus = models.ReviewStatusApproved
	case models.ActionReject:
		newStatus = models.ReviewStatusRejected
	default:
		return nil, nil, apperrors.InvalidInput("action must be approve or reject")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, apperrors.Storage(err)
	}
	defer tx.Rollback()

	review, err := scanReview(tx.QueryRow(
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, reviewID,
	))
	if err == sql.ErrNoRows {
		return nil, nil, apperrors.NotFound("review")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock review: %w", err)
	}

	if review.Decided() {
		return nil, nil, apperrors.IllegalState(fmt.Sprintf("review has already been %s", review.Status))
	}

	previousStatus := review.Status

	if err := tx.QueryRow(
		`UPDATE reviews SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`,
		newStatus, reviewID,
	).Scan(&review.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to update review status: %w", err)
	}
	review.Status = newStatus

	if _, err := tx.Exec(
		`INSERT INTO moderation_logs (review_id, moderator_id, action, previous_status, new_status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reviewID, moderatorID, action, previousStatus, newStatus, notes,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to append moderation log: %w", err)
	}

	if newStatus == models.ReviewStatusApproved {
		for _, term := range terms {
			if _, err := tx.Exec(
				`INSERT INTO word_frequencies (brand_id, word, sentiment)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (brand_id, word) DO UPDATE
				 SET count = word_frequencies.count + 1,
				     sentiment = EXCLUDED.sentiment,
				     last_updated = NOW()`,
				review.BrandID, term.Word, term.Sentiment,
			); err != nil {
				return nil, nil, fmt.Errorf("failed to record word frequency: %w", err)
			}
		}
	}

	scores, err := recomputeBrandScores(tx, review.BrandID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperrors.Storage(err)
	}

	return review, scores, nil
}

// recomputeBrandScores re-derives a brand's aggregates from its current
// approved review set and writes them, all within the caller's
// transaction. An empty set resets the brand to zeros.
func recomputeBrandScores(tx *sql.Tx, brandID uuid.UUID) (*scoring.Scores, error) {
	rows, err := tx.Query(
		`SELECT overall_rating, support_rating, training_rating, profitability_rating, culture_rating
		 FROM reviews
		 WHERE brand_id = $1 AND status = $2`,
		brandID, models.ReviewStatusApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved reviews: %w", err)
	}
	defer rows.Close()

	approved := []models.Review{}
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(
			&review.OverallRating,
			&review.SupportRating,
			&review.TrainingRating,
			&review.ProfitabilityRating,
			&review.CultureRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approved review: %w", err)
		}
		approved = append(approved, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read approved reviews: %w", err)
	}

	scores := scoring.Compute(approved)

	if _, err := tx.Exec(
		`UPDATE brands
		 SET total_reviews = $1, average_rating = $2, z_score = $3,
		     support_score = $4, training_score = $5,
		     profitability_score = $6, culture_score = $7,
		     updated_at = NOW()
		 WHERE id = $8`,
		scores.TotalReviews,
		scores.AverageRating,
		scores.ZScore,
		scores.SupportScore,
		scores.TrainingScore,
		scores.ProfitabilityScore,
		scores.CultureScore,
		brandID,
	); err != nil {
		return nil, fmt.Errorf("failed to write brand scores: %w", err)
	}

	return &scores, nil
}

// CreateResponse attaches a claim holder's reply to a review.
func (r *ReviewRepository) CreateResponse(response *models.ReviewResponse) error {
	query := `
		INSERT INTO review_responses (review_id, responder_id, content, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(query, response.ReviewID, response.ResponderID, response.Content).
		Scan(&response.ID, &response.Status, &response.CreatedAt, &response.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review response: %w", err)
	}

	return nil
}

// ListResponses returns the replies attached to a review
func (r *ReviewRepository) ListResponses(reviewID uuid.UUID) ([]models.ReviewResponse, error) {
	query := `
		SELECT id, review_id, responder_id, content, status, created_at, updated_at
		FROM review_responses
		WHERE review_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to query review responses: %w", err)
	}
	defer rows.Close()

	responses := []models.ReviewResponse{}
	for rows.Next() {
		var resp models.ReviewResponse
		if err := rows.Scan(&resp.ID, &resp.ReviewID, &resp.ResponderID, &resp.Content, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review response: %w", err)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// CreateReport files a report against a review and sets the review's
// flagged marker in the same transaction. The marker rides alongside
// the lifecycle status; it never moves the review between states.
func (r *ReviewRepository) CreateReport(report *models.ReviewReport) error {
	tx, err := r.db.Begin()
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO review_reports (review_id, reporter_id, reason, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, status, created_at`,
		report.ReviewID, report.ReporterID, report.Reason, report.Description,
	).Scan(&report.ID, &report.Status, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review report: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE reviews SET is_flagged = true, updated_at = NOW() WHERE id = $1`,
		report.ReviewID,
	)
	if err != nil {
		return fmt.Errorf("failed to flag review: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NotFound("review")
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage(err)
	}

	return nil
}

// ListReports returns filed reports, optionally narrowed by status,
// newest first.
func (r *ReviewRepository) ListReports(status string, limit, offset int) ([]models.ReviewReport, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, review_id, reporter_id, reason, description, status, created_at, resolved_at
		FROM review_reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query review reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ReviewReport{}
	for rows.Next() {
		var rep models.ReviewReport
		err := rows.Scan(
			&rep.ID, &rep.ReviewID, &rep.ReporterID, &rep.Reason,
			&rep.Description, &rep.Status, &rep.CreatedAt, &rep.ResolvedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review report: %w", err)
		}
		reports = append(reports, rep)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM review_reports WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRow(countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count review reports: %w", err)
	}

	return reports, total, nil
}

// ResolveReport closes out a report with a terminal status.
func (r *ReviewRepository) ResolveReport(reportID uuid.UUID, status string) (*models.ReviewReport, error) {
	if status != models.ReportStatusResolved && status != models.ReportStatusDismissed {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown report status %q", status))
	}

	query := `
		UPDATE review_reports
		SET status = $1, resolved_at = NOW()
		WHERE id = $2
		RETURNING id, review_id, reporter_id, reason, description, status, created_at, resolved_at
	`

	report := &models.ReviewReport{}
	err := r.db.QueryRow(query, status, reportID).Scan(
		&report.ID, &report.ReviewID, &report.ReporterID, &report.Reason,
		&report.Description, &report.Status, &report.CreatedAt, &report.ResolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("report")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve review report: %w", err)
	}

	return report, nil
}

// ModerationLogs returns the decision history for a review, oldest first.
func (r *ReviewRepository) ModerationLogs(reviewID uuid.UUID) ([]models.ModerationLog, error) {
	query := `
		SELECT id, review_id, moderator_id, action, previous_status, new_status, notes, created_at
		FROM moderation_logs
		WHERE review_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to query moderation logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ModerationLog{}
	for rows.Next() {
		var entry models.ModerationLog
		if err := rows.Scan(&entry.ID, &entry.ReviewID, &entry.ModeratorID, &entry.Action, &entry.PreviousStatus, &entry.NewStatus, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan moderation log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, nil
}

func collectReviews(rows *sql.Rows) ([]models.Review, error) {
	reviews := []models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}
