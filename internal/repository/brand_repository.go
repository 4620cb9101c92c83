package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zeeverify/backend/internal/apperrors"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/scoring"
)

type BrandRepository struct {
	db *database.DB
}

func NewBrandRepository(db *database.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

const brandColumns = `id, name, slug, description, category, website,
	is_claimed, claimed_by_id, claimed_at,
	total_reviews, average_rating, z_score,
	support_score, training_score, profitability_score, culture_score,
	created_at, updated_at`

func scanBrand(row interface{ Scan(...any) error }) (*models.Brand, error) {
	brand := &models.Brand{}
	err := row.Scan(
		&brand.ID,
		&brand.Name,
		&brand.Slug,
		&brand.Description,
		&brand.Category,
		&brand.Website,
		&brand.IsClaimed,
		&brand.ClaimedByID,
		&brand.ClaimedAt,
		&brand.TotalReviews,
		&brand.AverageRating,
		&brand.ZScore,
		&brand.SupportScore,
		&brand.TrainingScore,
		&brand.ProfitabilityScore,
		&brand.CultureScore,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return brand, nil
}

// Create creates a new brand
func (r *BrandRepository) Create(brand *models.Brand) error {
	query := `
		INSERT INTO brands (name, slug, description, category, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		brand.Name,
		brand.Slug,
		brand.Description,
		brand.Category,
		brand.Website,
	).Scan(&brand.ID, &brand.CreatedAt, &brand.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.Duplicate("brand slug already in use")
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

// GetByID retrieves a brand by ID
func (r *BrandRepository) GetByID(id uuid.UUID) (*models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`

	brand, err := scanBrand(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("brand")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return brand, nil
}

// GetBySlug retrieves a brand by its URL slug
func (r *BrandRepository) GetBySlug(slug string) (*models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE slug = $1`

	brand, err := scanBrand(r.db.QueryRow(query, slug))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("brand")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return brand, nil
}

// List retrieves brands filtered by search and category, ranked by Z-Score
func (r *BrandRepository) List(search, category string, limit, offset int) ([]models.Brand, int, error) {
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + search + "%"
	filter := `
		WHERE ($1 = '' OR name ILIKE $2)
		  AND ($3 = '' OR category = $3)
	`

	query := `SELECT ` + brandColumns + ` FROM brands ` + filter + `
		ORDER BY z_score DESC, total_reviews DESC, name ASC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(query, search, pattern, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, *brand)
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM brands `+filter, search, pattern, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count brands: %w", err)
	}

	return brands, total, nil
}

// ListClaimedBy returns the brands a claim holder manages.
func (r *BrandRepository) ListClaimedBy(ownerID uuid.UUID) ([]models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands
		WHERE claimed_by_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query claimed brands: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, *brand)
	}

	return brands, nil
}

// UpdateScores overwrites a brand's aggregate fields with a freshly
// computed set. All seven fields are written together so readers never
// observe a partial recompute.
func (r *BrandRepository) UpdateScores(brandID uuid.UUID, scores scoring.Scores) error {
	query := `
		UPDATE brands
		SET total_reviews = $1, average_rating = $2, z_score = $3,
		    support_score = $4, training_score = $5,
		    profitability_score = $6, culture_score = $7,
		    updated_at = NOW()
		WHERE id = $8
	`

	result, err := r.db.Exec(
		query,
		scores.TotalReviews,
		scores.AverageRating,
		scores.ZScore,
		scores.SupportScore,
		scores.TrainingScore,
		scores.ProfitabilityScore,
		scores.CultureScore,
		brandID,
	)
	if err != nil {
		return fmt.Errorf("failed to update brand scores: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NotFound("brand")
	}

	return nil
}

// TopWords returns the most frequent review terms for a brand
func (r *BrandRepository) TopWords(brandID uuid.UUID, limit int) ([]models.WordFrequency, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, brand_id, word, count, sentiment, last_updated
		FROM word_frequencies
		WHERE brand_id = $1
		ORDER BY count DESC, word ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, brandID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query word frequencies: %w", err)
	}
	defer rows.Close()

	words := []models.WordFrequency{}
	for rows.Next() {
		var wf models.WordFrequency
		if err := rows.Scan(&wf.ID, &wf.BrandID, &wf.Word, &wf.Count, &wf.Sentiment, &wf.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan word frequency: %w", err)
		}
		words = append(words, wf)
	}

	return words, nil
}
