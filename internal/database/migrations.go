package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				first_name VARCHAR(100) NOT NULL,
				last_name VARCHAR(100) NOT NULL DEFAULT '',
				role VARCHAR(20) NOT NULL DEFAULT 'browser',
				is_verified BOOLEAN NOT NULL DEFAULT false,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS brands (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL,
				slug VARCHAR(255) UNIQUE NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				category VARCHAR(100) NOT NULL DEFAULT '',
				website VARCHAR(255) NOT NULL DEFAULT '',
				is_claimed BOOLEAN NOT NULL DEFAULT false,
				claimed_by_id UUID REFERENCES users(id),
				claimed_at TIMESTAMP,
				total_reviews INT NOT NULL DEFAULT 0,
				average_rating NUMERIC(3,2) NOT NULL DEFAULT 0,
				z_score NUMERIC(4,2) NOT NULL DEFAULT 0,
				support_score NUMERIC(3,2) NOT NULL DEFAULT 0,
				training_score NUMERIC(3,2) NOT NULL DEFAULT 0,
				profitability_score NUMERIC(3,2) NOT NULL DEFAULT 0,
				culture_score NUMERIC(3,2) NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_brands_slug ON brands(slug);
			CREATE INDEX IF NOT EXISTS idx_brands_claimed_by ON brands(claimed_by_id);
			CREATE INDEX IF NOT EXISTS idx_brands_z_score ON brands(z_score DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS brands;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS reviews (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				brand_id UUID NOT NULL REFERENCES brands(id) ON DELETE CASCADE,
				author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL,
				overall_rating INT NOT NULL CHECK (overall_rating BETWEEN 1 AND 5),
				support_rating INT CHECK (support_rating BETWEEN 1 AND 5),
				training_rating INT CHECK (training_rating BETWEEN 1 AND 5),
				profitability_rating INT CHECK (profitability_rating BETWEEN 1 AND 5),
				culture_rating INT CHECK (culture_rating BETWEEN 1 AND 5),
				years_as_franchisee INT,
				status VARCHAR(20) NOT NULL DEFAULT 'pending',
				is_flagged BOOLEAN NOT NULL DEFAULT false,
				moderation_category VARCHAR(20) NOT NULL DEFAULT 'needs_review',
				sentiment VARCHAR(20) NOT NULL DEFAULT 'neutral',
				sentiment_score NUMERIC(3,2) NOT NULL DEFAULT 0,
				ai_flags JSONB NOT NULL DEFAULT '[]',
				ai_summary TEXT NOT NULL DEFAULT '',
				is_verified BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_reviews_brand_status ON reviews(brand_id, status);
			CREATE INDEX IF NOT EXISTS idx_reviews_author ON reviews(author_id);
			CREATE INDEX IF NOT EXISTS idx_reviews_status ON reviews(status, created_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS reviews;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS review_responses (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				responder_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				content TEXT NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'pending',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_review_responses_review ON review_responses(review_id);
		`,
		Down: `
			DROP TABLE IF EXISTS review_responses;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS review_reports (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
				reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				reason VARCHAR(100) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(20) NOT NULL DEFAULT 'pending',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				resolved_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_review_reports_review ON review_reports(review_id);
			CREATE INDEX IF NOT EXISTS idx_review_reports_status ON review_reports(status);
		`,
		Down: `
			DROP TABLE IF EXISTS review_reports;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS moderation_logs (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				review_id UUID NOT NULL REFERENCES reviews(id),
				moderator_id UUID NOT NULL REFERENCES users(id),
				action VARCHAR(50) NOT NULL,
				previous_status VARCHAR(20) NOT NULL,
				new_status VARCHAR(20) NOT NULL,
				notes TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_moderation_logs_review ON moderation_logs(review_id);
			CREATE INDEX IF NOT EXISTS idx_moderation_logs_moderator ON moderation_logs(moderator_id);
		`,
		Down: `
			DROP TABLE IF EXISTS moderation_logs;
		`,
	},
	{
		Version: 7,
		Up: `
			CREATE TABLE IF NOT EXISTS word_frequencies (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				brand_id UUID NOT NULL REFERENCES brands(id) ON DELETE CASCADE,
				word VARCHAR(100) NOT NULL,
				count INT NOT NULL DEFAULT 1 CHECK (count >= 1),
				sentiment VARCHAR(20) NOT NULL DEFAULT 'neutral',
				last_updated TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(brand_id, word)
			);

			CREATE INDEX IF NOT EXISTS idx_word_frequencies_brand ON word_frequencies(brand_id, count DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS word_frequencies;
		`,
	},
	{
		Version: 8,
		Up: `
			CREATE TABLE IF NOT EXISTS payments (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				user_id UUID NOT NULL REFERENCES users(id),
				brand_id UUID NOT NULL REFERENCES brands(id),
				stripe_session_id VARCHAR(255) UNIQUE NOT NULL,
				stripe_payment_intent_id VARCHAR(255) NOT NULL DEFAULT '',
				amount BIGINT NOT NULL,
				currency VARCHAR(10) NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'completed',
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id);
			CREATE INDEX IF NOT EXISTS idx_payments_brand ON payments(brand_id);
		`,
		Down: `
			DROP TABLE IF EXISTS payments;
		`,
	},
	{
		Version: 9,
		Up: `
			CREATE TABLE IF NOT EXISTS leads (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				brand_id UUID NOT NULL REFERENCES brands(id) ON DELETE CASCADE,
				first_name VARCHAR(100) NOT NULL,
				last_name VARCHAR(100) NOT NULL,
				email VARCHAR(255) NOT NULL,
				phone VARCHAR(50) NOT NULL DEFAULT '',
				investment_range VARCHAR(100) NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				status VARCHAR(20) NOT NULL DEFAULT 'new',
				routed_to UUID REFERENCES users(id),
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_leads_brand ON leads(brand_id);
			CREATE INDEX IF NOT EXISTS idx_leads_routed_to ON leads(routed_to);
		`,
		Down: `
			DROP TABLE IF EXISTS leads;
		`,
	},
	{
		Version: 10,
		Up: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS schema_migrations;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	// Run pending migrations
	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
