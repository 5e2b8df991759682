// Package scripts provides utility scripts for database and system management.
//
// The seeding system works like migrations: executed seeds are tracked in
// a dedicated table so each seed runs exactly once, making the process
// idempotent and safe on both fresh and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/models"
)

// Seeder populates a fresh database with starter data.
type Seeder struct {
	db *database.Pool
}

// NewSeeder creates a new seeder backed by the given pool.
func NewSeeder(db *database.Pool) *Seeder {
	return &Seeder{
		db: db,
	}
}

// SeedDatabase seeds the database with initial data. It creates the
// seeds tracking table if it doesn't exist, then runs every seed that
// hasn't been executed yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"categories", s.seedCategories},
		{"demo_account", s.seedDemoAccount},
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds tracking table if it doesn't exist.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns the names of already executed seeds.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction. If the seed fails,
// the transaction is rolled back and the seed stays unrecorded.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		query := `INSERT INTO seeds (name) VALUES ($1)`
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedCategories inserts the starter categories, skipping any name that
// already exists so reruns and admin-created categories don't collide.
func (s *Seeder) seedCategories(ctx context.Context, tx *sql.Tx) error {
	categories := models.DefaultCategories()

	existing := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT name FROM categories`)
	if err != nil {
		return fmt.Errorf("failed to query existing categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	insertedCount := 0
	for _, category := range categories {
		if !existing[category.Name] {
			query := `INSERT INTO categories (name) VALUES ($1)`
			_, err := tx.ExecContext(ctx, query, category.Name)
			if err != nil {
				return fmt.Errorf("failed to insert category %s: %w", category.Name, err)
			}
			insertedCount++
		}
	}

	log.Info().
		Int("existing_categories", len(existing)).
		Int("inserted_categories", insertedCount).
		Msg("Category seeding completed")

	return nil
}

// seedDemoAccount creates the demo user with a couple of notes so the
// notes dashboard has content to show on a fresh install.
func (s *Seeder) seedDemoAccount(ctx context.Context, tx *sql.Tx) error {
	const demoEmail = "demo@promesto.app"

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := tx.QueryRowContext(ctx, checkQuery, demoEmail).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for demo user: %w", err)
	}

	if exists {
		log.Debug().Msg("Demo user already exists, skipping")
		return nil
	}

	var userID int64
	insertUser := `
		INSERT INTO users (email, name, image)
		VALUES ($1, $2, $3)
		RETURNING user_id
	`
	if err := tx.QueryRowContext(ctx, insertUser, demoEmail, "Demo User", "").Scan(&userID); err != nil {
		return fmt.Errorf("failed to insert demo user: %w", err)
	}

	notes := []models.Note{
		{Title: "Welcome to ProMesto", Content: "Create a place, make it public, and see it on the shared map."},
		{Title: "Trip ideas", Content: "Collect spots worth revisiting and mark the favorites."},
		{Title: "Sharing checklist", Content: "Review titles and visibility before flipping a place to public."},
	}

	for _, note := range notes {
		insertNote := `INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, insertNote, userID, note.Title, note.Content); err != nil {
			return fmt.Errorf("failed to insert demo note %s: %w", note.Title, err)
		}
	}

	log.Info().
		Int64("user_id", userID).
		Int("notes", len(notes)).
		Msg("Demo account seeding completed")

	return nil
}
