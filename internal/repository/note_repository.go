// This file implements the note repository. The public API only lists a
// user's notes; writes happen through seeding and the admin table browser.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/utils"
)

// NoteRepository defines methods for interacting with notes in the database.
type NoteRepository interface {
	// ListByUser returns a page of the user's notes, newest first, along
	// with the total count.
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Note, int, error)

	// Create adds a note to a user's account. Used by the seeder.
	Create(ctx context.Context, note *models.Note) error
}

// PostgresNoteRepository is a PostgreSQL implementation of NoteRepository.
type PostgresNoteRepository struct {
	db database.Querier
}

// NewNoteRepository creates a new NoteRepository implementation for PostgreSQL.
func NewNoteRepository(db database.Querier) NoteRepository {
	return &PostgresNoteRepository{
		db: db,
	}
}

// ListByUser returns a page of the user's notes, newest first.
func (r *PostgresNoteRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Note, int, error) {
	// Total count first
	startTime := time.Now()

	countQuery := `
		SELECT COUNT(*)
		FROM notes
		WHERE user_id = $1
	`

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total)

	utils.LogDBQuery(
		countQuery,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	// Page query
	startTime = time.Now()

	query := `
		SELECT note_id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)

	utils.LogDBQuery(
		query,
		[]interface{}{userID, pageSize, (page - 1) * pageSize},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0, pageSize)
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Title,
			&note.Content,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, total, nil
}

// Create adds a note to a user's account.
func (r *PostgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		INSERT INTO notes (user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING note_id, created_at, updated_at
	`

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		note.UserID,
		note.Title,
		note.Content,
	).Scan(
		&note.ID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{note.UserID, note.Title},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	log.Info().
		Int64(constants.ColumnNoteID, note.ID).
		Int64(constants.ColumnUserID, note.UserID).
		Msg("Note created")

	return nil
}
