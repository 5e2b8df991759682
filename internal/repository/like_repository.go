// This file implements the like repository. A like is a (user, place)
// pair guarded by a unique constraint, so the toggle flow is a lookup
// followed by an insert or delete, with a fresh count read afterwards.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/utils"
)

// LikeRepository defines methods for interacting with likes in the database.
type LikeRepository interface {
	// GetByUserAndPlace retrieves the like a user holds on a place.
	//
	// Returns:
	//   - The like if found
	//   - NotFoundError if the user has not liked the place
	//   - Other errors for database issues
	GetByUserAndPlace(ctx context.Context, userID, placeID int64) (*models.Like, error)

	// Create records a like. The like's ID and creation time are
	// populated from the inserted row.
	//
	// Returns:
	//   - DuplicateError if the user already likes the place
	//   - Other errors for database issues
	Create(ctx context.Context, like *models.Like) error

	// Delete removes a user's like from a place.
	//
	// Returns:
	//   - NotFoundError if the user has not liked the place
	//   - nil on successful deletion
	Delete(ctx context.Context, userID, placeID int64) error

	// CountByPlace returns the current number of likes on a place.
	CountByPlace(ctx context.Context, placeID int64) (int, error)
}

// PostgresLikeRepository is a PostgreSQL implementation of LikeRepository.
type PostgresLikeRepository struct {
	db database.Querier
}

// NewLikeRepository creates a new LikeRepository implementation for PostgreSQL.
func NewLikeRepository(db database.Querier) LikeRepository {
	return &PostgresLikeRepository{
		db: db,
	}
}

// GetByUserAndPlace retrieves the like a user holds on a place.
func (r *PostgresLikeRepository) GetByUserAndPlace(ctx context.Context, userID, placeID int64) (*models.Like, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT like_id, user_id, place_id, created_at
		FROM likes
		WHERE user_id = $1 AND place_id = $2
	`

	// Execute the query
	like := &models.Like{}
	err := r.db.QueryRowContext(ctx, query, userID, placeID).Scan(
		&like.ID,
		&like.UserID,
		&like.PlaceID,
		&like.CreatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, placeID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Like", placeID)
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}

	return like, nil
}

// Create records a like.
func (r *PostgresLikeRepository) Create(ctx context.Context, like *models.Like) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		INSERT INTO likes (user_id, place_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING like_id, created_at
	`

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		like.UserID,
		like.PlaceID,
	).Scan(
		&like.ID,
		&like.CreatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{like.UserID, like.PlaceID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// A concurrent toggle can race this insert into the unique
		// constraint; surface it as a duplicate for the service to absorb
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return utils.NewDuplicateError("Like", constants.ColumnPlaceID, like.PlaceID)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	log.Info().
		Int64(constants.ColumnUserID, like.UserID).
		Int64(constants.ColumnPlaceID, like.PlaceID).
		Msg("Like created")

	return nil
}

// Delete removes a user's like from a place.
func (r *PostgresLikeRepository) Delete(ctx context.Context, userID, placeID int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		DELETE FROM likes
		WHERE user_id = $1 AND place_id = $2
	`

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, userID, placeID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, placeID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	// Check if the like existed
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Like", placeID)
	}

	log.Info().
		Int64(constants.ColumnUserID, userID).
		Int64(constants.ColumnPlaceID, placeID).
		Msg("Like deleted")

	return nil
}

// CountByPlace returns the current number of likes on a place.
func (r *PostgresLikeRepository) CountByPlace(ctx context.Context, placeID int64) (int, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT COUNT(*)
		FROM likes
		WHERE place_id = $1
	`

	// Execute the query
	var count int
	err := r.db.QueryRowContext(ctx, query, placeID).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{placeID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}
