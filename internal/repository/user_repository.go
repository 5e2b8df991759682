// Package repository provides data access interfaces and implementations for the ProMesto application.
// It follows the repository pattern to abstract database operations and provide a clean API
// for data persistence operations.
//
// This file implements the user repository. Accounts originate from Google
// sign-in, so the write path is an upsert keyed by email rather than a
// registration flow.
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

// UserRepository defines methods for interacting with user accounts in the database.
type UserRepository interface {
	// GetByID retrieves a user by their unique identifier.
	//
	// Returns:
	//   - The user if found
	//   - NotFoundError if the user doesn't exist
	//   - Other errors for database issues
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by their email address.
	//
	// Returns:
	//   - The user if found
	//   - NotFoundError if no user has the email
	//   - Other errors for database issues
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Upsert creates a user for the given identity, or refreshes the name
	// and avatar of an existing account with the same email. The user's ID
	// and timestamps are populated from the database.
	Upsert(ctx context.Context, user *models.User) error

	// Delete removes a user and, through cascading constraints, all of
	// their places, likes, and notes.
	//
	// Returns:
	//   - NotFoundError if the user doesn't exist
	//   - nil on successful deletion
	Delete(ctx context.Context, id int64) error
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository.
type PostgresUserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository implementation for PostgreSQL.
// The query surface is usually the retrying executor, so transient
// connection failures are absorbed here rather than in callers.
func NewUserRepository(db database.Querier) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

// GetByID retrieves a user by ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT user_id, email, name, image, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	// Execute the query
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email address.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT user_id, email, name, image, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	// Execute the query
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{email},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Upsert creates or refreshes a user account keyed by email.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		INSERT INTO users (email, name, image, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name,
		    image = EXCLUDED.image,
		    updated_at = NOW()
		RETURNING user_id, created_at, updated_at
	`

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.Image,
	).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{user.Email, user.Name, user.Image},
		time.Since(startTime),
		err,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return utils.ParseError(err)
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	log.Info().
		Int64(constants.ColumnUserID, user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User upserted")

	return nil
}

// Delete removes a user account.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		DELETE FROM users
		WHERE user_id = $1
	`

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	// Check if the user existed
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64(constants.ColumnUserID, id).
		Msg("User deleted")

	return nil
}
