// This file implements the place repository, the core data access layer of
// the application. Besides plain CRUD it builds the joined list queries that
// back the owned, public, and favorites views, each carrying a like count
// and the viewer's own like state.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/utils"
)

// PlaceFilter narrows a place listing. An empty Search means no text
// filter; Sort chooses the ordering for public listings.
type PlaceFilter struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// PlaceRepository defines methods for interacting with places in the database.
type PlaceRepository interface {
	// Create adds a new place to the database. The place's ID and
	// timestamps are populated from the inserted row.
	Create(ctx context.Context, place *models.Place) error

	// GetByID retrieves a place by its unique identifier.
	//
	// Returns:
	//   - The place if found
	//   - NotFoundError if the place doesn't exist
	//   - Other errors for database issues
	GetByID(ctx context.Context, id int64) (*models.Place, error)

	// Update rewrites the editable fields of a place (title, content,
	// category).
	//
	// Returns:
	//   - NotFoundError if the place doesn't exist
	//   - nil on successful update
	Update(ctx context.Context, place *models.Place) error

	// Delete removes a place and, through cascading constraints, its likes
	// and tag links.
	//
	// Returns:
	//   - NotFoundError if the place doesn't exist
	//   - nil on successful deletion
	Delete(ctx context.Context, id int64) error

	// SetVisibility switches a place between PRIVATE and PUBLIC.
	//
	// Returns:
	//   - NotFoundError if the place doesn't exist
	//   - nil on successful update
	SetVisibility(ctx context.Context, id int64, visibility string) error

	// SetFavorite switches the owner's favorite flag on a place.
	//
	// Returns:
	//   - NotFoundError if the place doesn't exist
	//   - nil on successful update
	SetFavorite(ctx context.Context, id int64, favorite bool) error

	// ListOwned returns a page of places owned by the given user, newest
	// first, along with the total match count. The owner is the viewer,
	// so liked_by_viewer reflects their own likes.
	ListOwned(ctx context.Context, ownerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error)

	// ListPublic returns a page of PUBLIC places from all users. viewerID
	// may be zero for anonymous requests, in which case liked_by_viewer is
	// always false. The sort is either newest first or most liked first
	// with newest first as the tie-break.
	ListPublic(ctx context.Context, viewerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error)

	// ListFavorites returns a page of the given user's favorite places,
	// newest first.
	ListFavorites(ctx context.Context, ownerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error)
}

// PostgresPlaceRepository is a PostgreSQL implementation of PlaceRepository.
type PostgresPlaceRepository struct {
	db database.Querier
}

// NewPlaceRepository creates a new PlaceRepository implementation for PostgreSQL.
func NewPlaceRepository(db database.Querier) PlaceRepository {
	return &PostgresPlaceRepository{
		db: db,
	}
}

// Create adds a new place to the database.
func (r *PostgresPlaceRepository) Create(ctx context.Context, place *models.Place) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		INSERT INTO places (owner_id, category_id, title, content, visibility, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING place_id, created_at, updated_at
	`

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		place.OwnerID,
		place.CategoryID,
		place.Title,
		place.Content,
		place.Visibility,
		place.IsFavorite,
	).Scan(
		&place.ID,
		&place.CreatedAt,
		&place.UpdatedAt,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{place.OwnerID, place.CategoryID, place.Title, place.Visibility, place.IsFavorite},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}

	log.Info().
		Int64(constants.ColumnPlaceID, place.ID).
		Int64(constants.ColumnOwnerID, place.OwnerID).
		Msg("Place created")

	return nil
}

// GetByID retrieves a place by ID.
func (r *PostgresPlaceRepository) GetByID(ctx context.Context, id int64) (*models.Place, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT place_id, owner_id, category_id, title, content, visibility, is_favorite, created_at, updated_at
		FROM places
		WHERE place_id = $1
	`

	// Execute the query
	place := &models.Place{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&place.ID,
		&place.OwnerID,
		&place.CategoryID,
		&place.Title,
		&place.Content,
		&place.Visibility,
		&place.IsFavorite,
		&place.CreatedAt,
		&place.UpdatedAt,
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
			return nil, utils.NewNotFoundError("Place", id)
		}
		return nil, fmt.Errorf("failed to get place by ID: %w", err)
	}

	return place, nil
}

// Update rewrites the editable fields of a place.
func (r *PostgresPlaceRepository) Update(ctx context.Context, place *models.Place) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		UPDATE places
		SET title = $1, content = $2, category_id = $3, visibility = $4, updated_at = NOW()
		WHERE place_id = $5
	`

	// Execute the query
	result, err := r.db.ExecContext(
		ctx,
		query,
		place.Title,
		place.Content,
		place.CategoryID,
		place.Visibility,
		place.ID,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{place.Title, place.CategoryID, place.Visibility, place.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}

	// Check if the place existed
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Place", place.ID)
	}

	log.Info().
		Int64(constants.ColumnPlaceID, place.ID).
		Msg("Place updated")

	return nil
}

// Delete removes a place.
func (r *PostgresPlaceRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		DELETE FROM places
		WHERE place_id = $1
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
		return fmt.Errorf("failed to delete place: %w", err)
	}

	// Check if the place existed
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Place", id)
	}

	log.Info().
		Int64(constants.ColumnPlaceID, id).
		Msg("Place deleted")

	return nil
}

// SetVisibility switches a place between PRIVATE and PUBLIC.
func (r *PostgresPlaceRepository) SetVisibility(ctx context.Context, id int64, visibility string) error {
	return r.setFlag(ctx, id,
		`UPDATE places SET visibility = $1, updated_at = NOW() WHERE place_id = $2`,
		visibility)
}

// SetFavorite switches the owner's favorite flag on a place.
func (r *PostgresPlaceRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return r.setFlag(ctx, id,
		`UPDATE places SET is_favorite = $1, updated_at = NOW() WHERE place_id = $2`,
		favorite)
}

// setFlag runs a single-column update and maps a missing row to NotFound.
func (r *PostgresPlaceRepository) setFlag(ctx context.Context, id int64, query string, value interface{}) error {
	startTime := time.Now()

	result, err := r.db.ExecContext(ctx, query, value, id)

	utils.LogDBQuery(
		query,
		[]interface{}{value, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Place", id)
	}

	return nil
}

// ListOwned returns a page of places owned by the given user.
func (r *PostgresPlaceRepository) ListOwned(ctx context.Context, ownerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	where := "p.owner_id = $1"
	args := []interface{}{ownerID}
	where, args = appendSearch(where, args, filter.Search)

	return r.listPlaces(ctx, where, args, orderByLastUpdated, ownerID, filter)
}

// ListPublic returns a page of PUBLIC places from all users.
func (r *PostgresPlaceRepository) ListPublic(ctx context.Context, viewerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	where := "p.visibility = $1"
	args := []interface{}{constants.VisibilityPublic}
	where, args = appendSearch(where, args, filter.Search)

	return r.listPlaces(ctx, where, args, orderClause(filter.Sort), viewerID, filter)
}

// ListFavorites returns a page of the given user's favorite places.
func (r *PostgresPlaceRepository) ListFavorites(ctx context.Context, ownerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	where := "p.owner_id = $1 AND p.is_favorite = TRUE"
	args := []interface{}{ownerID}
	where, args = appendSearch(where, args, filter.Search)

	return r.listPlaces(ctx, where, args, orderByLastUpdated, ownerID, filter)
}

// appendSearch adds a case-insensitive title/content filter to a WHERE
// clause when a search term is present.
func appendSearch(where string, args []interface{}, search string) (string, []interface{}) {
	search = strings.TrimSpace(search)
	if search == "" {
		return where, args
	}

	placeholder := len(args) + 1
	where += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.content ILIKE $%d)", placeholder, placeholder)
	args = append(args, "%"+search+"%")
	return where, args
}

// orderByLastUpdated orders a user's own lists by most recently edited.
const orderByLastUpdated = "p.updated_at DESC"

// orderClause maps a public-list sort name to its ORDER BY expression.
// Popular sorts by like count with recency as the tie-break; anything
// else is newest first.
func orderClause(sort string) string {
	if sort == constants.SortPopular {
		return "likes_count DESC, p.created_at DESC"
	}
	return "p.created_at DESC"
}

// listPlaces runs the shared count and page queries for a listing. The
// viewer ID feeds the liked_by_viewer EXISTS probe; zero never matches a
// like, so anonymous viewers see false everywhere.
func (r *PostgresPlaceRepository) listPlaces(ctx context.Context, where string, args []interface{}, orderBy string, viewerID int64, filter PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	// Total match count first, with the same filter
	startTime := time.Now()

	countQuery := "SELECT COUNT(*) FROM places p WHERE " + where

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)

	utils.LogDBQuery(
		countQuery,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to count places: %w", err)
	}

	// Page query with like aggregate and viewer probe
	startTime = time.Now()

	viewer := len(args) + 1
	limit := len(args) + 2
	offset := len(args) + 3
	query := fmt.Sprintf(`
		SELECT p.place_id, p.owner_id, p.category_id, p.title, p.content, p.visibility, p.is_favorite,
		       p.created_at, p.updated_at,
		       u.user_id, u.name, u.image,
		       COUNT(l.like_id) AS likes_count,
		       EXISTS(
		           SELECT 1 FROM likes v
		           WHERE v.place_id = p.place_id AND v.user_id = $%d
		       ) AS liked_by_viewer
		FROM places p
		JOIN users u ON u.user_id = p.owner_id
		LEFT JOIN likes l ON l.place_id = p.place_id
		WHERE %s
		GROUP BY p.place_id, u.user_id
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, viewer, where, orderBy, limit, offset)

	pageArgs := append(append([]interface{}{}, args...),
		viewerID, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)

	utils.LogDBQuery(
		query,
		pageArgs,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places := make([]*models.PlaceWithLikes, 0, filter.PageSize)
	for rows.Next() {
		place := &models.PlaceWithLikes{}
		if err := rows.Scan(
			&place.ID,
			&place.OwnerID,
			&place.CategoryID,
			&place.Title,
			&place.Content,
			&place.Visibility,
			&place.IsFavorite,
			&place.CreatedAt,
			&place.UpdatedAt,
			&place.Owner.ID,
			&place.Owner.Name,
			&place.Owner.Image,
			&place.LikesCount,
			&place.LikedByViewer,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan place row: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating place rows: %w", err)
	}

	return places, total, nil
}
