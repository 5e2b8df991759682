// Package handlers implements the HTTP handlers for the ProMesto API.
// Handlers depend on narrow service interfaces so tests can substitute
// in-memory fakes.
package handlers

import (
	"context"

	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/service"
)

// AuthServiceInterface defines the authentication operations used by AuthHandler.
type AuthServiceInterface interface {
	AuthURL(state string) string
	SignInWithGoogle(ctx context.Context, code string) (*models.User, *service.TokenPair, error)
	Refresh(refreshToken string) (*service.TokenPair, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

// PlaceServiceInterface defines the place mutation operations used by PlaceHandler.
type PlaceServiceInterface interface {
	CreatePlace(ctx context.Context, ownerID int64, form *models.PlaceForm) (*models.Place, error)
	UpdatePlace(ctx context.Context, userID, placeID int64, form *models.PlaceForm) (*models.Place, error)
	DeletePlace(ctx context.Context, userID, placeID int64) error
	ToggleVisibility(ctx context.Context, userID, placeID int64) (*models.VisibilityResult, error)
	ToggleFavorite(ctx context.Context, userID, placeID int64) (*models.FavoriteResult, error)
	ToggleLike(ctx context.Context, userID, placeID int64) (*models.LikeResult, error)
}

// QueryServiceInterface defines the list operations used by PlaceHandler and NoteHandler.
type QueryServiceInterface interface {
	ListOwned(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*service.PlacePage, error)
	ListPublic(ctx context.Context, viewerID int64, filter repository.PlaceFilter) (*service.PlacePage, error)
	ListFavorites(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*service.PlacePage, error)
	ListNotes(ctx context.Context, userID int64, page, pageSize int) (*service.NotePage, error)
}

// ViewDBServiceInterface defines the table browser operations used by ViewDBHandler.
type ViewDBServiceInterface interface {
	ListTables(target string) ([]service.TableMeta, error)
	ListRows(ctx context.Context, target, table string, page, pageSize int) ([]map[string]interface{}, int, error)
	CreateRow(ctx context.Context, target, table string, values map[string]interface{}) (int64, error)
	UpdateRow(ctx context.Context, target, table string, id int64, values map[string]interface{}) error
	DeleteRow(ctx context.Context, target, table string, id int64) error
}
