// This file implements the query service: the read side of places plus
// the notes dashboard. Storage failures that survive the retry layer are
// tagged as unavailable so handlers answer 503 instead of presenting an
// empty page as truth.
package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/utils"
)

// PlacePage is one page of a place listing.
type PlacePage struct {
	Places []*models.PlaceWithLikes
	Total  int
}

// NotePage is one page of the notes dashboard.
type NotePage struct {
	Notes []*models.Note
	Total int
}

// QueryService serves the place list views and the notes dashboard.
type QueryService struct {
	placeRepo repository.PlaceRepository
	noteRepo  repository.NoteRepository
	cache     *ListCache
}

// NewQueryService creates a new QueryService
func NewQueryService(placeRepo repository.PlaceRepository, noteRepo repository.NoteRepository, cache *ListCache) *QueryService {
	return &QueryService{
		placeRepo: placeRepo,
		noteRepo:  noteRepo,
		cache:     cache,
	}
}

// ListOwned returns a page of the caller's own places, newest first.
func (s *QueryService) ListOwned(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*PlacePage, error) {
	places, total, err := s.placeRepo.ListOwned(ctx, ownerID, filter)
	if err != nil {
		return nil, tagStorageError(err)
	}
	return &PlacePage{Places: places, Total: total}, nil
}

// ListPublic returns a page of all users' PUBLIC places. Anonymous pages
// are served from the list cache when possible; pages for signed-in
// viewers carry per-viewer like state and always hit the database.
func (s *QueryService) ListPublic(ctx context.Context, viewerID int64, filter repository.PlaceFilter) (*PlacePage, error) {
	if viewerID == 0 {
		if places, total, ok := s.cache.Get(filter.Search, filter.Sort, filter.Page, filter.PageSize); ok {
			return &PlacePage{Places: places, Total: total}, nil
		}
	}

	places, total, err := s.placeRepo.ListPublic(ctx, viewerID, filter)
	if err != nil {
		return nil, tagStorageError(err)
	}

	if viewerID == 0 {
		s.cache.Put(filter.Search, filter.Sort, filter.Page, filter.PageSize, places, total)
	}

	return &PlacePage{Places: places, Total: total}, nil
}

// ListFavorites returns a page of the caller's favorite places.
func (s *QueryService) ListFavorites(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*PlacePage, error) {
	places, total, err := s.placeRepo.ListFavorites(ctx, ownerID, filter)
	if err != nil {
		return nil, tagStorageError(err)
	}
	return &PlacePage{Places: places, Total: total}, nil
}

// ListNotes returns a page of the caller's notes.
func (s *QueryService) ListNotes(ctx context.Context, userID int64, page, pageSize int) (*NotePage, error) {
	notes, total, err := s.noteRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, tagStorageError(err)
	}
	return &NotePage{Notes: notes, Total: total}, nil
}

// tagStorageError classifies a read failure. Transient connection errors
// that exhausted their retries become an explicit unavailable error; the
// handler turns that into a 503 so clients can distinguish an outage
// from an empty list.
func tagStorageError(err error) error {
	if database.IsRetryableError(err) {
		log.Error().Err(err).Msg("Storage unavailable after retries")
		return utils.NewUnavailableError(err)
	}
	return err
}
