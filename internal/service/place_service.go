// This file implements the place service: the mutation side of places
// (create, update, delete, the visibility and favorite toggles) and the
// like toggle. Every operation authenticates through the caller-supplied
// user ID and authorizes against the place's owner before mutating.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/utils"
)

// PlaceService handles place mutations and the like toggle.
type PlaceService struct {
	placeRepo repository.PlaceRepository
	likeRepo  repository.LikeRepository
	cache     *ListCache
}

// NewPlaceService creates a new PlaceService
func NewPlaceService(placeRepo repository.PlaceRepository, likeRepo repository.LikeRepository, cache *ListCache) *PlaceService {
	return &PlaceService{
		placeRepo: placeRepo,
		likeRepo:  likeRepo,
		cache:     cache,
	}
}

// CreatePlace creates a new place for the given owner.
func (s *PlaceService) CreatePlace(ctx context.Context, ownerID int64, form *models.PlaceForm) (*models.Place, error) {
	place := &models.Place{
		OwnerID:    ownerID,
		CategoryID: form.CategoryID,
		Title:      form.Title,
		Content:    form.Content,
		Visibility: form.Visibility(),
	}

	if err := s.placeRepo.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	s.cache.Invalidate()
	return place, nil
}

// UpdatePlace rewrites the editable fields of a place owned by the caller.
func (s *PlaceService) UpdatePlace(ctx context.Context, userID, placeID int64, form *models.PlaceForm) (*models.Place, error) {
	place, err := s.authorizeOwner(ctx, userID, placeID)
	if err != nil {
		return nil, err
	}

	place.Title = form.Title
	place.Content = form.Content
	place.CategoryID = form.CategoryID
	place.Visibility = form.Visibility()

	if err := s.placeRepo.Update(ctx, place); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return place, nil
}

// DeletePlace removes a place owned by the caller.
func (s *PlaceService) DeletePlace(ctx context.Context, userID, placeID int64) error {
	if _, err := s.authorizeOwner(ctx, userID, placeID); err != nil {
		return err
	}

	if err := s.placeRepo.Delete(ctx, placeID); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

// ToggleVisibility flips a place between PRIVATE and PUBLIC and returns
// the new public state.
func (s *PlaceService) ToggleVisibility(ctx context.Context, userID, placeID int64) (*models.VisibilityResult, error) {
	place, err := s.authorizeOwner(ctx, userID, placeID)
	if err != nil {
		return nil, err
	}

	visibility := constants.VisibilityPublic
	if place.IsPublic() {
		visibility = constants.VisibilityPrivate
	}

	if err := s.placeRepo.SetVisibility(ctx, placeID, visibility); err != nil {
		return nil, err
	}

	log.Info().
		Int64(constants.ColumnPlaceID, placeID).
		Str("visibility", visibility).
		Msg("Place visibility toggled")

	s.cache.Invalidate()
	return &models.VisibilityResult{IsPublic: visibility == constants.VisibilityPublic}, nil
}

// ToggleFavorite flips the owner's favorite flag on a place and returns
// the new state.
func (s *PlaceService) ToggleFavorite(ctx context.Context, userID, placeID int64) (*models.FavoriteResult, error) {
	place, err := s.authorizeOwner(ctx, userID, placeID)
	if err != nil {
		return nil, err
	}

	favorite := !place.IsFavorite
	if err := s.placeRepo.SetFavorite(ctx, placeID, favorite); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return &models.FavoriteResult{IsFavorite: favorite}, nil
}

// ToggleLike adds or removes the caller's like on a public place and
// returns the new state with a freshly counted total. Only PUBLIC places
// can be liked; the owner gets the same rejection as anyone else when
// the place is private.
func (s *PlaceService) ToggleLike(ctx context.Context, userID, placeID int64) (*models.LikeResult, error) {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if !place.IsPublic() {
		return nil, utils.NewBadRequestError(constants.MsgOnlyPublicLikeable)
	}

	liked := false
	_, err = s.likeRepo.GetByUserAndPlace(ctx, userID, placeID)
	switch {
	case err == nil:
		// Already liked: remove. A concurrent toggle may have removed it
		// first, in which case the end state is the same.
		if err := s.likeRepo.Delete(ctx, userID, placeID); err != nil && !utils.IsNotFoundError(err) {
			return nil, err
		}
	case utils.IsNotFoundError(err):
		// Not yet liked: add. A duplicate from a concurrent toggle means
		// the like already exists, which is the state we wanted.
		like := &models.Like{UserID: userID, PlaceID: placeID}
		if err := s.likeRepo.Create(ctx, like); err != nil {
			var appErr *utils.AppError
			if !errors.As(err, &appErr) || !errors.Is(appErr.Err, utils.ErrDuplicate) {
				return nil, err
			}
		}
		liked = true
	default:
		return nil, err
	}

	// Count after the mutation so the client renders the real total, not
	// an increment over a stale value
	count, err := s.likeRepo.CountByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return &models.LikeResult{Liked: liked, LikesCount: count}, nil
}

// authorizeOwner loads a place and verifies the caller owns it.
//
// The check and the following mutation are separate statements, so an
// owner change or deletion can land in between; the mutation then fails
// with NotFound rather than corrupting another user's data, which is an
// accepted outcome of keeping the flow lock-free.
func (s *PlaceService) authorizeOwner(ctx context.Context, userID, placeID int64) (*models.Place, error) {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if !place.IsOwnedBy(userID) {
		log.Warn().
			Int64(constants.ColumnPlaceID, placeID).
			Int64("user_id", userID).
			Int64("owner_id", place.OwnerID).
			Msg("Rejected mutation of another user's place")
		return nil, utils.NewForbiddenError(constants.MsgAccessDenied)
	}

	return place, nil
}
