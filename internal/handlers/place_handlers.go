package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/utils"
)

// PlaceHandler handles place routes: the three list views, CRUD, and
// the visibility, favorite, and like toggles.
type PlaceHandler struct {
	placeService PlaceServiceInterface
	queryService QueryServiceInterface
}

// NewPlaceHandler creates a new PlaceHandler
func NewPlaceHandler(placeService PlaceServiceInterface, queryService QueryServiceInterface) *PlaceHandler {
	return &PlaceHandler{
		placeService: placeService,
		queryService: queryService,
	}
}

// ListMine returns a page of the caller's own places. An anonymous
// caller gets an empty page rather than an error so the client can
// render the view before sign-in completes.
func (h *PlaceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		emptyPage(w, r)
		return
	}

	filter := placeFilter(r)
	page, err := h.queryService.ListOwned(r.Context(), userID, filter)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, page.Places, filter.Page, filter.PageSize, page.Total)
}

// ListPublic returns a page of everyone's PUBLIC places. Signed-in
// viewers additionally get their own like state per place.
func (h *PlaceHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.GetUserID(r)

	filter := placeFilter(r)
	page, err := h.queryService.ListPublic(r.Context(), viewerID, filter)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, page.Places, filter.Page, filter.PageSize, page.Total)
}

// ListFavorites returns a page of the caller's favorite places, with
// the same anonymous empty-page behavior as ListMine.
func (h *PlaceHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		emptyPage(w, r)
		return
	}

	filter := placeFilter(r)
	page, err := h.queryService.ListFavorites(r.Context(), userID, filter)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, page.Places, filter.Page, filter.PageSize, page.Total)
}

// CreatePlace creates a new place owned by the caller
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var form models.PlaceForm
	if err := utils.DecodeAndValidate(r, &form); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	place, err := h.placeService.CreatePlace(r.Context(), userID, &form)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, place)
}

// UpdatePlace rewrites a place owned by the caller
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	placeID, err := placeIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var form models.PlaceForm
	if err := utils.DecodeAndValidate(r, &form); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	place, err := h.placeService.UpdatePlace(r.Context(), userID, placeID, &form)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, place)
}

// DeletePlace removes a place owned by the caller
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	placeID, err := placeIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.placeService.DeletePlace(r.Context(), userID, placeID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// ToggleVisibility flips a place between PRIVATE and PUBLIC
func (h *PlaceHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	placeID, err := placeIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.placeService.ToggleVisibility(r.Context(), userID, placeID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// ToggleFavorite flips the caller's favorite flag on a place
func (h *PlaceHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	placeID, err := placeIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.placeService.ToggleFavorite(r.Context(), userID, placeID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// ToggleLike adds or removes the caller's like on a public place
func (h *PlaceHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgSignInToLike)
		return
	}

	placeID, err := placeIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.placeService.ToggleLike(r.Context(), userID, placeID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// placeIDParam parses the place ID from the URL path.
func placeIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constants.ParamID)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, utils.NewBadRequestError("Invalid place ID")
	}
	return id, nil
}

// placeFilter builds the list filter from query parameters. Unknown
// sort values fall back to the recent ordering.
func placeFilter(r *http.Request) repository.PlaceFilter {
	params := utils.GetPaginationParams(r)

	sort := r.URL.Query().Get(constants.QueryParamSort)
	if sort != constants.SortPopular {
		sort = constants.SortRecent
	}

	return repository.PlaceFilter{
		Search:   r.URL.Query().Get(constants.QueryParamSearch),
		Sort:     sort,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}

// emptyPage answers a list request from an anonymous caller.
func emptyPage(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)
	utils.Paginated(w, http.StatusOK, []*models.PlaceWithLikes{}, params.Page, params.PageSize, 0)
}
