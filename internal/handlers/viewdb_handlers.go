package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// ViewDBHandler handles the admin table browser routes. Every route is
// behind authentication plus the admin key gate; the handler itself
// only translates between HTTP and the table browser service.
type ViewDBHandler struct {
	viewDBService ViewDBServiceInterface
}

// NewViewDBHandler creates a new ViewDBHandler
func NewViewDBHandler(viewDBService ViewDBServiceInterface) *ViewDBHandler {
	return &ViewDBHandler{
		viewDBService: viewDBService,
	}
}

// ListTables returns the metadata of every browsable table for a target
func (h *ViewDBHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, constants.ParamTarget)

	tables, err := h.viewDBService.ListTables(target)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, tables)
}

// ListRows returns one page of rows from a browsable table
func (h *ViewDBHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, constants.ParamTarget)
	table := chi.URLParam(r, constants.ParamTable)
	params := utils.GetPaginationParams(r)

	rows, total, err := h.viewDBService.ListRows(r.Context(), target, table, params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, rows, params.Page, params.PageSize, total)
}

// CreateRow inserts a row from the submitted field values
func (h *ViewDBHandler) CreateRow(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, constants.ParamTarget)
	table := chi.URLParam(r, constants.ParamTable)

	var values map[string]interface{}
	if err := utils.DecodeJSON(r, &values); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	id, err := h.viewDBService.CreateRow(r.Context(), target, table, values)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateRow rewrites the submitted fields of a row
func (h *ViewDBHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, constants.ParamTarget)
	table := chi.URLParam(r, constants.ParamTable)

	id, err := rowIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var values map[string]interface{}
	if err := utils.DecodeJSON(r, &values); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.viewDBService.UpdateRow(r.Context(), target, table, id, values); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

// DeleteRow removes a row by ID
func (h *ViewDBHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, constants.ParamTarget)
	table := chi.URLParam(r, constants.ParamTable)

	id, err := rowIDParam(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.viewDBService.DeleteRow(r.Context(), target, table, id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// rowIDParam parses the row ID from the URL path.
func rowIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constants.ParamID)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, utils.NewBadRequestError("Invalid row ID")
	}
	return id, nil
}
