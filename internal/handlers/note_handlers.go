package handlers

import (
	"net/http"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// NoteHandler handles the notes dashboard routes
type NoteHandler struct {
	queryService QueryServiceInterface
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(queryService QueryServiceInterface) *NoteHandler {
	return &NoteHandler{
		queryService: queryService,
	}
}

// ListNotes returns a page of the caller's notes, newest first
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	params := utils.GetPaginationParams(r)
	page, err := h.queryService.ListNotes(r.Context(), userID, params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, page.Notes, params.Page, params.PageSize, page.Total)
}
