package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// AuthHandler handles authentication and profile routes
type AuthHandler struct {
	authService AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// GetGoogleAuthURL returns the Google consent screen URL along with the
// CSRF state the client must echo back after the redirect.
func (h *AuthHandler) GetGoogleAuthURL(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()

	utils.JSON(w, http.StatusOK, map[string]string{
		"url":   h.authService.AuthURL(state),
		"state": state,
	})
}

// GoogleSignIn exchanges a Google authorization code for a local session.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, tokens, err := h.authService.SignInWithGoogle(r.Context(), req.Code)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Cookie fallback for clients that don't manage the header themselves
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AuthTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// RefreshToken trades a valid refresh token for a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, tokens)
}

// CheckAuth reports whether the request carries a valid session. It
// never fails: anonymous callers get authenticated=false.
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		// The token refers to an account that no longer exists
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

// GetCurrentUser returns the signed-in user's profile
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}
