// This file implements the admin gate for the table browser. The key
// travels in the X-Admin-Key header and is checked against a bcrypt hash
// from configuration, so the plaintext key never lives on the server.
package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/promesto/backend/internal/config"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// RequireAdminKey is a middleware that checks the X-Admin-Key header
// against the configured bcrypt hash. It assumes the caller is already
// authenticated; an empty configured hash disables the surface entirely.
func RequireAdminKey(cfg *config.AdminSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.KeyHash == "" {
				log.Warn().
					Str("path", r.URL.Path).
					Msg("Admin surface requested but no admin key is configured")
				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}

			key := r.Header.Get(constants.HeaderXAdminKey)
			if key == "" {
				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(cfg.KeyHash), []byte(key)); err != nil {
				userID, _ := GetUserID(r)
				log.Warn().
					Int64("user_id", userID).
					Str("path", r.URL.Path).
					Msg("Admin key rejected")
				utils.Forbidden(w, constants.MsgAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
