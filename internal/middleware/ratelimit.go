package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/utils"
	"github.com/promesto/backend/internal/utils/ratelimit"
)

// RateLimit limits requests per client in the given category. Signed-in
// callers are keyed by user ID so shared NATs do not pool their budget;
// anonymous callers fall back to the client IP.
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientKey(r)

			if !store.Allow(clientID, category) {
				log.Warn().
					Str("client", clientID).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", "60")
				utils.Error(w, http.StatusTooManyRequests, "too_many_requests",
					"Rate limit exceeded. Please try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller for rate limiting purposes.
func clientKey(r *http.Request) string {
	if userID, ok := auth.GetUserID(r); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + ClientIP(r)
}

// ClientIP extracts the client IP address from the request, taking
// common proxy headers into account.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The leftmost entry is the original client
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
