package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/utils/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("WithinBudget", func(t *testing.T) {
		store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 1, Burst: 2}, time.Minute)
		handler := RateLimit(store, "api")(okHandler())

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/places/public", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("ExceededBudgetIs429", func(t *testing.T) {
		store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 1}, time.Minute)
		handler := RateLimit(store, "api")(okHandler())

		request := httptest.NewRequest(http.MethodGet, "/api/places/public", nil)
		request.RemoteAddr = "10.0.0.1:54321"

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
		assert.Equal(t, "60", recorder.Header().Get("Retry-After"))
	})

	t.Run("ClientsAreIndependent", func(t *testing.T) {
		store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 1}, time.Minute)
		handler := RateLimit(store, "api")(okHandler())

		first := httptest.NewRequest(http.MethodGet, "/api/places/public", nil)
		first.RemoteAddr = "10.0.0.1:54321"
		second := httptest.NewRequest(http.MethodGet, "/api/places/public", nil)
		second.RemoteAddr = "10.0.0.2:54321"

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, first)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, first)
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

		// The second client still has its own budget
		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, second)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("SignedInCallerIsKeyedByUserID", func(t *testing.T) {
		store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 1}, time.Minute)
		handler := RateLimit(store, "api")(okHandler())

		// Two requests from the same IP but different users
		makeRequest := func(userID int64) *http.Request {
			request := httptest.NewRequest(http.MethodGet, "/api/places/mine", nil)
			request.RemoteAddr = "10.0.0.1:54321"
			ctx := context.WithValue(request.Context(), auth.UserIDContextKey, userID)
			return request.WithContext(ctx)
		}

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, makeRequest(1))
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = httptest.NewRecorder()
		handler.ServeHTTP(recorder, makeRequest(2))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "RemoteAddrOnly",
			remoteAddr: "10.0.0.1:54321",
			expected:   "10.0.0.1",
		},
		{
			name:       "XForwardedForWins",
			remoteAddr: "10.0.0.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			expected:   "203.0.113.7",
		},
		{
			name:       "XRealIPFallback",
			remoteAddr: "10.0.0.1:54321",
			headers:    map[string]string{"X-Real-IP": "203.0.113.8"},
			expected:   "203.0.113.8",
		},
		{
			name:       "AddrWithoutPort",
			remoteAddr: "10.0.0.9",
			expected:   "10.0.0.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				request.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, ClientIP(request))
		})
	}
}
