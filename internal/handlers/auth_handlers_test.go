package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/service"
	"github.com/promesto/backend/internal/utils"
)

func TestGetGoogleAuthURL(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{})

	request := httptest.NewRequest(http.MethodGet, "/api/auth/google/url", nil)
	recorder := doRequest(t, handler.GetGoogleAuthURL, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "accounts.google.com")
	assert.Contains(t, recorder.Body.String(), `"state"`)
}

func TestGoogleSignIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authService := &fakeAuthService{
			user:   &models.User{ID: 7, Email: "user@example.com", Name: "User"},
			tokens: &service.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"},
		}
		handler := NewAuthHandler(authService)

		body := strings.NewReader(`{"code": "auth-code"}`)
		request := httptest.NewRequest(http.MethodPost, "/api/auth/google", body)
		recorder := doRequest(t, handler.GoogleSignIn, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "access-token")
		assert.Contains(t, recorder.Body.String(), "user@example.com")

		// The access token also lands in the fallback cookie
		cookies := recorder.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, constants.AuthTokenCookie, cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("MissingCodeFailsValidation", func(t *testing.T) {
		handler := NewAuthHandler(&fakeAuthService{})

		request := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{}`))
		recorder := doRequest(t, handler.GoogleSignIn, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("BadCodeIs400", func(t *testing.T) {
		authService := &fakeAuthService{authErr: utils.NewBadRequestError("Invalid or expired authorization code")}
		handler := NewAuthHandler(authService)

		body := strings.NewReader(`{"code": "stale-code"}`)
		request := httptest.NewRequest(http.MethodPost, "/api/auth/google", body)
		recorder := doRequest(t, handler.GoogleSignIn, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid or expired authorization code")
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authService := &fakeAuthService{
			tokens: &service.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"},
		}
		handler := NewAuthHandler(authService)

		body := strings.NewReader(`{"refresh_token": "old-refresh"}`)
		request := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", body)
		recorder := doRequest(t, handler.RefreshToken, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "new-access")
	})

	t.Run("InvalidTokenIs401", func(t *testing.T) {
		authService := &fakeAuthService{authErr: utils.NewInvalidTokenError()}
		handler := NewAuthHandler(authService)

		body := strings.NewReader(`{"refresh_token": "garbage"}`)
		request := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", body)
		recorder := doRequest(t, handler.RefreshToken, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestCheckAuth(t *testing.T) {
	t.Run("Anonymous", func(t *testing.T) {
		handler := NewAuthHandler(&fakeAuthService{})

		request := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
		recorder := doRequest(t, handler.CheckAuth, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"authenticated":false`)
	})

	t.Run("SignedIn", func(t *testing.T) {
		authService := &fakeAuthService{user: &models.User{ID: 7, Email: "user@example.com", Name: "User"}}
		handler := NewAuthHandler(authService)

		request := asUser(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil), 7)
		recorder := doRequest(t, handler.CheckAuth, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"authenticated":true`)
		assert.Contains(t, recorder.Body.String(), "user@example.com")
	})

	t.Run("DeletedAccountReadsAsAnonymous", func(t *testing.T) {
		handler := NewAuthHandler(&fakeAuthService{})

		request := asUser(httptest.NewRequest(http.MethodGet, "/api/auth/check", nil), 42)
		recorder := doRequest(t, handler.CheckAuth, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"authenticated":false`)
	})
}

func TestGetCurrentUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authService := &fakeAuthService{user: &models.User{ID: 7, Email: "user@example.com", Name: "User"}}
		handler := NewAuthHandler(authService)

		request := asUser(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), 7)
		recorder := doRequest(t, handler.GetCurrentUser, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "user@example.com")
	})

	t.Run("AnonymousIs401", func(t *testing.T) {
		handler := NewAuthHandler(&fakeAuthService{})

		request := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		recorder := doRequest(t, handler.GetCurrentUser, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
