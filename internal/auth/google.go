// This file implements the Google OAuth code exchange. The frontend sends
// the user through Google's consent screen, then posts the authorization
// code here; we trade it for an access token, fetch the user's profile,
// and require a verified email before treating it as an identity.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/config"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// Google endpoint URLs. Variables so tests can point them at a local server.
var (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleIdentity is the verified identity returned by a successful code
// exchange.
type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier exchanges Google OAuth authorization codes for verified
// user identities.
type GoogleVerifier struct {
	config     *config.GoogleOAuthSettings
	httpClient *http.Client
}

// NewGoogleVerifier creates a Google OAuth verifier from the configured
// client credentials.
func NewGoogleVerifier(cfg *config.GoogleOAuthSettings) *GoogleVerifier {
	return &GoogleVerifier{
		config:     cfg,
		httpClient: &http.Client{Timeout: constants.GoogleHTTPTimeout},
	}
}

// AuthURL builds the consent screen URL the frontend redirects to.
func (v *GoogleVerifier) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", v.config.ClientID)
	params.Set("redirect_uri", v.config.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("state", state)

	return googleAuthURL + "?" + params.Encode()
}

// tokenResponse represents the response from Google's token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// userinfoResponse represents the response from Google's userinfo endpoint.
type userinfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// VerifyCode exchanges an authorization code for a verified identity.
//
// Returns:
//   - The identity on success
//   - BadRequestError for an invalid or expired code
//   - UnauthorizedError when the Google account's email is unverified
//   - Other errors when Google is unreachable
func (v *GoogleVerifier) VerifyCode(ctx context.Context, code string) (*GoogleIdentity, error) {
	// Exchange the code for an access token
	accessToken, err := v.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// Fetch the user's profile
	userinfo, err := v.fetchUserinfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// Only verified emails may become accounts
	if !userinfo.VerifiedEmail {
		log.Warn().
			Str("email", utils.MaskEmail(userinfo.Email)).
			Msg("Google sign-in rejected: unverified email")
		return nil, utils.NewUnauthorizedError("Google account email is not verified")
	}

	return &GoogleIdentity{
		Email:   userinfo.Email,
		Name:    userinfo.Name,
		Picture: userinfo.Picture,
	}, nil
}

// exchangeCode trades the authorization code for an access token.
func (v *GoogleVerifier) exchangeCode(ctx context.Context, code string) (string, error) {
	// Build the form body
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", v.config.ClientID)
	data.Set("client_secret", v.config.ClientSecret)
	data.Set("redirect_uri", v.config.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Google token exchange failed")
		return "", fmt.Errorf("failed to reach Google token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Msg("Google token exchange rejected")

		// 400 responses are invalid or expired codes, a client problem
		if resp.StatusCode == http.StatusBadRequest {
			return "", utils.NewBadRequestError("Invalid or expired authorization code")
		}
		return "", fmt.Errorf("google token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	return tokenResp.AccessToken, nil
}

// fetchUserinfo fetches the user's profile with the access token.
func (v *GoogleVerifier) fetchUserinfo(ctx context.Context, accessToken string) (*userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Google userinfo request failed")
		return nil, fmt.Errorf("failed to reach Google userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Msg("Google userinfo request rejected")
		return nil, fmt.Errorf("google userinfo endpoint returned status %d", resp.StatusCode)
	}

	var userinfo userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&userinfo); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}

	if userinfo.ID == "" || userinfo.Email == "" {
		return nil, fmt.Errorf("userinfo response missing required fields")
	}

	return &userinfo, nil
}
