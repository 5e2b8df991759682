// Package service implements the application's business logic, sitting
// between the HTTP handlers and the repositories.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/utils"
)

// CodeVerifier abstracts the OAuth code exchange so tests can stub Google.
type CodeVerifier interface {
	// AuthURL builds the consent screen URL for the given CSRF state.
	AuthURL(state string) string

	// VerifyCode exchanges an authorization code for a verified identity.
	VerifyCode(ctx context.Context, code string) (*auth.GoogleIdentity, error)
}

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles sign-in, session issuance, and profile lookups.
type AuthService struct {
	verifier   CodeVerifier
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(verifier CodeVerifier, userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		verifier:   verifier,
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// AuthURL returns the Google consent screen URL for the given CSRF state.
func (s *AuthService) AuthURL(state string) string {
	return s.verifier.AuthURL(state)
}

// SignInWithGoogle exchanges an authorization code for a local session.
// The verified identity is upserted so a returning user keeps their
// account while their name and avatar stay current.
func (s *AuthService) SignInWithGoogle(ctx context.Context, code string) (*models.User, *TokenPair, error) {
	// Verify the code with Google
	identity, err := s.verifier.VerifyCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	// Create or refresh the account
	user := models.NewUser(identity.Email, identity.Name, identity.Picture)
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	// Issue the session tokens
	accessToken, _, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User signed in with Google")

	return user, &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh trades a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	accessToken, newRefreshToken, err := s.jwtService.RefreshTokens(refreshToken)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// GetProfile returns the account behind an authenticated request.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
