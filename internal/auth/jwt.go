package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/promesto/backend/internal/config"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/utils"
)

// JWT errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrInvalidTokenClaims   = errors.New("invalid token claims")
)

// CustomClaims represents the claims in a JWT token
type CustomClaims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// JWTValidator defines the interface for JWT validation
type JWTValidator interface {
	// ValidateToken validates a JWT token and returns its claims if valid
	ValidateToken(tokenString string, expectedType string) (*CustomClaims, error)
}

// JWTService provides JWT token generation and validation functionality
type JWTService struct {
	config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.JWTSettings) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// GenerateAccessToken generates a new JWT access token for a user
func (s *JWTService) GenerateAccessToken(userID int64, email, name string) (string, string, error) {
	return s.generateToken(userID, email, name, constants.TokenTypeAccess, s.config.Expiry)
}

// GenerateRefreshToken generates a new JWT refresh token for a user
func (s *JWTService) GenerateRefreshToken(userID int64, email, name string) (string, string, error) {
	return s.generateToken(userID, email, name, constants.TokenTypeRefresh, s.config.RefreshExpiry)
}

// generateToken creates a new JWT token with the provided parameters
func (s *JWTService) generateToken(userID int64, email, name, tokenType string, expiry time.Duration) (string, string, error) {
	// Generate a unique token ID
	jwtID := uuid.New().String()

	// Create claims with user information and expiry time
	now := time.Now()
	claims := CustomClaims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID,
		},
	}

	// Create the token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Sign the token with the secret key
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a JWT token and returns its claims if valid
func (s *JWTService) ValidateToken(tokenString string, expectedType string) (*CustomClaims, error) {
	// Parse the token
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.config.Secret), nil
	})

	// Handle parsing errors
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	// Check if the token is valid
	if !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	// Extract and validate the claims
	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, utils.NewInvalidTokenError()
	}

	// Validate the token type
	if claims.TokenType != expectedType {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// RefreshTokens validates a refresh token and issues a new access and
// refresh token pair for the same identity.
func (s *JWTService) RefreshTokens(refreshToken string) (string, string, error) {
	// Validate the refresh token
	claims, err := s.ValidateToken(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	// Generate new tokens
	accessToken, _, err := s.GenerateAccessToken(claims.UserID, claims.Email, claims.Name)
	if err != nil {
		return "", "", err
	}

	newRefreshToken, _, err := s.GenerateRefreshToken(claims.UserID, claims.Email, claims.Name)
	if err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}
