package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
}

// NewTokenService creates a new TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	if secret == "" {
		// The service cannot function without a secret, so panic on startup.
		panic("JWT secret not configured")
	}
	return &TokenService{secretKey: []byte(secret)}
}

// GenerateTokenPair creates a new access and refresh token pair. The returned
// token ID is the jti of the refresh token, persisted for revocation.
func (s *TokenService) GenerateTokenPair(userID, email, role string) (*TokenPair, string, error) {
	accessToken, err := s.generateToken(userID, email, role, "access", AccessTokenTTL, "")
	if err != nil {
		return nil, "", err
	}

	tokenID := uuid.NewString()
	refreshToken, err := s.generateToken(userID, email, role, "refresh", RefreshTokenTTL, tokenID)
	if err != nil {
		return nil, "", err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, tokenID, nil
}

// ValidateToken parses and validates any given token string.
func (s *TokenService) ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

func (s *TokenService) generateToken(userID, email, role, tokenType string, duration time.Duration, tokenID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"typ":   tokenType,
		"exp":   time.Now().Add(duration).Unix(),
		"iat":   time.Now().Unix(),
	}
	if tokenType == "refresh" && tokenID != "" {
		claims["jti"] = tokenID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}
