package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

var (
	ErrNoSecret     = errors.New("JWT secret not configured")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("invalid token type")
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

func signingKey() []byte {
	secretOnce.Do(func() {
		_ = godotenv.Load()
		if s := strings.TrimSpace(os.Getenv("JWT_SECRET")); s != "" {
			secretKey = []byte(s)
		}
	})
	return secretKey
}

// ParseAndValidateToken verifies an HMAC-signed JWT and returns its claims.
// When expectedType is non-empty, the "typ" claim must match it, so an
// access token cannot be replayed against the refresh endpoint or vice versa.
func ParseAndValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	key := signingKey()
	if key == nil {
		return nil, ErrNoSecret
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if expectedType != "" {
		if typ, _ := claims["typ"].(string); typ != expectedType {
			return nil, ErrWrongType
		}
	}
	return claims, nil
}
