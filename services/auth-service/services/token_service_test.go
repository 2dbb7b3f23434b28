package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenPair(t *testing.T) {
	svc := NewTokenService("test-secret")

	pair, tokenID, err := svc.GenerateTokenPair("user-1", "test@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	accessClaims, err := svc.ValidateToken(pair.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims["sub"])
	assert.Equal(t, "test@example.com", accessClaims["email"])
	assert.Equal(t, "user", accessClaims["role"])

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken, "refresh")
	require.NoError(t, err)
	assert.Equal(t, tokenID, refreshClaims["jti"])

	// Token types are not interchangeable.
	_, err = svc.ValidateToken(pair.AccessToken, "refresh")
	assert.Error(t, err)
	_, err = svc.ValidateToken(pair.RefreshToken, "access")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	pair, _, err := issuer.GenerateTokenPair("user-1", "test@example.com", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(pair.AccessToken, "access")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret")

	claims := jwt.MapClaims{
		"sub": "user-1",
		"typ": "access",
		"exp": time.Now().Add(-time.Minute).Unix(),
		"iat": time.Now().Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed, "access")
	assert.Error(t, err)
}

func TestGenerateRandomCodeLength(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := GenerateRandomCode(6)
		assert.Len(t, code, 6)
		seen[code] = true
	}
	// 20 draws of a 6-digit code colliding into one value means a broken RNG.
	assert.Greater(t, len(seen), 1)
}
