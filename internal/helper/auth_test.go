package helper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Parallel()

	auth := SetupAuth("test-secret")

	token, err := auth.GenerateToken(42, "ali@vu.edu.pk")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ali@vu.edu.pk", claims.Email)
	assert.Greater(t, claims.Expiry, claims.Iat)
}

func TestVerifyToken_BearerPrefix(t *testing.T) {
	t.Parallel()

	auth := SetupAuth("test-secret")

	token, err := auth.GenerateToken(7, "sara@vu.edu.pk")
	require.NoError(t, err)

	claims, err := auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	// malformed bearer header yields no identity
	_, err = auth.VerifyToken("Bearer ")
	assert.Error(t, err)
}

func TestVerifyToken_Invalid(t *testing.T) {
	t.Parallel()

	auth := SetupAuth("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", mustToken(t, SetupAuth("other-secret"), 1, "x@vu.edu.pk")},
		{"expired", signClaims(t, "test-secret", jwt.MapClaims{
			"user_id": 1,
			"email":   "x@vu.edu.pk",
			"iat":     time.Now().Add(-2 * time.Hour).Unix(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})},
		{"no expiry claim", signClaims(t, "test-secret", jwt.MapClaims{
			"user_id": 1,
			"email":   "x@vu.edu.pk",
		})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.VerifyToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateToken_MissingInputs(t *testing.T) {
	t.Parallel()

	auth := SetupAuth("test-secret")

	_, err := auth.GenerateToken(0, "x@vu.edu.pk")
	assert.Error(t, err)

	_, err = auth.GenerateToken(1, "")
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	auth := SetupAuth("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	assert.NoError(t, auth.VerifyPassword("correct horse", string(hash)))
	assert.Error(t, auth.VerifyPassword("wrong horse", string(hash)))
}

func mustToken(t *testing.T, auth Auth, userID int, email string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, email)
	require.NoError(t, err)
	return token
}

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
