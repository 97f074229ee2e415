// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	t.Run("valid symmetric key configuration", func(t *testing.T) {
		service, err := createTestTokenService()
		assert.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("missing secret key", func(t *testing.T) {
		service, err := NewTokenService(
			15*time.Minute,
			7*24*time.Hour,
			"test-issuer",
			"test-audience",
			false,
			"",
			"",
			"",
		)
		assert.Error(t, err)
		assert.Nil(t, service)
	})

	t.Run("RSA mode without keys", func(t *testing.T) {
		service, err := NewTokenService(
			15*time.Minute,
			7*24*time.Hour,
			"test-issuer",
			"test-audience",
			true,
			"",
			"",
			"",
		)
		assert.Error(t, err)
		assert.Nil(t, service)
	})
}

func TestGenerateAndValidateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	t.Run("access token claims", func(t *testing.T) {
		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.PhotographerID)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))
	})

	t.Run("refresh token claims", func(t *testing.T) {
		claims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.PhotographerID)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		claims, err := service.ValidateToken("not.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("token signed with another key rejected", func(t *testing.T) {
		other, err := NewTokenService(
			15*time.Minute,
			7*24*time.Hour,
			"test-issuer",
			"test-audience",
			false,
			"",
			"",
			"another-secret-key-for-jwt-signing-32ch",
		)
		require.NoError(t, err)

		foreign, _, err := other.GenerateTokens(42)
		require.NoError(t, err)

		claims, err := service.ValidateToken(foreign)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refreshToken, err := service.GenerateTokens(7)
	require.NoError(t, err)

	t.Run("refresh produces a fresh valid pair", func(t *testing.T) {
		newAccess, newRefresh, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.PhotographerID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokens(7)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("expired refresh token rejected", func(t *testing.T) {
		shortLived, err := NewTokenService(
			-1*time.Minute,
			-1*time.Minute,
			"test-issuer",
			"test-audience",
			false,
			"",
			"",
			"test-secret-key-for-jwt-signing-32-chars",
		)
		require.NoError(t, err)

		_, expiredRefresh, err := shortLived.GenerateTokens(7)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(expiredRefresh)
		assert.Error(t, err)
	})
}
