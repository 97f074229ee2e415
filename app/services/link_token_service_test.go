package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	service := NewLinkTokenService()

	token, err := service.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	t.Run("tokens are URL safe", func(t *testing.T) {
		assert.False(t, strings.ContainsAny(token, "+/="))
	})

	t.Run("tokens do not repeat", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			tok, err := service.GenerateToken()
			require.NoError(t, err)
			assert.False(t, seen[tok])
			seen[tok] = true
		}
	})
}
