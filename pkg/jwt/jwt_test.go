package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("player-1", "Alice", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "player-1", claims.PlayerID)
	assert.Equal(t, "Alice", claims.PlayerName)
	assert.False(t, claims.Admin)
}

func TestVerify_AdminClaim(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("ops-1", "Ops", true)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestVerify_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.Generate("player-1", "Alice", false)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate("player-1", "Alice", false)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	_, err := manager.Verify("not-a-token")
	assert.Error(t, err)
}
