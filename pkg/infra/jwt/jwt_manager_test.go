package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/config"
)

func TestJwtManager_RoundTrip(t *testing.T) {
	manager := NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})

	token, err := manager.CreateToken(0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, manager.ValidateToken(token))

	claims, err := manager.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Nil(t, claims.ExpiresAt)
}

func TestJwtManager_TokenWithTTL(t *testing.T) {
	manager := NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})

	token, err := manager.CreateToken(time.Hour)
	require.NoError(t, err)
	assert.NoError(t, manager.ValidateToken(token))

	claims, err := manager.DecodeToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJwtManager_ExpiredToken(t *testing.T) {
	manager := NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})

	token, err := manager.CreateToken(time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.ErrorIs(t, manager.ValidateToken(token), ErrExpiredToken)
}

func TestJwtManager_ForgedToken(t *testing.T) {
	minter := NewJwtManager(&config.ServerConfig{SecretKey: "attacker-secret"})
	manager := NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})

	token, err := minter.CreateToken(0)
	require.NoError(t, err)

	assert.ErrorIs(t, manager.ValidateToken(token), ErrInvalidToken)
}

func TestJwtManager_MalformedToken(t *testing.T) {
	manager := NewJwtManager(&config.ServerConfig{SecretKey: "test-secret"})

	assert.ErrorIs(t, manager.ValidateToken("not.a.token"), ErrInvalidToken)
}
