package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/config"
	"prowork_backend/internal/models"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func TestTokenRoundTrip(t *testing.T) {
	setupTestConfig(t)

	token, err := GenerateToken("u1", models.UserRoleProvider)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.UserRoleProvider, claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	setupTestConfig(t)

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	setupTestConfig(t)

	token, err := GenerateToken("u1", models.UserRoleCustomer)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "другой-секрет"
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
