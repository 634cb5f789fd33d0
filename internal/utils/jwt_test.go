package utils

import (
	"testing"

	"earcare-app-server/internal/config"
	"earcare-app-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RoleDoctor}
	user.ID = "user-123"

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	refreshClaims, err := ValidateToken(refreshToken, cfg.JWTRefreshSecret)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.UserID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Role: models.RolePatient}
	user.ID = "user-456"

	accessToken, _, err := GenerateTokens(user, cfg)
	assert.NoError(t, err)

	_, err = ValidateToken(accessToken, "some-other-secret")
	assert.Error(t, err)

	// An access token must not pass as a refresh token
	_, err = ValidateToken(accessToken, cfg.JWTRefreshSecret)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
