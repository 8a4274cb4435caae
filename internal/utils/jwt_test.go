package utils

import (
	"testing"

	"marketplace-server/internal/config"
	"marketplace-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationMinutes: 15}
}

func TestGenerateAndValidateToken(t *testing.T) {
	pro := &models.Pro{ProName: "Pat", BusinessName: "Pat's Pipes", Email: "pat@example.com"}
	pro.ID = 12

	token, err := GenerateToken(pro, testConfig())
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, models.Participant{ID: 12, Kind: models.KindPro}, claims.Participant())
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, "Pat's Pipes", claims.Name)
	assert.Equal(t, "Pro:12", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := &models.User{FirstName: "Ula", Email: "ula@example.com"}
	user.ID = 3

	token, err := TokenIssuer(testConfig())(user)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.JWTExpirationMinutes = -1
	user := &models.User{FirstName: "Ula", Email: "ula@example.com"}
	user.ID = 3

	token, err := GenerateToken(user, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, cfg.JWTSecret)
	assert.Error(t, err)
}
