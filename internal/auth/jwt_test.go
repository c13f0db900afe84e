package auth

import (
	"testing"

	"transition-hub-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	user := &models.User{
		ID:        42,
		CompanyID: 7,
		Email:     "carla@autogroup.example",
		Role:      models.RoleEditor,
	}

	tokenStr, err := GenerateToken(secret, user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*JWTCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(7), claims.CompanyID)
	assert.Equal(t, models.RoleEditor, claims.Role)
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	tokenStr, err := GenerateToken("0123456789abcdef0123456789abcdef", &models.User{ID: 1})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("another-secret-another-secret-xx"), nil
	})
	assert.Error(t, err)
}
