package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	InitJWTSecret()

	tokenString, err := GenerateToken(42, "user")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	}, jwt.WithExpirationRequired())
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["user_id"])
	assert.Equal(t, "user", claims["role"])
	assert.NotNil(t, claims["exp"])
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	InitJWTSecret()

	tokenString, err := GenerateToken(7, "admin")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("some-other-secret"), nil
	})
	assert.Error(t, err)
}
