package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAndCheck(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrongpassword", hash))
}

func TestCheckPasswordHashInvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("password123", "not-a-bcrypt-hash"))
}
