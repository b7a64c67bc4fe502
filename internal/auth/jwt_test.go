package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aojudge/ranklist/internal/auth"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := auth.GenerateJWT("op1", "secret", 1)
	require.NoError(t, err)

	claims, err := auth.ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "op1", claims.Subject)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := auth.GenerateJWT("op1", "secret", 1)
	require.NoError(t, err)

	_, err = auth.ValidateJWT(token, "other")
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := auth.ValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, auth.CheckPasswordHash("hunter2", hash))
	assert.False(t, auth.CheckPasswordHash("hunter3", hash))
}
