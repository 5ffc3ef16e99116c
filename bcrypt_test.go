package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/VHSkillPro/auth-template-backend-sub000"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-passw0rd")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-passw0rd", hash)

	assert.NoError(t, auth.ComparePasswordAndHash("s3cret-passw0rd", hash))

	err = auth.ComparePasswordAndHash("wrong-password", hash)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := auth.HashPassword("")
	require.Error(t, err)
}

func TestComparePasswordAndHash_BadHash(t *testing.T) {
	err := auth.ComparePasswordAndHash("whatever", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
