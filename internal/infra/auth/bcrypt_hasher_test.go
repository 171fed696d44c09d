package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "SecurePass123!", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, hasher.Check("SecurePass123!", hash))
	assert.False(t, hasher.Check("WrongPass123!", hash))
}

func TestBcryptHasher_SamePasswordDifferentHashes(t *testing.T) {
	hasher := NewBcryptHasher()

	first, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)
	second, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)

	// Each hash carries its own salt.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("SecurePass123!", first))
	assert.True(t, hasher.Check("SecurePass123!", second))
}

func TestBcryptHasher_CheckAgainstGarbageHash(t *testing.T) {
	hasher := NewBcryptHasher()

	assert.False(t, hasher.Check("SecurePass123!", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Check("SecurePass123!", ""))
}

func TestBcryptHasher_OverlongPassword(t *testing.T) {
	hasher := NewBcryptHasher()

	// bcrypt rejects inputs past 72 bytes.
	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}
