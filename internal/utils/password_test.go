package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "other"))
}

func TestRandomOTPRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := RandomOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestRandomPasswordLengthAndAlphabet(t *testing.T) {
	pw, err := RandomPassword(12)
	require.NoError(t, err)
	require.Len(t, pw, 12)
	for _, r := range pw {
		assert.Contains(t, passwordAlphabet, string(r))
	}
}
