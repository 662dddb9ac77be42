package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	req := require.New(t)
	password := "CorrectHorse123!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.Contains(hash, "$argon2id$")
	req.NotContains(hash, password)

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongHorse123!", hash)
	req.NoError(err)
	req.False(match)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("SamePassword123!")
	req.NoError(err)
	second, err := HashPassword("SamePassword123!")
	req.NoError(err)

	req.NotEqual(first, second)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-an-argon2-hash")
	req.Error(err)
}
