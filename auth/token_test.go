package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Generate("user-1", "alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("chat-relay", claims.Issuer)
}

func TestTokenIssuer_RejectsForgedTokens(t *testing.T) {
	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		issuer := NewTokenIssuer("real-secret", time.Hour)
		forger := NewTokenIssuer("other-secret", time.Hour)

		token, err := forger.Generate("user-1", "alice")
		req.NoError(err)

		_, err = issuer.Validate(token)
		req.Error(err)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		issuer := NewTokenIssuer("test-secret", -time.Minute)

		token, err := issuer.Generate("user-1", "alice")
		req.NoError(err)

		_, err = issuer.Validate(token)
		req.Error(err)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		req := require.New(t)
		issuer := NewTokenIssuer("test-secret", time.Hour)

		_, err := issuer.Validate("definitely.not.a.jwt")
		req.Error(err)
	})
}
