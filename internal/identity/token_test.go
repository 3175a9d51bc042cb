package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager(TokenConfig{Secret: []byte("s3cret"), TTL: time.Hour})

	token, err := mgr.Mint(&User{ID: "u1", ExternalUID: "ext-1"})
	require.NoError(t, err)

	claims, err := mgr.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ext-1", claims.ExternalUID)
	assert.Equal(t, "queple-server", claims.Issuer)
	assert.Equal(t, "u1", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	minter := NewTokenManager(TokenConfig{Secret: []byte("s3cret")})
	verifier := NewTokenManager(TokenConfig{Secret: []byte("other")})

	token, err := minter.Mint(&User{ID: "u1"})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	mgr := NewTokenManager(TokenConfig{Secret: []byte("s3cret")})

	_, err := mgr.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	mgr := NewTokenManager(TokenConfig{Secret: []byte("s3cret"), TTL: -time.Minute})

	token, err := mgr.Mint(&User{ID: "u1"})
	require.NoError(t, err)

	_, err = mgr.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
