package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("secret", "sma-rating-sync", "session-1", time.Minute)
	token, err := signer.Token()
	require.NoError(t, err)

	claims, err := Parse(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.Session)
	assert.Equal(t, "sma-rating-sync", claims.Issuer)

	_, err = Parse(token, "other")
	assert.Error(t, err)
}

func TestNilSignerIssuesNothing(t *testing.T) {
	signer := NewSigner("", "iss", "s", time.Minute)
	assert.Nil(t, signer)
	token, err := signer.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestExpiredTokenRejected(t *testing.T) {
	signer := NewSigner("secret", "iss", "s", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := signer.Token()
	require.NoError(t, err)

	_, err = Parse(token, "secret")
	assert.Error(t, err)
}
