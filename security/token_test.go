package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdesk/backend/apperr"
)

func newTestManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(secret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	token, err := m.Issue("a@x.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	token, err := m.Issue("a@x.com", "normal", -time.Second)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()
	issuer := newTestManager(t, "right-secret")
	verifier := newTestManager(t, "wrong-secret")

	token, err := issuer.Issue("a@x.com", "normal", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "secret")

	for _, token := range []string{"", "not.a.jwt", "a.b", "...."} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, apperr.ErrInvalidToken, "token %q", token)
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()
	_, err := NewTokenManager("secret", "RS256", time.Minute)
	assert.Error(t, err)
}
