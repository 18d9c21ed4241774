package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCSRFIssueAndValidate(t *testing.T) {
	i := newCSRFIssuer(30 * time.Minute)

	token := i.Issue()
	require.NotEmpty(t, token)
	require.True(t, i.Validate(token))
	// Tokens stay valid for repeat mutations within the TTL.
	require.True(t, i.Validate(token))

	require.False(t, i.Validate(""))
	require.False(t, i.Validate("not-issued-here"))
}

func TestCSRFTokenExpiry(t *testing.T) {
	i := newCSRFIssuer(30 * time.Minute)
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return now }

	token := i.Issue()
	require.True(t, i.Validate(token))

	now = now.Add(31 * time.Minute)
	require.False(t, i.Validate(token))
	// Expired tokens are dropped, not resurrected.
	now = now.Add(-31 * time.Minute)
	require.False(t, i.Validate(token))
}

func TestCSRFIssuePrunesExpired(t *testing.T) {
	i := newCSRFIssuer(time.Minute)
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return now }

	stale := i.Issue()
	now = now.Add(2 * time.Minute)
	fresh := i.Issue()

	i.mu.Lock()
	_, staleKept := i.tokens[stale]
	_, freshKept := i.tokens[fresh]
	i.mu.Unlock()
	require.False(t, staleKept)
	require.True(t, freshKept)
}
