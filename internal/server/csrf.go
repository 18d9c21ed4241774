package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// csrfIssuer hands out random anti-forgery tokens and validates them until
// they expire. A token is issued with every feed load and stays valid for
// the TTL so one page view can submit several mutations.
type csrfIssuer struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time
}

func newCSRFIssuer(ttl time.Duration) *csrfIssuer {
	return &csrfIssuer{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// Issue creates a new token.
func (i *csrfIssuer) Issue() string {
	token := uuid.NewString()

	i.mu.Lock()
	defer i.mu.Unlock()
	i.prune()
	i.tokens[token] = i.now().Add(i.ttl)
	return token
}

// Validate reports whether the token was issued here and has not expired.
func (i *csrfIssuer) Validate(token string) bool {
	if token == "" {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	expiry, ok := i.tokens[token]
	if !ok {
		return false
	}
	if i.now().After(expiry) {
		delete(i.tokens, token)
		return false
	}
	return true
}

// prune drops expired tokens. Caller holds the lock.
func (i *csrfIssuer) prune() {
	now := i.now()
	for token, expiry := range i.tokens {
		if now.After(expiry) {
			delete(i.tokens, token)
		}
	}
}
