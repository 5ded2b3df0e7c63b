package auth

import (
	"sync"
	"time"
)

const pendingTTL = 10 * time.Minute

type pendingAuthorization struct {
	verifier  string
	createdAt time.Time
}

// PendingStore holds in-flight login attempts keyed by their state token.
// Take removes the entry it returns, so every state is usable exactly once.
type PendingStore struct {
	mu      sync.Mutex
	entries map[string]pendingAuthorization

	now func() time.Time
}

func NewPendingStore() *PendingStore {
	return &PendingStore{
		entries: make(map[string]pendingAuthorization),
		now:     time.Now,
	}
}

func (p *PendingStore) Put(state, verifier string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.purgeLocked()

	p.entries[state] = pendingAuthorization{
		verifier:  verifier,
		createdAt: p.now(),
	}
}

// Take returns the PKCE verifier bound to the state and removes the entry.
// The second result is false when the state is unknown or expired.
func (p *PendingStore) Take(state string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[state]
	if !ok {
		return "", false
	}

	delete(p.entries, state)

	if p.now().Sub(entry.createdAt) > pendingTTL {
		return "", false
	}

	return entry.verifier, true
}

func (p *PendingStore) purgeLocked() {
	cutoff := p.now().Add(-pendingTTL)

	for state, entry := range p.entries {
		if entry.createdAt.Before(cutoff) {
			delete(p.entries, state)
		}
	}
}
