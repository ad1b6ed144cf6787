// Package confirm issues and redeems the short-lived tokens that gate
// bulk grid operations.
//
// Reassign and copy-week are irreversible and can touch dozens of
// documents, so the API forces a two-step flow: a preview call returns
// a token plus a human-readable scope description, and only a second
// call presenting that token executes. Tokens are single-use and expire
// quickly, which keeps a stale confirmation dialog from firing an
// operation whose scope has drifted.
package confirm

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a preview token stays redeemable.
const DefaultTTL = 2 * time.Minute

type pending struct {
	scope   string
	expires time.Time
}

// Ledger is an in-memory single-use token store.
type Ledger struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[uuid.UUID]pending
	now    func() time.Time
}

func NewLedger(ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Ledger{
		ttl:    ttl,
		tokens: make(map[uuid.UUID]pending),
		now:    time.Now,
	}
}

// Issue records a pending operation described by scope and returns the
// token the caller must present to execute it.
func (l *Ledger) Issue(scope string) uuid.UUID {
	token := uuid.New()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()
	l.tokens[token] = pending{scope: scope, expires: l.now().Add(l.ttl)}
	return token
}

// Redeem consumes a token and returns its scope description. ok is
// false for unknown, expired, or already-redeemed tokens.
func (l *Ledger) Redeem(token uuid.UUID) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, exists := l.tokens[token]
	if !exists {
		return "", false
	}
	delete(l.tokens, token)
	if l.now().After(p.expires) {
		return "", false
	}
	return p.scope, true
}

// Pending returns how many unredeemed tokens are outstanding.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()
	return len(l.tokens)
}

func (l *Ledger) sweepLocked() {
	now := l.now()
	for t, p := range l.tokens {
		if now.After(p.expires) {
			delete(l.tokens, t)
		}
	}
}
