package confirm

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLedger_IssueAndRedeem(t *testing.T) {
	l := NewLedger(time.Minute)

	token := l.Issue("reassign 3 days from Ada Vance to Ben Okafor")

	scope, ok := l.Redeem(token)
	if !ok {
		t.Fatal("expected token to redeem")
	}
	if scope != "reassign 3 days from Ada Vance to Ben Okafor" {
		t.Errorf("scope = %q", scope)
	}
}

func TestLedger_TokensAreSingleUse(t *testing.T) {
	l := NewLedger(time.Minute)

	token := l.Issue("copy week")
	if _, ok := l.Redeem(token); !ok {
		t.Fatal("first redeem should succeed")
	}
	if _, ok := l.Redeem(token); ok {
		t.Error("second redeem must fail")
	}
}

func TestLedger_UnknownToken(t *testing.T) {
	l := NewLedger(time.Minute)
	if _, ok := l.Redeem(uuid.New()); ok {
		t.Error("unknown token must not redeem")
	}
}

func TestLedger_Expiry(t *testing.T) {
	l := NewLedger(time.Minute)

	current := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	token := l.Issue("reassign")
	current = current.Add(2 * time.Minute)

	if _, ok := l.Redeem(token); ok {
		t.Error("expired token must not redeem")
	}
}

func TestLedger_PendingSweepsExpired(t *testing.T) {
	l := NewLedger(time.Minute)

	current := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.Issue("one")
	l.Issue("two")
	if got := l.Pending(); got != 2 {
		t.Errorf("Pending = %d, want 2", got)
	}

	current = current.Add(2 * time.Minute)
	if got := l.Pending(); got != 0 {
		t.Errorf("Pending = %d, want 0 after expiry", got)
	}
}
