package grid

import (
	"sync"

	"github.com/dalemusser/crewgrid/internal/app/grid/validate"
	"github.com/dalemusser/crewgrid/internal/app/system/notify"
	"go.uber.org/zap"
)

// Manager hands out one Session per browser session id. Sessions are
// created lazily and live for the life of the process; selection and
// clipboard state is per session, never shared.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store    AllocationStore
	members  MemberSource
	registry validate.Registry
	hub      *notify.Hub
	log      *zap.Logger

	// DefaultRangeDays, when positive, overrides the built-in range
	// length for brand new sessions.
	DefaultRangeDays int
}

func NewManager(store AllocationStore, members MemberSource, registry validate.Registry, hub *notify.Hub, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		members:  members,
		registry: registry,
		hub:      hub,
		log:      logger,
	}
}

// Session returns the grid session for the given browser session id,
// creating it on first use. created reports that this call built a
// fresh session, which happens on first contact and again after the
// previous one was dropped or lost to a restart; callers re-seed
// durable per-browser state (working weekends, default view) then.
func (m *Manager) Session(id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, false
	}
	s = NewSession(m.store, m.members, m.registry, m.hub, m.log)
	if m.DefaultRangeDays > 0 {
		f := s.Filter()
		f.RangeDays = m.DefaultRangeDays
		s.SetFilter(f)
	}
	m.sessions[id] = s
	return s, true
}

// Drop discards the session for id, if any.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
