// Package notify is the in-process publish/subscribe channel sibling
// grid views use to stay loosely consistent.
//
// Events carry no payload beyond "allocations changed": subscribers
// react by re-fetching their own snapshot, never by patching state from
// the event. Delivery is best-effort; a subscriber that is not keeping
// up has events dropped rather than blocking the publisher.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event signals that allocation data changed somewhere.
type Event struct {
	At time.Time `json:"at"`
}

// Hub fans Published events out to all current subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan Event
	log  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]chan Event),
		log:  logger,
	}
}

// Subscribe registers a new listener and returns its event channel and
// an unsubscribe function. The channel is buffered; slow consumers lose
// events instead of stalling publishers.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	id := uuid.New()
	ch := make(chan Event, 8)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish notifies every subscriber that allocation data changed.
func (h *Hub) Publish() {
	ev := Event{At: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			if h.log != nil {
				h.log.Debug("dropping notify event for slow subscriber",
					zap.String("subscriber", id.String()))
			}
		}
	}
}

// Subscribers returns the current listener count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
