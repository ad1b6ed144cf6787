// internal/app/features/grid/events.go
package grid

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// keepAliveInterval paces the SSE comment frames that keep proxies from
// closing an otherwise quiet stream.
const keepAliveInterval = 25 * time.Second

// ServeEvents handles GET /grid/events, a server-sent-events stream
// that emits one "changed" event whenever allocation data mutates.
// Events carry no payload worth patching from; the page reacts by
// re-fetching its snapshot.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.Hub.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, _ := json.Marshal(ev)
			fmt.Fprintf(w, "event: changed\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
