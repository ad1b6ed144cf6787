// internal/app/features/grid/prefs.go
package grid

import (
	"net/http"
	"strings"
	"time"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Grid preferences (column widths, collapsed panes, last-used range
// length and the like) live client side in the signed prefs cookie.
// The server stores nothing per user; wiping the cookie resets the
// preferences and nothing else.

// weekendsPrefKey stores the working-weekend dates in the prefs cookie
// so they survive a restart. Only the weekends endpoint writes it.
const weekendsPrefKey = "weekends"

// reserved cookie keys the prefs endpoints must not clobber.
var reservedPrefKeys = map[string]struct{}{
	"sid":           {},
	weekendsPrefKey: {},
}

const weekendDateLayout = "2006-01-02"

// saveWeekends mirrors the session's working-weekend flags into the
// prefs cookie.
func (h *Handler) saveWeekends(w http.ResponseWriter, r *http.Request, s *gridsession.Session) {
	ps, _ := h.Prefs.Get(r, h.cookieName())

	days := s.WorkingWeekends()
	if len(days) == 0 {
		delete(ps.Values, weekendsPrefKey)
	} else {
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = d.Format(weekendDateLayout)
		}
		ps.Values[weekendsPrefKey] = strings.Join(parts, ",")
	}
	if err := ps.Save(r, w); err != nil {
		h.Log.Warn("prefs cookie save failed", zap.Error(err))
	}
}

// loadWeekends seeds a fresh session's working-weekend flags from the
// prefs cookie. Unparseable entries are skipped.
func loadWeekends(s *gridsession.Session, ps *sessions.Session) {
	raw, _ := ps.Values[weekendsPrefKey].(string)
	for _, part := range strings.Split(raw, ",") {
		if d, err := time.Parse(weekendDateLayout, part); err == nil {
			s.SetWorkingWeekend(d, true)
		}
	}
}

// ServeGetPrefs handles GET /grid/prefs and returns the stored
// preference map.
func (h *Handler) ServeGetPrefs(w http.ResponseWriter, r *http.Request) {
	ps, _ := h.Prefs.Get(r, h.cookieName())

	prefs := make(map[string]string)
	for k, v := range ps.Values {
		key, kok := k.(string)
		val, vok := v.(string)
		if !kok || !vok {
			continue
		}
		if _, reserved := reservedPrefKeys[key]; reserved {
			continue
		}
		prefs[key] = val
	}
	writeJSON(w, http.StatusOK, prefs)
}

// ServeSetPrefs handles PUT /grid/prefs: merge the posted string map
// into the cookie. An empty string value deletes the key.
func (h *Handler) ServeSetPrefs(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decodeJSON(w, r, &req) {
		return
	}

	ps, _ := h.Prefs.Get(r, h.cookieName())
	for k, v := range req {
		if _, reserved := reservedPrefKeys[k]; reserved {
			continue
		}
		if v == "" {
			delete(ps.Values, k)
			continue
		}
		ps.Values[k] = v
	}
	if err := ps.Save(r, w); err != nil {
		h.Log.Warn("prefs cookie save failed", zap.Error(err))
		http.Error(w, "could not persist preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}
