// internal/app/features/grid/handler.go

// Package grid exposes the allocation grid over HTTP: the snapshot the
// page renders, the cell write pipeline, selection and clipboard
// gestures, fill, the two bulk operations, CSV export and the SSE
// change feed.
//
// All grid state that matters lives server side in a per-browser
// session (see internal/app/grid); the handlers translate HTTP into
// session calls and session state into JSON.
package grid

import (
	"context"
	"encoding/json"
	"net/http"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/bulk"
	"github.com/dalemusser/crewgrid/internal/app/system/confirm"
	"github.com/dalemusser/crewgrid/internal/app/system/notify"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// PrefsSessionName is the cookie the browser session id and grid
// preferences ride in.
const PrefsSessionName = "crewgrid_prefs"

// Handler holds the grid feature's dependencies. Alloc is the same
// store the bulk engine writes through; the handlers only read from it
// (previews).
type Handler struct {
	Sessions *gridsession.Manager
	Bulk     *bulk.Engine
	Alloc    bulk.Store
	Confirm  *confirm.Ledger
	Hub      *notify.Hub
	Prefs    *sessions.CookieStore
	Log      *zap.Logger

	// Views, when set, supplies the default saved view applied to brand
	// new sessions.
	Views DefaultViews

	// CookieName overrides PrefsSessionName when set.
	CookieName string
}

// DefaultViews resolves a view type's default saved view.
type DefaultViews interface {
	GetDefault(ctx context.Context, viewType string) (models.SavedView, error)
}

func NewHandler(mgr *gridsession.Manager, eng *bulk.Engine, alloc bulk.Store, ledger *confirm.Ledger, hub *notify.Hub, prefs *sessions.CookieStore, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: mgr,
		Bulk:     eng,
		Alloc:    alloc,
		Confirm:  ledger,
		Hub:      hub,
		Prefs:    prefs,
		Log:      logger,
	}
}

func (h *Handler) cookieName() string {
	if h.CookieName != "" {
		return h.CookieName
	}
	return PrefsSessionName
}

// session resolves the caller's grid session from the prefs cookie,
// minting a session id on first contact. Freshly built sessions (first
// contact, or the first request after a restart or unmount) are seeded
// from the durable per-browser state: the cookie's working-weekend
// flags and the default saved view.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *gridsession.Session {
	ps, _ := h.Prefs.Get(r, h.cookieName())
	sid, _ := ps.Values["sid"].(string)
	if sid == "" {
		sid = uuid.NewString()
		ps.Values["sid"] = sid
		if err := ps.Save(r, w); err != nil {
			h.Log.Warn("prefs cookie save failed", zap.Error(err))
		}
	}

	s, created := h.Sessions.Session(sid)
	if created {
		loadWeekends(s, ps)
		if h.Views != nil {
			if v, err := h.Views.GetDefault(r.Context(), "grid"); err == nil {
				s.SetFilter(v.Filter)
			}
		}
	}
	return s
}

// ServeUnmount handles DELETE /grid/session, discarding the server-side
// session state when the grid view goes away. The browser keeps its id;
// the next request builds a fresh session and re-seeds it from the
// cookie.
func (h *Handler) ServeUnmount(w http.ResponseWriter, r *http.Request) {
	ps, _ := h.Prefs.Get(r, h.cookieName())
	if sid, _ := ps.Values["sid"].(string); sid != "" {
		h.Sessions.Drop(sid)
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
