// internal/app/features/shots/handler.go

// Package shots exposes the shot registry: the lookup the grid's
// validator consults, a per-show listing, and registration of new
// shots. There is no edit or delete surface; shots are append-only
// from the grid's point of view.
package shots

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.uber.org/zap"
)

// Store is the registry persistence the handlers need.
type Store interface {
	Create(ctx context.Context, sh models.Shot) (models.Shot, error)
	LookupShot(ctx context.Context, name string) (showName string, ok bool, err error)
	ListByShow(ctx context.Context, showName string) ([]models.Shot, error)
}

type Handler struct {
	Shots Store
	Log   *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{Shots: store, Log: logger}
}

// ServeLookup handles GET /shots/lookup?name=sh010 and reports whether
// the name resolves, and to which show. Unknown names are 200 with
// found=false, not 404; not-found is an answer here, not an error.
func (h *Handler) ServeLookup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	show, ok, err := h.Shots.LookupShot(ctx, name)
	if err != nil {
		h.Log.Error("shot lookup failed", zap.Error(err))
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"found": ok,
		"show":  show,
	})
}

// ServeListByShow handles GET /shots?show=ShowA.
func (h *Handler) ServeListByShow(w http.ResponseWriter, r *http.Request) {
	show := strings.TrimSpace(r.URL.Query().Get("show"))
	if show == "" {
		http.Error(w, "show is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Shots.ListByShow(ctx, show)
	if err != nil {
		h.Log.Error("shot list failed", zap.Error(err))
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// createRequest is the POST /shots payload.
type createRequest struct {
	Name     string `json:"name"`
	ShowName string `json:"show_name"`
	Status   string `json:"status"`
}

// ServeCreate handles POST /shots, registering a shot so grid writes
// naming it start validating.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	show := strings.TrimSpace(req.ShowName)
	if name == "" || show == "" {
		http.Error(w, "name and show_name are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sh, err := h.Shots.Create(ctx, models.Shot{
		Name:     name,
		ShowName: show,
		Status:   strings.TrimSpace(req.Status),
	})
	if err != nil {
		h.Log.Error("shot create failed", zap.Error(err))
		http.Error(w, "could not register the shot", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
