// internal/app/features/views/views.go
package views

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createRequest is the POST /views payload.
type createRequest struct {
	Name        string            `json:"name"`
	ViewType    string            `json:"view_type"`
	Filter      models.ViewFilter `json:"filter"`
	Public      bool              `json:"public"`
	QuickFilter bool              `json:"quick_filter"`
	Default     bool              `json:"default"`
}

// ServeList handles GET /views?type=grid.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	viewType := viewTypeParam(r)
	list, err := h.Views.ListByType(ctx, viewType)
	if err != nil {
		h.Log.Error("list saved views failed", zap.Error(err))
		http.Error(w, "could not list views", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServeQuickFilters handles GET /views/quick?type=grid, the one-click
// shortcut bar's contents.
func (h *Handler) ServeQuickFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Views.ListQuickFilters(ctx, viewTypeParam(r))
	if err != nil {
		h.Log.Error("list quick filters failed", zap.Error(err))
		http.Error(w, "could not list views", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ServeCreate handles POST /views. The name is sanitized before it is
// stored; a name that is empty after sanitizing is rejected.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	name := h.cleanName(req.Name)
	if name == "" {
		http.Error(w, "view name is required", http.StatusBadRequest)
		return
	}
	viewType := strings.TrimSpace(req.ViewType)
	if viewType == "" {
		viewType = "grid"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Views.Create(ctx, models.SavedView{
		Name:        name,
		ViewType:    viewType,
		Filter:      req.Filter,
		Public:      req.Public,
		QuickFilter: req.QuickFilter,
		Default:     req.Default,
	})
	if err != nil {
		h.Log.Error("create saved view failed", zap.Error(err))
		http.Error(w, "could not create the view", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// ServeDelete handles DELETE /views/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Views.Delete(ctx, id); err != nil {
		h.Log.Error("delete saved view failed", zap.Error(err))
		http.Error(w, "could not delete the view", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// ServeSetDefault handles POST /views/{id}/default, flagging the view
// as its type's default and clearing the previous one.
func (h *Handler) ServeSetDefault(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Views.GetByID(ctx, id); err != nil {
		http.Error(w, "view not found", http.StatusNotFound)
		return
	}
	if err := h.Views.SetDefault(ctx, id); err != nil {
		h.Log.Error("set default view failed", zap.Error(err))
		http.Error(w, "could not set the default view", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"default": id.Hex()})
}

func viewTypeParam(r *http.Request) string {
	vt := strings.TrimSpace(r.URL.Query().Get("type"))
	if vt == "" {
		vt = "grid"
	}
	return vt
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid view id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}
