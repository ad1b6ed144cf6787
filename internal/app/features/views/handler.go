// internal/app/features/views/handler.go

// Package views manages saved grid views: named filter tuples that can
// be public, pinned to the quick-filter bar, or marked as the one
// default per view type.
package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the saved-view persistence the handlers need; the
// savedviewstore package is the production implementation.
type Store interface {
	Create(ctx context.Context, v models.SavedView) (models.SavedView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.SavedView, error)
	ListByType(ctx context.Context, viewType string) ([]models.SavedView, error)
	ListQuickFilters(ctx context.Context, viewType string) ([]models.SavedView, error)
	SetDefault(ctx context.Context, id primitive.ObjectID) error
}

// Handler holds the views feature's dependencies.
type Handler struct {
	Views Store
	Log   *zap.Logger

	sanitize *bluemonday.Policy
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{
		Views:    store,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// maxNameLen bounds saved view names after sanitizing.
const maxNameLen = 80

// cleanName strips markup from a user-supplied view name and enforces
// the length bound. An empty result means the name was unusable.
func (h *Handler) cleanName(raw string) string {
	name := strings.TrimSpace(h.sanitize.Sanitize(raw))
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return err
	}
	return nil
}
