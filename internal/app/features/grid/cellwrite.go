// internal/app/features/grid/cellwrite.go
package grid

import (
	"context"
	"errors"
	"net/http"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/validate"
	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeWriteCell handles POST /grid/cells, the single-cell commit of a
// typed value.
//
// Status codes carry the validation outcome:
//
//	422 with {"error": ...}                 capacity exceeded, nothing written
//	409 with {"unknown_shots": [...]}       unregistered names, nothing written;
//	                                        retry with allow_unknown to keep
//	                                        the valid part
func (h *Handler) ServeWriteCell(w http.ResponseWriter, r *http.Request) {
	var req cellWriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := h.session(w, r)
	err := s.ApplyCell(ctx, req.Row, req.Col, req.Value, req.AllowUnknown)
	if err != nil {
		h.writeCellError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot(s))
}

// ServeSetLeave handles POST /grid/cells/leave, toggling a full-day
// leave record on one cell.
func (h *Handler) ServeSetLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := h.session(w, r)
	if err := s.SetLeave(ctx, req.Row, req.Col, req.On); err != nil {
		h.writeCellError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot(s))
}

func (h *Handler) writeCellError(w http.ResponseWriter, err error) {
	var over *validate.OverCapacityError
	if errors.As(err, &over) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": over.Error(),
			"total": over.Total,
		})
		return
	}
	var unknown *validate.UnknownShotsError
	if errors.As(err, &unknown) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         err.Error(),
			"unknown_shots": unknown.Names,
		})
		return
	}
	if errors.Is(err, gridsession.ErrOutOfRange) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Log.Error("cell write failed", zap.Error(err))
	http.Error(w, "cell write failed", http.StatusInternalServerError)
}
