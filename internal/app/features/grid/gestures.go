// internal/app/features/grid/gestures.go
package grid

import (
	"context"
	"errors"
	"net/http"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/selection"
	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeGesture handles POST /grid/selection/{gesture}. The gesture name
// picks the selection verb; the body addresses the cell (drag-end and
// clear take no cell).
func (h *Handler) ServeGesture(w http.ResponseWriter, r *http.Request) {
	gesture := chi.URLParam(r, "gesture")
	s := h.session(w, r)

	switch gesture {
	case "drag-end":
		s.EndDrag()
	case "clear":
		s.ClearSelection()
	default:
		var req gestureRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c := selection.Cell{Row: req.Row, Col: req.Col}
		switch gesture {
		case "click":
			s.Click(c)
		case "toggle":
			s.ToggleSelect(c)
		case "extend":
			s.ExtendSelect(c)
		case "drag-begin":
			s.BeginDrag(c)
		case "drag-over":
			s.DragOver(c)
		default:
			http.Error(w, "unknown gesture", http.StatusNotFound)
			return
		}
	}

	var selected []cellRef
	for _, c := range s.Selected() {
		selected = append(selected, cellRef{Row: c.Row, Col: c.Col})
	}
	writeJSON(w, http.StatusOK, map[string]any{"selected": selected})
}

// ServeCopy handles POST /grid/copy, capturing the current selection's
// values into the session clipboard.
func (h *Handler) ServeCopy(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	n := s.CopySelection()
	writeJSON(w, http.StatusOK, map[string]any{"copied": n})
}

// ServePaste handles POST /grid/paste: broadcast the single copied
// value into every selected cell. Cells that fail validation are
// reported; the rest settle.
func (h *Handler) ServePaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s := h.session(w, r)
	applied, failures, err := s.PasteBroadcast(ctx, req.AllowUnknown)
	if err != nil {
		if errors.Is(err, gridsession.ErrNothingToPaste) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "paste failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, writeResultJSON(applied, failures))
}

// ServeFill handles POST /grid/fill, the fill-handle drag commit.
func (h *Handler) ServeFill(w http.ResponseWriter, r *http.Request) {
	var req fillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s := h.session(w, r)
	applied, failures, err := s.Fill(ctx, req.Row, req.SourceCol, req.TargetCol, req.AllowUnknown)
	if err != nil {
		http.Error(w, "fill failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, writeResultJSON(applied, failures))
}

// ServeSetWeekend handles PUT /grid/weekends, flagging one weekend day
// as working (or not) for this session.
func (h *Handler) ServeSetWeekend(w http.ResponseWriter, r *http.Request) {
	var req weekendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s := h.session(w, r)
	s.SetWorkingWeekend(req.Day, req.Working)
	h.saveWeekends(w, r, s)
	writeJSON(w, http.StatusOK, map[string]any{
		"day":     req.Day,
		"working": s.IsWorkingWeekend(req.Day),
	})
}

func writeResultJSON(applied int, failures []gridsession.CellFailure) writeResult {
	res := writeResult{Applied: applied}
	for _, f := range failures {
		res.Failures = append(res.Failures, failureJSON{
			Row:   f.Cell.Row,
			Col:   f.Cell.Col,
			Error: f.Err.Error(),
		})
	}
	return res
}
