// internal/app/features/grid/snapshot.go
package grid

import (
	"context"
	"net/http"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/cells"
	"github.com/dalemusser/crewgrid/internal/app/grid/codec"
	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.uber.org/zap"
)

// ServeSnapshot handles GET /grid and returns the full rendered grid
// for the session's current filter and range. The snapshot is always
// recomputed: a refresh after any mutation is the consistency model.
func (h *Handler) ServeSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := h.session(w, r)
	if err := s.Refresh(ctx); err != nil {
		h.Log.Error("grid refresh failed", zap.Error(err))
		http.Error(w, "could not load the grid", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot(s))
}

// ServeSetFilter handles PUT /grid/filter: replace the filter tuple,
// reload, and return the new snapshot.
func (h *Handler) ServeSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := h.session(w, r)
	s.SetFilter(models.ViewFilter{
		Department:  req.Department,
		Shift:       req.Shift,
		Show:        req.Show,
		Utilization: req.Utilization,
		Search:      req.Search,
		RangeStart:  req.RangeStart,
		RangeDays:   req.RangeDays,
	})
	if err := s.Refresh(ctx); err != nil {
		h.Log.Error("grid refresh failed", zap.Error(err))
		http.Error(w, "could not load the grid", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot(s))
}

// ServeRefresh handles POST /grid/refresh, the explicit reload used
// when an SSE event or a conflict prompt tells the page to resync.
func (h *Handler) ServeRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := h.session(w, r)
	if err := s.Refresh(ctx); err != nil {
		h.Log.Error("grid refresh failed", zap.Error(err))
		http.Error(w, "could not load the grid", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshot(s))
}

func (h *Handler) snapshot(s *gridsession.Session) snapshotResponse {
	f := s.Filter()
	days := s.Days()

	resp := snapshotResponse{
		RangeStart: f.RangeStart,
		RangeDays:  f.RangeDays,
		Days:       days,
	}

	for ri, row := range s.Rows() {
		rj := rowJSON{
			MemberID:   row.Member.ID.Hex(),
			FullName:   row.Member.FullName,
			Department: row.Member.Department,
			Shift:      row.Member.Shift,
			Average:    row.Average,
			Bucket:     row.Bucket,
			Cells:      make([]cellJSON, 0, len(days)),
		}
		for ci, day := range days {
			cell, err := s.Cell(ri, ci)
			if err != nil {
				continue
			}
			rj.Cells = append(rj.Cells, cellJSON{
				Value:   codec.EncodeAllocations(cell.Allocations),
				Total:   cell.Total,
				Status:  string(cell.Status),
				OnLeave: cell.OnLeave,
				Weekend: cells.IsWeekend(day),
				Working: cells.IsWeekend(day) && s.IsWorkingWeekend(day),
			})
		}
		resp.Rows = append(resp.Rows, rj)
	}

	for _, c := range s.Selected() {
		resp.Selected = append(resp.Selected, cellRef{Row: c.Row, Col: c.Col})
	}
	return resp
}
