// internal/app/features/grid/exportcsv.go
package grid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeExportCSV handles GET /grid/export.csv and streams the session's
// visible grid, refreshed first so the file reflects the current state.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s := h.session(w, r)
	if err := s.Refresh(ctx); err != nil {
		h.Log.Error("export refresh failed", zap.Error(err))
		http.Error(w, "could not load the grid", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("allocations-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := s.WriteCSV(w); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}
