// internal/app/features/grid/routes.go
package grid

import "github.com/go-chi/chi/v5"

// Routes returns the grid subrouter; it is mounted under /grid.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeSnapshot)
	r.Put("/filter", h.ServeSetFilter)
	r.Post("/refresh", h.ServeRefresh)
	r.Delete("/session", h.ServeUnmount)

	r.Post("/cells", h.ServeWriteCell)
	r.Post("/cells/leave", h.ServeSetLeave)

	r.Post("/selection/{gesture}", h.ServeGesture)
	r.Post("/copy", h.ServeCopy)
	r.Post("/paste", h.ServePaste)
	r.Post("/fill", h.ServeFill)

	r.Put("/weekends", h.ServeSetWeekend)

	r.Post("/bulk/reassign/preview", h.ServeReassignPreview)
	r.Post("/bulk/reassign", h.ServeReassign)
	r.Post("/bulk/copyweek/preview", h.ServeCopyWeekPreview)
	r.Post("/bulk/copyweek", h.ServeCopyWeek)

	r.Get("/prefs", h.ServeGetPrefs)
	r.Put("/prefs", h.ServeSetPrefs)

	r.Get("/export.csv", h.ServeExportCSV)
	r.Get("/events", h.ServeEvents)

	return r
}
