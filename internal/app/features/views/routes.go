// internal/app/features/views/routes.go
package views

import "github.com/go-chi/chi/v5"

// Routes returns the saved-views subrouter; it is mounted under /views.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/quick", h.ServeQuickFilters)
	r.Delete("/{id}", h.ServeDelete)
	r.Post("/{id}/default", h.ServeSetDefault)

	return r
}
