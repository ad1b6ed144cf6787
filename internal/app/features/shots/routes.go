// internal/app/features/shots/routes.go
package shots

import "github.com/go-chi/chi/v5"

// Routes returns the shot registry subrouter; it is mounted under /shots.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeListByShow)
	r.Get("/lookup", h.ServeLookup)
	r.Post("/", h.ServeCreate)

	return r
}
