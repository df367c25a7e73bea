package resolutions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /resolutions.
func (m *Module) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.handlers.List)
	r.Get("/{id}", m.handlers.Get)
	return r
}

// OrdinanceRoutes serves /ordinances from the same table.
func (m *Module) OrdinanceRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.handlers.ListOrdinances)
	r.Get("/{id}", m.handlers.GetOrdinance)
	return r
}
