package committees

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (m *Module) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", m.handlers.List)
	r.Get("/{id}", m.handlers.Get)
	return r
}
