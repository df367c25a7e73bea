package news

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
)

func (m *Module) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", m.handlers.List)
	r.Get("/{id}", m.handlers.Get)

	r.Group(func(r chi.Router) {
		if m.limiter != nil {
			r.Use(m.limiter.Middleware)
		}
		r.Use(middleware.SessionMiddleware(m.sessions))
		r.Use(middleware.AdminMiddleware(m.roles))
		r.Post("/", m.handlers.Create)
	})

	return r
}
