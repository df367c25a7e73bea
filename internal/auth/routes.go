package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
)

func (m *Module) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	h := m.handlers
	session := middleware.SessionMiddleware(m.Store)

	if m.limiter != nil {
		r.With(m.limiter.Middleware).Post("/login", h.Login)
	} else {
		r.Post("/login", h.Login)
	}

	r.Group(func(r chi.Router) {
		r.Use(session)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Get("/role", h.Role)
		r.Get("/admin", h.Admin)
	})

	return r
}
