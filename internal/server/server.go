// Package server composes the council API from its modules.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/auth"
	"github.com/EmpoweredVote/SB-Backend/internal/committees"
	"github.com/EmpoweredVote/SB-Backend/internal/config"
	"github.com/EmpoweredVote/SB-Backend/internal/members"
	"github.com/EmpoweredVote/SB-Backend/internal/metrics"
	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
	"github.com/EmpoweredVote/SB-Backend/internal/news"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/resolutions"
	"github.com/EmpoweredVote/SB-Backend/internal/slides"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// Build migrates every module and returns the router. m may be nil to run
// without metrics.
func Build(d *gorm.DB, cfg config.Config, log *slog.Logger, m *metrics.Metrics) (http.Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	deps := utils.ModuleDeps{
		SearchConfig: cfg.SearchConfig,
		Limits:       query.Limits{DefaultPageSize: cfg.PageSize, MaxPageSize: cfg.MaxPageSize},
		Logger:       log,
	}
	if m != nil {
		deps.Observer = m
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	authModule, err := auth.Init(d, auth.Options{
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: !cfg.Debug,
		Limiter:       limiter,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	newsModule, err := news.Init(d, deps, news.Access{
		Sessions: authModule.Store,
		Roles:    authModule.Store,
		Limiter:  limiter,
	})
	if err != nil {
		return nil, err
	}
	resolutionsModule, err := resolutions.Init(d, deps)
	if err != nil {
		return nil, err
	}
	// Committee seats reference members, so members migrate first.
	membersModule, err := members.Init(d, deps)
	if err != nil {
		return nil, err
	}
	committeesModule, err := committees.Init(d, deps)
	if err != nil {
		return nil, err
	}
	slidesModule, err := slides.Init(d, deps)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if cfg.Debug {
		r.Use(chimiddleware.Logger)
	}
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/", RootHandler)
	r.Mount("/auth", authModule.SetupRoutes())
	r.Mount("/news", newsModule.SetupRoutes())
	r.Mount("/resolutions", resolutionsModule.SetupRoutes())
	r.Mount("/ordinances", resolutionsModule.OrdinanceRoutes())
	r.Mount("/members", membersModule.SetupRoutes())
	r.Mount("/committees", committeesModule.SetupRoutes())
	r.Mount("/slides", slidesModule.SetupRoutes())
	if m != nil && cfg.Metrics {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	log.Info("routes mounted", "component", "server")
	return r, nil
}
