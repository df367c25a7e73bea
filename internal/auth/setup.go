package auth

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
)

// Module wires the identity service to its routes.
type Module struct {
	Store    *Store
	handlers *Handlers
	limiter  *middleware.RateLimiter
}

type Options struct {
	SessionTTL time.Duration
	// SecureCookies marks the session cookie Secure; off for plain-HTTP local runs.
	SecureCookies bool
	// Limiter throttles login attempts per client when set.
	Limiter *middleware.RateLimiter
	Logger  *slog.Logger
}

func Init(d *gorm.DB, opts Options) (*Module, error) {
	if err := d.AutoMigrate(&User{}, &Session{}); err != nil {
		return nil, fmt.Errorf("auto-migrate auth tables: %w", err)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 6 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	store := NewStore(d)
	return &Module{
		Store: store,
		handlers: &Handlers{
			store:  store,
			ttl:    opts.SessionTTL,
			secure: opts.SecureCookies,
			log:    opts.Logger.With("component", "auth"),
		},
		limiter: opts.Limiter,
	}, nil
}
