package utils

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// ModuleDeps is what every list module receives from main.
type ModuleDeps struct {
	SearchConfig string
	Limits       query.Limits
	Observer     query.Observer
	Logger       *slog.Logger
}

// QueryOptions turns the shared settings into Source options for d.
func (m ModuleDeps) QueryOptions(d *gorm.DB) []query.Option {
	opts := []query.Option{query.WithMatcher(query.MatcherFor(d, m.SearchConfig))}
	if m.Limits.DefaultPageSize > 0 {
		opts = append(opts, query.WithLimits(m.Limits))
	}
	if m.Observer != nil {
		opts = append(opts, query.WithObserver(m.Observer))
	}
	return opts
}

// Log returns the module logger tagged with component.
func (m ModuleDeps) Log(component string) *slog.Logger {
	l := m.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}
