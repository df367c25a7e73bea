package news

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/db"
	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

type Module struct {
	Service  *Service
	handlers *Handlers
	sessions middleware.SessionFetcher
	roles    middleware.RoleFetcher
	limiter  *middleware.RateLimiter
}

// Access guards news submission.
type Access struct {
	Sessions middleware.SessionFetcher
	Roles    middleware.RoleFetcher
	Limiter  *middleware.RateLimiter
}

func Init(d *gorm.DB, deps utils.ModuleDeps, access Access) (*Module, error) {
	if err := d.AutoMigrate(&NewsItem{}); err != nil {
		return nil, fmt.Errorf("auto-migrate news: %w", err)
	}
	if err := db.EnsureFullText(d, NewsItem{}.TableName(), deps.SearchConfig, SearchColumns...); err != nil {
		return nil, err
	}
	service := NewService(d, deps.QueryOptions(d)...)
	return &Module{
		Service:  service,
		handlers: &Handlers{service: service, log: deps.Log("news")},
		sessions: access.Sessions,
		roles:    access.Roles,
		limiter:  access.Limiter,
	}, nil
}
