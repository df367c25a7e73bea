package slides

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

type Module struct {
	Service  *Service
	handlers *Handlers
}

func Init(d *gorm.DB, deps utils.ModuleDeps) (*Module, error) {
	if err := d.AutoMigrate(&Slide{}); err != nil {
		return nil, fmt.Errorf("auto-migrate slides: %w", err)
	}
	service := NewService(d, deps.QueryOptions(d)...)
	return &Module{
		Service:  service,
		handlers: &Handlers{service: service, log: deps.Log("slides")},
	}, nil
}
