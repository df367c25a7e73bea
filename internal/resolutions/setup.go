package resolutions

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/db"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

type Module struct {
	Service  *Service
	handlers *Handlers
}

func Init(d *gorm.DB, deps utils.ModuleDeps) (*Module, error) {
	if err := d.AutoMigrate(&Resolution{}); err != nil {
		return nil, fmt.Errorf("auto-migrate resolutions: %w", err)
	}
	if err := db.EnsureFullText(d, Resolution{}.TableName(), deps.SearchConfig, SearchColumns...); err != nil {
		return nil, err
	}
	service := NewService(d, deps.QueryOptions(d)...)
	return &Module{
		Service:  service,
		handlers: &Handlers{service: service, log: deps.Log("resolutions")},
	}, nil
}
