package committees

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

// Init expects the members table to exist already; committee seats reference it.
func Init(d *gorm.DB, deps utils.ModuleDeps) (*Module, error) {
	if err := d.AutoMigrate(&Committee{}, &CommitteeMember{}); err != nil {
		return nil, fmt.Errorf("auto-migrate committees: %w", err)
	}
	if err := db.EnsureFullText(d, Committee{}.TableName(), deps.SearchConfig, SearchColumns...); err != nil {
		return nil, err
	}
	service := NewService(d, deps.QueryOptions(d)...)
	return &Module{
		Service:  service,
		handlers: &Handlers{service: service, log: deps.Log("committees")},
	}, nil
}
