package resolutions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// Resolution is a council resolution. Rows with WithOrdinance set double as
// ordinances.
type Resolution struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResolutionNumber string     `gorm:"not null;index" json:"resolution_number"`
	OrdinanceNumber  *string    `json:"ordinance_number"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	DateApproved     time.Time  `gorm:"type:date;not null;index" json:"date_approved"`
	EffectiveDate    *time.Time `gorm:"type:date" json:"effective_date"`
	Category         *string    `json:"category"`
	IsActive         bool       `gorm:"not null;index" json:"is_active"`
	WithOrdinance    bool       `gorm:"not null;index" json:"with_ordinance"`
	IsFeatured       bool       `gorm:"not null" json:"is_featured"`
	FileURL          *string    `json:"file_url"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Resolution) TableName() string { return "resolutions" }

func (r Resolution) Key() string { return r.ID.String() }

func (r *Resolution) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SearchColumns are matched by free-text search and highlighted.
var SearchColumns = []string{"title", "description", "resolution_number", "ordinance_number", "category"}

type ListParams struct {
	Search        string
	Page          int
	PageSize      int
	Category      string
	Featured      query.TriState
	WithOrdinance query.TriState
}

type OrdinanceParams struct {
	Search        string
	Page          int
	PageSize      int
	Category      string
	Active        query.TriState
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
}
