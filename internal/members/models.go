package members

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

type Member struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                      `gorm:"not null;index" json:"name"`
	Title        string                      `json:"title"`
	Position     string                      `json:"position"`
	ImageURL     string                      `json:"image_url"`
	Biography    string                      `json:"biography"`
	TermStart    *time.Time                  `gorm:"type:date" json:"term_start"`
	TermEnd      *time.Time                  `gorm:"type:date" json:"term_end"`
	IsLeadership bool                        `gorm:"not null" json:"is_leadership"`
	Achievements datatypes.JSONSlice[string] `json:"achievements"`
	Education    datatypes.JSONSlice[string] `json:"education"`
	Experience   datatypes.JSONSlice[string] `json:"experience"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (Member) TableName() string { return "members" }

func (m Member) Key() string { return m.ID.String() }

func (m *Member) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SearchColumns are matched by free-text search and highlighted.
var SearchColumns = []string{"name", "position", "biography"}

type ListParams struct {
	Search     string
	Page       int
	PageSize   int
	Leadership query.TriState
}
