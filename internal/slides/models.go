package slides

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slide is one landing-page carousel entry.
type Slide struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ImageURL   string    `json:"image_url"`
	Thrust     string    `json:"thrust"`
	Quote      string    `json:"quote"`
	Author     string    `json:"author"`
	Position   string    `json:"position"`
	OrderIndex int       `gorm:"not null;index" json:"order_index"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Slide) TableName() string { return "slides" }

func (s Slide) Key() string { return s.ID.String() }

func (s *Slide) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
