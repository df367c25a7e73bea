package news

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

type NewsItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`
	Content    string    `gorm:"not null" json:"content"`
	IsFeatured bool      `gorm:"not null" json:"is_featured"`
	IsPriority bool      `gorm:"not null" json:"is_priority"`
	OrderIndex int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (NewsItem) TableName() string { return "news_items" }

func (n NewsItem) Key() string { return n.ID.String() }

func (n *NewsItem) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// SearchColumns are matched by free-text search and highlighted.
var SearchColumns = []string{"title", "content"}

// NewsForm is the body of a news submission.
type NewsForm struct {
	Title      string `json:"title"       validate:"required"`
	Date       string `json:"date"        validate:"required,datetime=2006-01-02"`
	Content    string `json:"content"     validate:"required,min=10"`
	IsFeatured *bool  `json:"is_featured"`
	IsPriority *bool  `json:"is_priority"`
}

// ListParams are the news list filters.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
	Featured query.TriState
	Priority query.TriState
}
