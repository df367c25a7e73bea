package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

var ErrNotFound = errors.New("news item not found")

// ValidationError carries the first message a submitter should see.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var messages = map[string]string{
	"Title.required":   "Title is required",
	"Date.required":    "Date is required",
	"Date.datetime":    "Date must be in YYYY-MM-DD format",
	"Content.required": "Content is required",
	"Content.min":      "Content must be at least 10 characters long",
}

var validate = validator.New()

type Service struct {
	db     *gorm.DB
	source *query.Source[NewsItem]
}

func NewService(d *gorm.DB, opts ...query.Option) *Service {
	opts = append([]query.Option{
		query.WithSearch(SearchColumns...),
		query.OrderBy(query.Desc("date"), query.Asc("order_index")),
	}, opts...)
	return &Service{
		db:     d,
		source: query.NewSource[NewsItem](d, NewsItem{}.TableName(), opts...),
	}
}

func (s *Service) List(ctx context.Context, p ListParams) (query.Page[NewsItem], error) {
	return s.source.Fetch(ctx, query.Request{
		Search:   p.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
		Filters: []query.Filter{
			query.Bool("is_featured", p.Featured),
			query.Bool("is_priority", p.Priority),
		},
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (NewsItem, error) {
	item, err := s.source.Get(ctx, id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewsItem{}, ErrNotFound
	}
	return item, err
}

// ValidateForm trims the form and checks it, returning a *ValidationError
// with the first failing rule's message. Clients run it before submitting.
func ValidateForm(form *NewsForm) error {
	form.Title = strings.TrimSpace(form.Title)
	form.Date = strings.TrimSpace(form.Date)
	form.Content = strings.TrimSpace(form.Content)

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return &ValidationError{Message: "Invalid input"}
	}
	fe := ve[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return &ValidationError{Message: msg}
	}
	return &ValidationError{Message: fmt.Sprintf("%s is invalid", fe.Field())}
}

// Create validates form and appends a news item. Unset flags default to
// priority and not featured.
func (s *Service) Create(ctx context.Context, form NewsForm) (NewsItem, error) {
	if err := ValidateForm(&form); err != nil {
		return NewsItem{}, err
	}
	date, err := time.Parse(time.DateOnly, form.Date)
	if err != nil {
		return NewsItem{}, &ValidationError{Message: "Date must be in YYYY-MM-DD format"}
	}
	item := NewsItem{
		Title:      form.Title,
		Date:       date,
		Content:    form.Content,
		IsFeatured: false,
		IsPriority: true,
	}
	if form.IsFeatured != nil {
		item.IsFeatured = *form.IsFeatured
	}
	if form.IsPriority != nil {
		item.IsPriority = *form.IsPriority
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return NewsItem{}, fmt.Errorf("insert news item: %w", err)
	}
	return item, nil
}
