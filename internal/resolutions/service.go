package resolutions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

var (
	ErrNotFound          = errors.New("resolution not found")
	ErrOrdinanceNotFound = errors.New("ordinance not found")
)

var activeOnly = query.Eq("is_active", true)

type Service struct {
	resolutions *query.Source[Resolution]
	ordinances  *query.Source[Resolution]
}

func NewService(d *gorm.DB, opts ...query.Option) *Service {
	table := Resolution{}.TableName()
	return &Service{
		resolutions: query.NewSource[Resolution](d, table, append([]query.Option{
			query.WithSearch(SearchColumns...),
			query.WithBase(activeOnly),
			query.OrderBy(query.Desc("date_approved")),
		}, opts...)...),
		ordinances: query.NewSource[Resolution](d, table, append([]query.Option{
			query.WithSearch(SearchColumns...),
			query.WithBase(query.Eq("with_ordinance", true)),
			query.OrderBy(
				query.Order{Column: "effective_date", Desc: true, NullsLast: true},
				query.Desc("date_approved"),
			),
		}, opts...)...),
	}
}

// List returns active resolutions, newest approval first.
func (s *Service) List(ctx context.Context, p ListParams) (query.Page[Resolution], error) {
	return s.resolutions.Fetch(ctx, query.Request{
		Search:   p.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
		Filters: []query.Filter{
			query.String("category", p.Category),
			query.Bool("is_featured", p.Featured),
			query.Bool("with_ordinance", p.WithOrdinance),
		},
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Resolution, error) {
	r, err := s.resolutions.Get(ctx, id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{}, ErrNotFound
	}
	return r, err
}

// Ordinances lists resolutions that carry an ordinance. Category matches any
// of its words as a substring. Without an explicit active filter only active
// ordinances are returned.
func (s *Service) Ordinances(ctx context.Context, p OrdinanceParams) (query.Page[Resolution], error) {
	return s.ordinances.Fetch(ctx, query.Request{
		Search:   p.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
		Filters: []query.Filter{
			query.AnyWord("category", p.Category),
			query.Unless(query.Bool("is_active", p.Active), activeOnly),
			query.From("effective_date", p.EffectiveFrom),
			query.Until("effective_date", p.EffectiveTo),
		},
	})
}

func (s *Service) Ordinance(ctx context.Context, id uuid.UUID) (Resolution, error) {
	r, err := s.ordinances.Get(ctx, id.String(), activeOnly)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{}, ErrOrdinanceNotFound
	}
	return r, err
}
