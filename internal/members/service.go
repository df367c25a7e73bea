package members

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

var ErrNotFound = errors.New("member not found")

type Service struct {
	source *query.Source[Member]
}

func NewService(d *gorm.DB, opts ...query.Option) *Service {
	return &Service{
		source: query.NewSource[Member](d, Member{}.TableName(), append([]query.Option{
			query.WithSearch(SearchColumns...),
			query.OrderBy(query.Asc("name")),
		}, opts...)...),
	}
}

func (s *Service) List(ctx context.Context, p ListParams) (query.Page[Member], error) {
	return s.source.Fetch(ctx, query.Request{
		Search:   p.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
		Filters:  []query.Filter{query.Bool("is_leadership", p.Leadership)},
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Member, error) {
	m, err := s.source.Get(ctx, id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Member{}, ErrNotFound
	}
	return m, err
}
