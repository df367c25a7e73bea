package slides

import (
	"context"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

type Service struct {
	source *query.Source[Slide]
}

// NewService lists active slides in carousel order. Slides are not searchable.
func NewService(d *gorm.DB, opts ...query.Option) *Service {
	return &Service{
		source: query.NewSource[Slide](d, Slide{}.TableName(), append([]query.Option{
			query.WithBase(query.Eq("is_active", true)),
			query.OrderBy(query.Asc("order_index")),
		}, opts...)...),
	}
}

func (s *Service) List(ctx context.Context, req query.Request) (query.Page[Slide], error) {
	req.Search = ""
	return s.source.Fetch(ctx, req)
}
