package committees

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

var ErrNotFound = errors.New("committee not found")

type Service struct {
	source *query.Source[Committee]

	mu       sync.Mutex
	collator *collate.Collator
}

func NewService(d *gorm.DB, opts ...query.Option) *Service {
	return &Service{
		source: query.NewSource[Committee](d, Committee{}.TableName(), append([]query.Option{
			query.WithSearch(SearchColumns...),
			query.OrderBy(query.Asc("name")),
			query.WithScope(func(tx *gorm.DB) *gorm.DB {
				return tx.Preload("CommitteeMembers.Member")
			}),
		}, opts...)...),
		collator: collate.New(language.English),
	}
}

func (s *Service) List(ctx context.Context, req query.Request) (query.Page[Committee], error) {
	page, err := s.source.Fetch(ctx, req)
	if err != nil {
		return page, err
	}
	for _, r := range page.Rows {
		s.SortMembers(r.Record().CommitteeMembers)
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Committee, error) {
	c, err := s.source.Get(ctx, id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Committee{}, ErrNotFound
	}
	if err != nil {
		return Committee{}, err
	}
	s.SortMembers(c.CommitteeMembers)
	return c, nil
}

// SortMembers orders seats Chairman first, then Vice Chairman, then everyone
// else by member name.
func (s *Service) SortMembers(seats []CommitteeMember) {
	// A Collator keeps internal buffers and is not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()
	slices.SortStableFunc(seats, func(a, b CommitteeMember) int {
		ra, rb := rank(a.Role), rank(b.Role)
		if ra != rb {
			return ra - rb
		}
		if ra < 2 {
			return 0
		}
		return s.collator.CompareString(memberName(a), memberName(b))
	})
}

func rank(role string) int {
	switch role {
	case RoleChairman:
		return 0
	case RoleViceChairman:
		return 1
	}
	return 2
}

func memberName(cm CommitteeMember) string {
	if cm.Member == nil {
		return ""
	}
	return cm.Member.Name
}
