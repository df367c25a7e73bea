package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Keyed records expose the key highlights are merged on.
type Keyed interface {
	Key() string
}

// Order is one ordering key.
type Order struct {
	Column    string
	Desc      bool
	NullsLast bool
}

func (o Order) String() string {
	var b strings.Builder
	b.WriteString(o.Column)
	if o.Desc {
		b.WriteString(" DESC")
	}
	if o.NullsLast {
		b.WriteString(" NULLS LAST")
	}
	return b.String()
}

// Asc and Desc are shorthands for the common orderings.
func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Observer is told about every fetch. Metrics hook in here.
type Observer interface {
	ObserveFetch(source string, searching bool, elapsed time.Duration, err error)
}

type settings struct {
	search   []string
	base     []Filter
	order    []Order
	scopes   []func(*gorm.DB) *gorm.DB
	matcher  Matcher
	observer Observer
	limits   Limits
}

// Option configures a Source.
type Option func(*settings)

// WithSearch names the columns free-text search applies to and highlights.
func WithSearch(columns ...string) Option {
	return func(s *settings) { s.search = append(s.search, columns...) }
}

// WithBase adds filters applied to every fetch, such as is_active = true.
func WithBase(filters ...Filter) Option {
	return func(s *settings) { s.base = append(s.base, filters...) }
}

// OrderBy sets the ordering keys in priority order.
func OrderBy(orders ...Order) Option {
	return func(s *settings) { s.order = append(s.order, orders...) }
}

// WithScope adds a GORM scope to the row query only, e.g. a Preload.
func WithScope(scope func(*gorm.DB) *gorm.DB) Option {
	return func(s *settings) { s.scopes = append(s.scopes, scope) }
}

func WithMatcher(m Matcher) Option {
	return func(s *settings) { s.matcher = m }
}

func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

func WithLimits(l Limits) Option {
	return func(s *settings) { s.limits = l }
}

// Source fetches pages of T from one table.
type Source[T Keyed] struct {
	db    *gorm.DB
	table string
	settings
}

// NewSource builds a paged source over table. Without WithMatcher the
// matcher is picked from the database dialect.
func NewSource[T Keyed](db *gorm.DB, table string, opts ...Option) *Source[T] {
	s := &Source[T]{db: db, table: table}
	s.limits = DefaultLimits
	for _, opt := range opts {
		opt(&s.settings)
	}
	if s.matcher == nil {
		s.matcher = MatcherFor(db, "")
	}
	return s
}

// Name is the table the source reads.
func (s *Source[T]) Name() string { return s.table }

// Limits returns the page size limits requests are normalized with.
func (s *Source[T]) Limits() Limits { return s.limits }

// Fetch runs one paged query: filters and search narrow the table, the
// exact count is taken, then the requested row range is read in order.
// When searching, rows the backend can highlight come back Highlighted.
func (s *Source[T]) Fetch(ctx context.Context, req Request) (page Page[T], err error) {
	req = s.limits.Normalize(req)
	tokens := Tokenize(req.Search)
	searching := len(tokens) > 0 && len(s.search) > 0

	if s.observer != nil {
		start := time.Now()
		defer func() { s.observer.ObserveFetch(s.table, searching, time.Since(start), err) }()
	}

	narrow := func(tx *gorm.DB) *gorm.DB {
		for _, f := range s.base {
			if f.Set() {
				tx = f.Apply(tx)
			}
		}
		for _, f := range req.Filters {
			if f != nil && f.Set() {
				tx = f.Apply(tx)
			}
		}
		if searching {
			tx = s.matcher.Match(tx, tokens, s.search)
		}
		return tx
	}

	var total int64
	if err := s.db.WithContext(ctx).Table(s.table).Scopes(narrow).Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count %s: %w", s.table, err)
	}

	from, ok := Offset(req.Page, req.PageSize)
	if !ok || int64(from) >= total {
		return NewPage[T](nil, total, req.Page, req.PageSize), nil
	}

	var items []T
	tx := s.db.WithContext(ctx).Table(s.table).Scopes(narrow).Scopes(s.scopes...)
	for _, o := range s.order {
		tx = tx.Order(o.String())
	}
	if err := tx.Order("id").Offset(from).Limit(req.PageSize).Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("fetch %s: %w", s.table, err)
	}

	rows := make([]Row[T], len(items))
	var marks map[string]map[string]string
	if h, ok := s.matcher.(Highlighter); ok && searching && len(items) > 0 {
		keys := make([]string, len(items))
		for i, it := range items {
			keys[i] = it.Key()
		}
		marks, err = h.Highlight(ctx, s.db, s.table, keys, tokens, s.search)
		if err != nil {
			return Page[T]{}, err
		}
	}
	for i, it := range items {
		rows[i] = NewRow(it, marks[it.Key()])
	}
	return NewPage(rows, total, req.Page, req.PageSize), nil
}

// Get reads one row by id with the base filters and extra applied. It
// returns gorm.ErrRecordNotFound when nothing matches.
func (s *Source[T]) Get(ctx context.Context, id string, extra ...Filter) (T, error) {
	var item T
	tx := s.db.WithContext(ctx).Table(s.table).Scopes(s.scopes...)
	for _, f := range append(append([]Filter{}, s.base...), extra...) {
		if f != nil && f.Set() {
			tx = f.Apply(tx)
		}
	}
	err := tx.Where("id = ?", id).Take(&item).Error
	return item, err
}
