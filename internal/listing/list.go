package listing

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// Fetcher loads one page. Client methods such as (*client.Client).News fit.
type Fetcher[T any] func(ctx context.Context, p client.Params) (query.Page[T], error)

// State is a snapshot of a list. Loading, Err and an empty Items are the
// inputs render uses to pick what to show.
type State[T any] struct {
	Items      []query.Row[T]
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
	Search     string
	Filters    map[string]string
	Loading    bool
	Err        string
}

// Searching reports whether a search term is active.
func (s State[T]) Searching() bool { return query.Searching(s.Search) }

// ShowControls is false when there is nothing to page through.
func (s State[T]) ShowControls() bool { return s.TotalPages > 0 }

// CanPrev and CanNext are false at the boundaries and while a fetch is in flight.
func (s State[T]) CanPrev() bool { return !s.Loading && s.Page > 1 }
func (s State[T]) CanNext() bool { return !s.Loading && s.Page < s.TotalPages }

// List is the state of one paged list. Every change of search, filter or
// page starts a fetch; only the most recent fetch may update the state.
type List[T any] struct {
	fetch    Fetcher[T]
	onChange func(State[T])

	mu       sync.Mutex
	params   client.Params
	inflight client.Params
	state    State[T]
	gen      uint64
	seq      uint64
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// notifyMu orders OnChange calls; delivered is the seq of the newest
	// snapshot handed out. Older snapshots that lose the race are dropped.
	notifyMu  sync.Mutex
	delivered uint64
}

type ListOption[T any] func(*List[T])

// OnChange is called with every new state, outside the list's lock. Calls
// never overlap and never go back to an older state.
func OnChange[T any](f func(State[T])) ListOption[T] {
	return func(l *List[T]) { l.onChange = f }
}

// WithFilters sets the initial filter values. Empty values are unset.
func WithFilters[T any](filters map[string]string) ListOption[T] {
	return func(l *List[T]) {
		l.params.Filters = map[string]string{}
		for k, v := range filters {
			if v != "" {
				l.params.Filters[k] = v
			}
		}
	}
}

// StartAt sets the initial search and page.
func StartAt[T any](search string, page int) ListOption[T] {
	return func(l *List[T]) {
		l.params.Search = search
		if page > 1 {
			l.params.Page = page
		}
	}
}

func NewList[T any](fetch Fetcher[T], pageSize int, opts ...ListOption[T]) *List[T] {
	l := &List[T]{
		fetch:  fetch,
		params: client.Params{Page: 1, PageSize: pageSize, Filters: map[string]string{}},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.params.Filters == nil {
		l.params.Filters = map[string]string{}
	}
	l.state = State[T]{
		Page:     l.params.Page,
		Search:   l.params.Search,
		PageSize: pageSize,
		Filters:  maps.Clone(l.params.Filters),
	}
	return l
}

// Load fetches the current page.
func (l *List[T]) Load() {
	l.mu.Lock()
	l.start()
}

// SetSearch changes the search term and goes back to page 1.
func (l *List[T]) SetSearch(search string) {
	l.mu.Lock()
	if search == l.params.Search {
		l.mu.Unlock()
		return
	}
	l.params.Search = search
	l.params.Page = 1
	l.start()
}

// SetFilter changes one filter and goes back to page 1. An empty value
// unsets it.
func (l *List[T]) SetFilter(key, value string) {
	l.mu.Lock()
	if l.params.Filters[key] == value {
		l.mu.Unlock()
		return
	}
	if value == "" {
		delete(l.params.Filters, key)
	} else {
		l.params.Filters[key] = value
	}
	l.params.Page = 1
	l.start()
}

// SetPage moves to page, clamped into [1, TotalPages] once a total is known.
func (l *List[T]) SetPage(page int) {
	l.mu.Lock()
	if page < 1 {
		page = 1
	}
	if tp := l.state.TotalPages; tp > 0 && page > tp {
		page = tp
	}
	if page == l.params.Page {
		l.mu.Unlock()
		return
	}
	l.params.Page = page
	l.start()
}

// Next and Prev move one page. They do nothing at the boundaries and while
// a fetch is in flight.
func (l *List[T]) Next() { l.step(1) }
func (l *List[T]) Prev() { l.step(-1) }

func (l *List[T]) step(delta int) {
	l.mu.Lock()
	if (delta > 0 && !l.state.CanNext()) || (delta < 0 && !l.state.CanPrev()) {
		l.mu.Unlock()
		return
	}
	l.params.Page += delta
	l.start()
}

// State returns a copy of the current state.
func (l *List[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Wait blocks until no fetch is in flight.
func (l *List[T]) Wait() { l.wg.Wait() }

// Close cancels any in-flight fetch and waits for it to return.
func (l *List[T]) Close() {
	l.mu.Lock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	l.wg.Wait()
}

// start must be called with l.mu held; it releases it. A request identical
// to the one in flight is not sent again.
func (l *List[T]) start() {
	if l.state.Loading && l.params.Equal(l.inflight) {
		l.mu.Unlock()
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.gen++
	gen := l.gen
	params := l.params
	params.Filters = maps.Clone(l.params.Filters)
	l.inflight = params

	l.state.Loading = true
	l.state.Err = ""
	l.state.Page = params.Page
	l.state.Search = params.Search
	l.state.Filters = maps.Clone(params.Filters)
	snap, seq := l.snapshotSeq()
	l.wg.Add(1)
	l.mu.Unlock()

	l.notify(snap, seq)
	go func() {
		defer l.wg.Done()
		defer cancel()
		page, err := l.fetch(ctx, params)
		l.finish(gen, page, err)
	}()
}

func (l *List[T]) finish(gen uint64, page query.Page[T], err error) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.cancel = nil
	l.state.Loading = false
	if err != nil {
		l.state.Items = []query.Row[T]{}
		l.state.Total = 0
		l.state.TotalPages = 0
		l.state.Err = message(err)
	} else {
		l.state.Items = page.Rows
		l.state.Total = page.Total
		l.state.TotalPages = page.TotalPages
		if page.PageSize > 0 {
			l.state.PageSize = page.PageSize
		}
		l.state.Err = ""
	}
	snap, seq := l.snapshotSeq()
	l.mu.Unlock()
	l.notify(snap, seq)
}

func (l *List[T]) snapshot() State[T] {
	s := l.state
	s.Filters = maps.Clone(l.state.Filters)
	return s
}

// snapshotSeq must be called with l.mu held.
func (l *List[T]) snapshotSeq() (State[T], uint64) {
	l.seq++
	return l.snapshot(), l.seq
}

func (l *List[T]) notify(s State[T], seq uint64) {
	if l.onChange == nil {
		return
	}
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	if seq <= l.delivered {
		return
	}
	l.delivered = seq
	l.onChange(s)
}

func message(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
