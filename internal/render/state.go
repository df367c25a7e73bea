// Package render turns list state into what a reader sees: one of four
// mutually exclusive states, cards built from result rows, and paging
// controls.
package render

import (
	"fmt"

	"github.com/EmpoweredVote/SB-Backend/internal/listing"
)

type Kind int

const (
	Loading Kind = iota
	Failed
	Empty
	Populated
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Empty:
		return "empty"
	default:
		return "populated"
	}
}

// Status is the resolved state of one list. Title and Detail are only set
// for Failed and Empty.
type Status struct {
	Kind   Kind
	Title  string
	Detail string
}

// Resolve picks the state to show. A failure wins over an empty result, so
// a failed fetch never reads as "no results".
func Resolve[T any](s listing.State[T], noun string) Status {
	switch {
	case s.Loading:
		return Status{Kind: Loading}
	case s.Err != "":
		return Status{Kind: Failed, Title: "Something went wrong", Detail: s.Err}
	case len(s.Items) == 0:
		title, detail := EmptyCopy(noun, s.Searching())
		return Status{Kind: Empty, Title: title, Detail: detail}
	default:
		return Status{Kind: Populated}
	}
}

// EmptyCopy is the no-results text for a list of noun (plural).
func EmptyCopy(noun string, searching bool) (title, detail string) {
	if searching {
		return fmt.Sprintf("No matching %s found", noun), "Try adjusting your search terms or filters."
	}
	return fmt.Sprintf("No %s available", noun), fmt.Sprintf("Check back later for new %s.", noun)
}

// SearchSummary is the line shown under the search box. It is empty when no
// search is active.
func SearchSummary[T any](s listing.State[T]) string {
	if !s.Searching() {
		return ""
	}
	if s.Loading {
		return "Searching..."
	}
	out := fmt.Sprintf("Found %d %s for %q", s.Total, plural(s.Total, "result", "results"), s.Search)
	if len(s.Filters) > 0 {
		out += " with current filters"
	}
	return out
}

// Pager describes the prev/next controls for a list.
type Pager struct {
	Show  bool
	Prev  bool
	Next  bool
	Label string
}

func Controls[T any](s listing.State[T]) Pager {
	if !s.ShowControls() {
		return Pager{}
	}
	return Pager{
		Show:  true,
		Prev:  s.CanPrev(),
		Next:  s.CanNext(),
		Label: fmt.Sprintf("Page %d of %d (%d %s)", s.Page, s.TotalPages, s.Total, plural(s.Total, "item", "items")),
	}
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
