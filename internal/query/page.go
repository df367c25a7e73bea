package query

import (
	"encoding/json"
	"fmt"
	"math"
)

// Range returns the zero-based, inclusive row range for a 1-based page.
func Range(page, size int) (from, to int) {
	return (page - 1) * size, page*size - 1
}

// Offset is the number of rows before a 1-based page. ok is false when the
// offset does not fit in an int; no such page can hold rows.
func Offset(page, size int) (offset int, ok bool) {
	if page < 1 || size < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/size {
		return 0, false
	}
	return (page - 1) * size, true
}

// TotalPages is ceil(total/size); zero when there is nothing to page through.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Request describes one page of a list.
type Request struct {
	Search   string
	Page     int
	PageSize int
	Filters  []Filter
}

// Limits bounds the page size a caller may ask for.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits match the page size the site lists use.
var DefaultLimits = Limits{DefaultPageSize: 6, MaxPageSize: 50}

// Normalize fills in the page and page size defaults and caps the page size.
func (l Limits) Normalize(r Request) Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = l.DefaultPageSize
	}
	if l.MaxPageSize > 0 && r.PageSize > l.MaxPageSize {
		r.PageSize = l.MaxPageSize
	}
	return r
}

// Page is one page of rows plus the exact total row count of the list.
type Page[T any] struct {
	Rows       []Row[T]
	Total      int64
	Current    int
	PageSize   int
	TotalPages int
}

// NewPage derives TotalPages from total and size.
func NewPage[T any](rows []Row[T], total int64, page, size int) Page[T] {
	if rows == nil {
		rows = []Row[T]{}
	}
	return Page[T]{
		Rows:       rows,
		Total:      total,
		Current:    page,
		PageSize:   size,
		TotalPages: TotalPages(total, size),
	}
}

// Records drops highlight information.
func (p Page[T]) Records() []T {
	out := make([]T, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Record()
	}
	return out
}

type pageJSON struct {
	Items      []json.RawMessage `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func (p Page[T]) MarshalJSON() ([]byte, error) {
	out := pageJSON{
		Items:      make([]json.RawMessage, 0, len(p.Rows)),
		Total:      p.Total,
		Page:       p.Current,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
	for i, r := range p.Rows {
		b, err := marshalRow(r)
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		out.Items = append(out.Items, b)
	}
	return json.Marshal(out)
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var in pageJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	rows := make([]Row[T], 0, len(in.Items))
	for i, raw := range in.Items {
		r, err := unmarshalRow[T](raw)
		if err != nil {
			return fmt.Errorf("decode row %d: %w", i, err)
		}
		rows = append(rows, r)
	}
	*p = Page[T]{
		Rows:       rows,
		Total:      in.Total,
		Current:    in.Page,
		PageSize:   in.PageSize,
		TotalPages: in.TotalPages,
	}
	return nil
}
