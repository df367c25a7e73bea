package query

import (
	"encoding/json"
	"strings"
)

// HighlightPrefix marks the wire fields that carry highlighted markup, e.g.
// "highlighted_title".
const HighlightPrefix = "highlighted_"

// Row is one list result. It is either Plain or Highlighted; rendering code
// switches on the concrete type instead of probing optional fields.
type Row[T any] interface {
	Record() T
	isRow()
}

// Plain is a row returned without highlight markup.
type Plain[T any] struct {
	Item T
}

func (p Plain[T]) Record() T { return p.Item }
func (Plain[T]) isRow()      {}

// Highlighted is a row returned by an active search. Fields maps a column
// name to the same text with matches wrapped in <mark></mark>.
type Highlighted[T any] struct {
	Item   T
	Fields map[string]string
}

func (h Highlighted[T]) Record() T { return h.Item }
func (Highlighted[T]) isRow()      {}

// Field returns the highlighted markup for column, if the backend produced one.
func (h Highlighted[T]) Field(column string) (string, bool) {
	s, ok := h.Fields[column]
	return s, ok
}

// NewRow picks the row variant: rows without any highlight stay Plain.
func NewRow[T any](item T, fields map[string]string) Row[T] {
	if len(fields) == 0 {
		return Plain[T]{Item: item}
	}
	return Highlighted[T]{Item: item, Fields: fields}
}

func marshalRow[T any](r Row[T]) ([]byte, error) {
	b, err := json.Marshal(r.Record())
	if err != nil {
		return nil, err
	}
	h, ok := r.(Highlighted[T])
	if !ok {
		return b, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	for col, markup := range h.Fields {
		v, err := json.Marshal(markup)
		if err != nil {
			return nil, err
		}
		obj[HighlightPrefix+col] = v
	}
	return json.Marshal(obj)
}

func unmarshalRow[T any](raw json.RawMessage) (Row[T], error) {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	var fields map[string]string
	for k, v := range obj {
		col, ok := strings.CutPrefix(k, HighlightPrefix)
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil || s == nil {
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[col] = *s
	}
	return NewRow(item, fields), nil
}
