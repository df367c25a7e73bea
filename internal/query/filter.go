package query

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TriState is a filter value that can be unset, true or false.
type TriState int8

const (
	Unset TriState = iota
	True
	False
)

// ParseTriState accepts "", "all", "true"/"1"/"yes" and "false"/"0"/"no".
func ParseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return Unset, nil
	case "true", "1", "yes", "on":
		return True, nil
	case "false", "0", "no", "off":
		return False, nil
	}
	return Unset, fmt.Errorf("invalid tri-state value %q", s)
}

// Bool returns the value and whether it is set.
func (t TriState) Bool() (value, ok bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	}
	return false, false
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return ""
}

// Filter is one predicate of a list query. Filters that are not Set are
// skipped so an unset filter never narrows the result.
type Filter interface {
	Set() bool
	Apply(tx *gorm.DB) *gorm.DB
}

type eqFilter struct {
	column string
	value  any
}

func (f eqFilter) Set() bool { return f.value != nil }

func (f eqFilter) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(clause.Eq{Column: clause.Column{Name: f.column}, Value: f.value})
}

// Eq is an unconditional equality predicate.
func Eq(column string, value any) Filter {
	return eqFilter{column: column, value: value}
}

// Bool is an equality predicate that only applies when t is set.
func Bool(column string, t TriState) Filter {
	if v, ok := t.Bool(); ok {
		return eqFilter{column: column, value: v}
	}
	return eqFilter{column: column}
}

// String is an equality predicate that only applies to non-blank values.
func String(column, value string) Filter {
	value = strings.TrimSpace(value)
	if value == "" {
		return eqFilter{column: column}
	}
	return eqFilter{column: column, value: value}
}

type boundFilter struct {
	column string
	at     *time.Time
	upper  bool
}

func (f boundFilter) Set() bool { return f.at != nil }

func (f boundFilter) Apply(tx *gorm.DB) *gorm.DB {
	col := clause.Column{Name: f.column}
	if f.upper {
		return tx.Where(clause.Lte{Column: col, Value: *f.at})
	}
	return tx.Where(clause.Gte{Column: col, Value: *f.at})
}

// From keeps rows whose column is on or after at. A nil at is unset.
func From(column string, at *time.Time) Filter {
	return boundFilter{column: column, at: at}
}

// Until keeps rows whose column is on or before at. A nil at is unset.
func Until(column string, at *time.Time) Filter {
	return boundFilter{column: column, at: at, upper: true}
}

type anyWordFilter struct {
	column string
	words  []string
}

func (f anyWordFilter) Set() bool { return len(f.words) > 0 }

func (f anyWordFilter) Apply(tx *gorm.DB) *gorm.DB {
	exprs := make([]clause.Expression, len(f.words))
	for i, w := range f.words {
		exprs[i] = likeExpr(tx, f.column, w)
	}
	return tx.Where(clause.Or(exprs...))
}

// AnyWord keeps rows whose column contains any whitespace-separated word of
// text, case-insensitively.
func AnyWord(column, text string) Filter {
	return anyWordFilter{column: column, words: strings.Fields(text)}
}

type unlessFilter struct {
	fallback Filter
	override Filter
}

func (f unlessFilter) Set() bool { return true }

func (f unlessFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.override.Set() {
		return f.override.Apply(tx)
	}
	return f.fallback.Apply(tx)
}

// Unless applies override when it is set and fallback otherwise.
func Unless(override, fallback Filter) Filter {
	return unlessFilter{fallback: fallback, override: override}
}
