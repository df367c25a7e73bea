package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Highlight markers wrapped around matched terms.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Matcher narrows a query to rows matching any of the search tokens.
type Matcher interface {
	Name() string
	Match(tx *gorm.DB, tokens, columns []string) *gorm.DB
}

// Highlighter returns highlighted markup for the given rows, keyed by row
// key then column.
type Highlighter interface {
	Highlight(ctx context.Context, db *gorm.DB, table string, keys, tokens, columns []string) (map[string]map[string]string, error)
}

// FullText matches against a Postgres tsvector column with prefix queries
// and highlights through ts_headline.
type FullText struct {
	Config   string
	Document string
}

func (FullText) Name() string { return "fulltext" }

func (f FullText) Match(tx *gorm.DB, tokens, _ []string) *gorm.DB {
	if len(tokens) == 0 {
		return tx
	}
	return tx.Where("? @@ to_tsquery(?::regconfig, ?)", clause.Column{Name: f.document()}, f.config(), PrefixQuery(tokens))
}

func (f FullText) Highlight(ctx context.Context, db *gorm.DB, table string, keys, tokens, columns []string) (map[string]map[string]string, error) {
	if len(keys) == 0 || len(tokens) == 0 || len(columns) == 0 {
		return nil, nil
	}
	tsq := PrefixQuery(tokens)
	selects := []string{"CAST(id AS TEXT) AS row_key"}
	vars := make([]any, 0, len(columns)*2)
	for _, col := range columns {
		q := pq.QuoteIdentifier(col)
		selects = append(selects, fmt.Sprintf(
			"ts_headline(?::regconfig, coalesce(%s, ''), to_tsquery(?::regconfig, ?), 'StartSel=%s, StopSel=%s, HighlightAll=true') AS %s",
			q, MarkOpen, MarkClose, q))
		vars = append(vars, f.config(), f.config(), tsq)
	}
	return scanHighlights(ctx, db.Table(table).Select(strings.Join(selects, ", "), vars...), keys, nil)
}

func (f FullText) config() string {
	if f.Config == "" {
		return "simple"
	}
	return f.Config
}

func (f FullText) document() string {
	if f.Document == "" {
		return "fts_document"
	}
	return f.Document
}

// Like matches any token as a case-insensitive substring of any searchable
// column. It works on every dialect GORM supports and is used for SQLite.
type Like struct{}

func (Like) Name() string { return "like" }

func (Like) Match(tx *gorm.DB, tokens, columns []string) *gorm.DB {
	if len(tokens) == 0 || len(columns) == 0 {
		return tx
	}
	exprs := make([]clause.Expression, 0, len(tokens)*len(columns))
	for _, tok := range tokens {
		for _, col := range columns {
			exprs = append(exprs, likeExpr(tx, col, tok))
		}
	}
	return tx.Where(clause.Or(exprs...))
}

func (Like) Highlight(ctx context.Context, db *gorm.DB, table string, keys, tokens, columns []string) (map[string]map[string]string, error) {
	if len(keys) == 0 || len(tokens) == 0 || len(columns) == 0 {
		return nil, nil
	}
	selects := []string{"CAST(id AS TEXT) AS row_key"}
	for _, col := range columns {
		selects = append(selects, db.Statement.Quote(col))
	}
	return scanHighlights(ctx, db.Table(table).Select(strings.Join(selects, ", ")), keys, func(s string) string {
		return Mark(s, tokens)
	})
}

// MatcherFor picks the full-text matcher on Postgres and Like elsewhere.
func MatcherFor(db *gorm.DB, searchConfig string) Matcher {
	if db.Dialector.Name() == "postgres" {
		return FullText{Config: searchConfig}
	}
	return Like{}
}

// Mark wraps every case-insensitive occurrence of any token in s with
// <mark></mark>. Text is not escaped; callers render it as markup.
func Mark(s string, tokens []string) string {
	if s == "" || len(tokens) == 0 {
		return s
	}
	alts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			alts = append(alts, regexp.QuoteMeta(t))
		}
	}
	if len(alts) == 0 {
		return s
	}
	re := regexp.MustCompile("(?i)(" + strings.Join(alts, "|") + ")")
	return re.ReplaceAllString(s, MarkOpen+"$1"+MarkClose)
}

// likeExpr matches word anywhere in column, ignoring case. SQLite's LOWER
// and LIKE only fold ASCII, so there each letter of word becomes a GLOB
// class of its case variants instead.
func likeExpr(tx *gorm.DB, column, word string) clause.Expression {
	if tx.Dialector.Name() == "sqlite" {
		return clause.Expr{
			SQL:  "? GLOB ?",
			Vars: []any{clause.Column{Name: column}, "*" + foldPattern(word) + "*"},
		}
	}
	return clause.Expr{
		SQL:  `LOWER(?) LIKE LOWER(?) ESCAPE '\'`,
		Vars: []any{clause.Column{Name: column}, "%" + escapeLike(word) + "%"},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// foldPattern turns word into a GLOB pattern matching it in any letter case.
// Glob metacharacters are bracketed so they match literally.
func foldPattern(word string) string {
	var b strings.Builder
	for _, r := range word {
		switch {
		case r == '*' || r == '?' || r == '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		case unicode.SimpleFold(r) != r:
			b.WriteByte('[')
			for f := r; ; {
				b.WriteRune(f)
				if f = unicode.SimpleFold(f); f == r {
					break
				}
			}
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func scanHighlights(ctx context.Context, tx *gorm.DB, keys []string, post func(string) string) (map[string]map[string]string, error) {
	var rows []map[string]any
	if err := tx.WithContext(ctx).Where("id IN ?", keys).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	out := make(map[string]map[string]string, len(rows))
	for _, r := range rows {
		key := asString(r["row_key"])
		if key == "" {
			continue
		}
		fields := make(map[string]string, len(r)-1)
		for col, v := range r {
			if col == "row_key" {
				continue
			}
			s := asString(v)
			if post != nil {
				s = post(s)
			}
			if strings.Contains(s, MarkOpen) {
				fields[col] = s
			}
		}
		out[key] = fields
	}
	return out, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
