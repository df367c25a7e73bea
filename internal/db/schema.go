package db

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DocumentColumn is the generated tsvector column full-text search runs on.
const DocumentColumn = "fts_document"

// IsPostgres reports whether d talks to Postgres.
func IsPostgres(d *gorm.DB) bool {
	return d.Dialector.Name() == "postgres"
}

// EnsureFullText adds a stored tsvector column built from columns to table,
// plus a GIN index over it. It is a no-op on databases without text search.
func EnsureFullText(d *gorm.DB, table, searchConfig string, columns ...string) error {
	if !IsPostgres(d) || len(columns) == 0 {
		return nil
	}
	for _, stmt := range FullTextDDL(table, searchConfig, columns...) {
		if err := d.Exec(stmt).Error; err != nil {
			return fmt.Errorf("full-text setup for %s: %w", table, err)
		}
	}
	return nil
}

// FullTextDDL renders the statements EnsureFullText runs.
func FullTextDDL(table, searchConfig string, columns ...string) []string {
	if searchConfig == "" {
		searchConfig = "simple"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("coalesce(%s, '')", pq.QuoteIdentifier(c))
	}
	t := pq.QuoteIdentifier(table)
	return []string{
		fmt.Sprintf(
			"ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s tsvector GENERATED ALWAYS AS (to_tsvector(%s::regconfig, %s)) STORED",
			t, pq.QuoteIdentifier(DocumentColumn), pq.QuoteLiteral(searchConfig), strings.Join(parts, " || ' ' || "),
		),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (%s)",
			pq.QuoteIdentifier(table+"_fts_idx"), t, pq.QuoteIdentifier(DocumentColumn),
		),
	}
}
