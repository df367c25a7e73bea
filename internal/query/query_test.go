package query

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/SB-Backend/internal/testdb"
)

type doc struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Category string    `json:"category"`
	Featured bool      `json:"featured"`
	Active   bool      `json:"active"`
	Date     time.Time `json:"date"`
}

func (d doc) Key() string { return d.ID }

func seedDocs(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db := testdb.Open(t, &doc{})
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := doc{
			ID:       fmt.Sprintf("d%02d", i),
			Title:    fmt.Sprintf("Item %d", i),
			Body:     "routine business",
			Category: "Finance",
			Featured: i%3 == 0,
			Active:   true,
			Date:     base.AddDate(0, 0, i),
		}
		require.NoError(t, db.Create(&d).Error)
	}
	return db
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"  flood   relief ", []string{"flood", "relief"}},
		{"", nil},
		{"   \t\n", nil},
		{"flood & (relief)", []string{"flood", "relief"}},
		{"o'neil", []string{"oneil"}},
		{"a:* | b", []string{"a", "b"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Tokenize(tc.in), "Tokenize(%q)", tc.in)
	}
}

func TestPrefixQuery(t *testing.T) {
	assert.Equal(t, "flood:* | relief:*", PrefixQuery([]string{"flood", "relief"}))
	assert.Equal(t, "", PrefixQuery(nil))
}

func TestRange(t *testing.T) {
	from, to := Range(3, 5)
	assert.Equal(t, 10, from)
	assert.Equal(t, 14, to)

	from, to = Range(1, 6)
	assert.Equal(t, 0, from)
	assert.Equal(t, 5, to)
}

func TestOffset(t *testing.T) {
	off, ok := Offset(3, 5)
	assert.True(t, ok)
	assert.Equal(t, 10, off)

	_, ok = Offset(math.MaxInt/4+2, 4)
	assert.False(t, ok)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 5))
	assert.Equal(t, 3, TotalPages(11, 5))
	assert.Equal(t, 2, TotalPages(10, 5))
	assert.Equal(t, 1, TotalPages(1, 5))
}

func TestNormalize(t *testing.T) {
	l := Limits{DefaultPageSize: 6, MaxPageSize: 20}
	r := l.Normalize(Request{Page: 0, PageSize: 0})
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 6, r.PageSize)

	r = l.Normalize(Request{Page: 2, PageSize: 500})
	assert.Equal(t, 2, r.Page)
	assert.Equal(t, 20, r.PageSize)
}

func TestParseTriState(t *testing.T) {
	for in, want := range map[string]TriState{
		"": Unset, "all": Unset, "true": True, "1": True, "false": False, "No": False,
	} {
		got, err := ParseTriState(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTriState("maybe")
	assert.Error(t, err)
}

func TestFetchPaging(t *testing.T) {
	db := seedDocs(t, 11)
	src := NewSource[doc](db, "docs", OrderBy(Desc("date")))

	page, err := src.Fetch(context.Background(), Request{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Current)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "d00", page.Rows[0].Record().ID)

	page, err = src.Fetch(context.Background(), Request{Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Rows, 5)
	assert.Equal(t, "d10", page.Rows[0].Record().ID)
	for _, r := range page.Rows {
		assert.IsType(t, Plain[doc]{}, r)
	}
}

func TestFetchPastLastPage(t *testing.T) {
	db := seedDocs(t, 4)
	src := NewSource[doc](db, "docs")

	page, err := src.Fetch(context.Background(), Request{Page: 9, PageSize: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestFetchHugePageStaysEmpty(t *testing.T) {
	db := seedDocs(t, 3)
	src := NewSource[doc](db, "docs")

	page, err := src.Fetch(context.Background(), Request{Page: math.MaxInt/4 + 2, PageSize: 4})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestEmptyTable(t *testing.T) {
	db := testdb.Open(t, &doc{})
	src := NewSource[doc](db, "docs")

	page, err := src.Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestTriStateToggleRestoresCount(t *testing.T) {
	db := seedDocs(t, 10)
	src := NewSource[doc](db, "docs")
	ctx := context.Background()

	fetch := func(ts TriState) int64 {
		page, err := src.Fetch(ctx, Request{Filters: []Filter{Bool("featured", ts)}})
		require.NoError(t, err)
		return page.Total
	}

	unfiltered := fetch(Unset)
	assert.Equal(t, int64(10), unfiltered)
	assert.Equal(t, int64(4), fetch(True))
	assert.Equal(t, int64(6), fetch(False))
	assert.Equal(t, unfiltered, fetch(Unset))
}

func TestBaseFilters(t *testing.T) {
	db := seedDocs(t, 5)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d01").Update("active", false).Error)
	src := NewSource[doc](db, "docs", WithBase(Eq("active", true)))

	page, err := src.Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)

	_, err = src.Get(context.Background(), "d01")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := src.Get(context.Background(), "d02")
	require.NoError(t, err)
	assert.Equal(t, "Item 2", got.Title)
}

func TestDateBounds(t *testing.T) {
	db := seedDocs(t, 10)
	src := NewSource[doc](db, "docs")
	from := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	page, err := src.Fetch(context.Background(), Request{Filters: []Filter{
		From("date", &from), Until("date", &until), From("date", nil),
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestAnyWordAndUnless(t *testing.T) {
	db := seedDocs(t, 3)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d00").Updates(map[string]any{
		"category": "Public Safety", "active": false,
	}).Error)
	src := NewSource[doc](db, "docs")
	ctx := context.Background()

	page, err := src.Fetch(ctx, Request{Filters: []Filter{AnyWord("category", "safety zoning")}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = src.Fetch(ctx, Request{Filters: []Filter{Unless(Bool("active", Unset), Eq("active", true))}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = src.Fetch(ctx, Request{Filters: []Filter{Unless(Bool("active", False), Eq("active", true))}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestSearchHighlights(t *testing.T) {
	db := seedDocs(t, 6)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d04").Update("title", "Flood relief fund").Error)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d02").Update("body", "Storm drain and flooding report").Error)
	src := NewSource[doc](db, "docs", WithSearch("title", "body"), OrderBy(Desc("date")))

	page, err := src.Fetch(context.Background(), Request{Search: "  FLOOD  "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Rows, 2)

	h, ok := page.Rows[0].(Highlighted[doc])
	require.True(t, ok, "expected highlighted row, got %T", page.Rows[0])
	assert.Equal(t, "d04", h.Item.ID)
	title, ok := h.Field("title")
	require.True(t, ok)
	assert.Equal(t, "<mark>Flood</mark> relief fund", title)
	_, ok = h.Field("body")
	assert.False(t, ok)

	h, ok = page.Rows[1].(Highlighted[doc])
	require.True(t, ok)
	assert.Len(t, h.Fields, 1)
	body, _ := h.Field("body")
	assert.Equal(t, "Storm drain and <mark>flood</mark>ing report", body)
}

func TestSearchWithoutColumnsIgnored(t *testing.T) {
	db := seedDocs(t, 3)
	src := NewSource[doc](db, "docs")

	page, err := src.Fetch(context.Background(), Request{Search: "nothing matches this"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestLikeEscapesWildcards(t *testing.T) {
	db := seedDocs(t, 3)
	src := NewSource[doc](db, "docs", WithSearch("title"))

	page, err := src.Fetch(context.Background(), Request{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestLikeGlobMetacharsAreLiteral(t *testing.T) {
	db := seedDocs(t, 3)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d01").Update("title", "Budget [draft] ready?").Error)
	src := NewSource[doc](db, "docs", WithSearch("title"))

	for q, want := range map[string]int64{"?": 1, "[draft]": 1, "[d": 1, "Item": 2} {
		page, err := src.Fetch(context.Background(), Request{Search: q})
		require.NoError(t, err, q)
		assert.Equal(t, want, page.Total, q)
	}
}

func TestLikeFoldsNonASCIICase(t *testing.T) {
	db := seedDocs(t, 3)
	require.NoError(t, db.Model(&doc{}).Where("id = ?", "d02").Updates(map[string]any{
		"title": "PARAÑAQUE Council", "category": "Ñino Relief",
	}).Error)
	src := NewSource[doc](db, "docs", WithSearch("title"))
	ctx := context.Background()

	for _, q := range []string{"parañaque", "PARAÑAQUE", "Parañaque", "council"} {
		page, err := src.Fetch(ctx, Request{Search: q})
		require.NoError(t, err, q)
		require.Equal(t, int64(1), page.Total, q)
		h, ok := page.Rows[0].(Highlighted[doc])
		require.True(t, ok, q)
		assert.Contains(t, h.Fields["title"], MarkOpen, q)
	}

	page, err := src.Fetch(ctx, Request{Filters: []Filter{AnyWord("category", "ñino")}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestFullTextMatchSQL(t *testing.T) {
	db := testdb.Open(t, &doc{})
	dry := db.Session(&gorm.Session{DryRun: true})

	var out []doc
	stmt := FullText{Config: "english"}.Match(dry.Table("docs"), []string{"flood", "relief"}, nil).Find(&out).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "@@ to_tsquery(")
	assert.Contains(t, sql, "fts_document")
	assert.Contains(t, stmt.Vars, "english")
	assert.Contains(t, stmt.Vars, "flood:* | relief:*")
}

func TestMatcherFor(t *testing.T) {
	db := testdb.Open(t)
	assert.Equal(t, "like", MatcherFor(db, "simple").Name())
}

func TestMark(t *testing.T) {
	assert.Equal(t, "<mark>Road</mark> closure on Main <mark>road</mark>", Mark("Road closure on Main road", []string{"road"}))
	assert.Equal(t, "a.b", Mark("a.b", []string{"x.y"}))
	assert.Equal(t, "plain", Mark("plain", nil))
}

func TestPageJSON(t *testing.T) {
	rows := []Row[doc]{
		Plain[doc]{Item: doc{ID: "a", Title: "Budget"}},
		Highlighted[doc]{Item: doc{ID: "b", Title: "Flood"}, Fields: map[string]string{"title": "<mark>Flood</mark>"}},
	}
	b, err := json.Marshal(NewPage(rows, 7, 2, 5))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.EqualValues(t, 7, raw["total"])
	assert.EqualValues(t, 2, raw["total_pages"])
	items := raw["items"].([]any)
	assert.NotContains(t, items[0].(map[string]any), "highlighted_title")
	assert.Equal(t, "<mark>Flood</mark>", items[1].(map[string]any)["highlighted_title"])

	var back Page[doc]
	require.NoError(t, json.Unmarshal(b, &back))
	assert.IsType(t, Plain[doc]{}, back.Rows[0])
	h := back.Rows[1].(Highlighted[doc])
	assert.Equal(t, "Flood", h.Item.Title)
	assert.Equal(t, "<mark>Flood</mark>", h.Fields["title"])
}

func TestNullHighlightStaysPlain(t *testing.T) {
	r, err := unmarshalRow[doc](json.RawMessage(`{"id":"x","highlighted_title":null}`))
	require.NoError(t, err)
	assert.IsType(t, Plain[doc]{}, r)
}
