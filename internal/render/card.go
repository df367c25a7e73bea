package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/EmpoweredVote/SB-Backend/internal/committees"
	"github.com/EmpoweredVote/SB-Backend/internal/members"
	"github.com/EmpoweredVote/SB-Backend/internal/news"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/resolutions"
	"github.com/EmpoweredVote/SB-Backend/internal/slides"
)

// DefaultImage replaces member and slide images that are missing or not a
// usable URL.
const DefaultImage = "https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg?auto=compress&cs=tinysrgb&w=400"

// Text is a field value. Markup is set when Value is server-highlighted
// markup rather than plain text.
type Text struct {
	Value  string
	Markup bool
}

// Card is one rendered row.
type Card struct {
	ID      string
	Title   Text
	Meta    []string
	Body    Text
	Image   string
	Tags    []string
	Matches int
}

// Badge is the decorative match count, empty when nothing matched.
func (c Card) Badge() string {
	switch c.Matches {
	case 0:
		return ""
	case 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", c.Matches)
	}
}

// Pick returns the highlighted markup for column when the row carries one,
// and plain otherwise.
func Pick[T any](row query.Row[T], column, plain string) Text {
	if h, ok := row.(query.Highlighted[T]); ok {
		if v, ok := h.Field(column); ok {
			return Text{Value: v, Markup: true}
		}
	}
	return Text{Value: plain}
}

// CountMarks counts highlight markers in s.
func CountMarks(s string) int {
	return strings.Count(s, query.MarkOpen)
}

// Matches counts markers across every highlighted field of row.
func Matches[T any](row query.Row[T]) int {
	h, ok := row.(query.Highlighted[T])
	if !ok {
		return 0
	}
	n := 0
	for _, v := range h.Fields {
		n += CountMarks(v)
	}
	return n
}

// ImageSource returns raw when it is an absolute http(s) URL and fallback
// otherwise.
func ImageSource(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fallback
	}
	return raw
}

// Cards maps rows with build.
func Cards[T any](rows []query.Row[T], build func(query.Row[T]) Card) []Card {
	out := make([]Card, 0, len(rows))
	for _, r := range rows {
		out = append(out, build(r))
	}
	return out
}

const dateLayout = "January 2, 2006"

func day(t time.Time) string { return t.Format(dateLayout) }

func NewsCard(row query.Row[news.NewsItem]) Card {
	n := row.Record()
	c := Card{
		ID:      n.ID.String(),
		Title:   Pick(row, "title", n.Title),
		Meta:    []string{day(n.Date)},
		Body:    Pick(row, "content", n.Content),
		Matches: Matches(row),
	}
	if n.IsFeatured {
		c.Tags = append(c.Tags, "Featured")
	}
	if n.IsPriority {
		c.Tags = append(c.Tags, "Priority")
	}
	return c
}

func ResolutionCard(row query.Row[resolutions.Resolution]) Card {
	r := row.Record()
	number := Pick(row, "resolution_number", r.ResolutionNumber)
	c := Card{
		ID:      r.ID.String(),
		Title:   Pick(row, "title", r.Title),
		Meta:    []string{"Resolution " + number.Value, "Approved " + day(r.DateApproved)},
		Body:    Pick(row, "description", r.Description),
		Matches: Matches(row),
	}
	if r.Category != nil && *r.Category != "" {
		c.Tags = append(c.Tags, Pick(row, "category", *r.Category).Value)
	}
	if r.IsFeatured {
		c.Tags = append(c.Tags, "Featured")
	}
	return c
}

func OrdinanceCard(row query.Row[resolutions.Resolution]) Card {
	c := ResolutionCard(row)
	r := row.Record()
	meta := make([]string, 0, 3)
	if r.OrdinanceNumber != nil {
		meta = append(meta, "Ordinance "+Pick(row, "ordinance_number", *r.OrdinanceNumber).Value)
	}
	if r.EffectiveDate != nil {
		meta = append(meta, "Effective "+day(*r.EffectiveDate))
	}
	c.Meta = append(meta, c.Meta...)
	if r.IsActive {
		c.Tags = append(c.Tags, "Active")
	} else {
		c.Tags = append(c.Tags, "Inactive")
	}
	return c
}

func MemberCard(row query.Row[members.Member]) Card {
	m := row.Record()
	c := Card{
		ID:      m.ID.String(),
		Title:   Pick(row, "name", m.Name),
		Meta:    []string{Pick(row, "position", m.Position).Value},
		Body:    Pick(row, "biography", m.Biography),
		Image:   ImageSource(m.ImageURL, DefaultImage),
		Matches: Matches(row),
	}
	if m.Title != "" {
		c.Meta = append([]string{m.Title}, c.Meta...)
	}
	if m.IsLeadership {
		c.Tags = append(c.Tags, "Leadership")
	}
	return c
}

func CommitteeCard(row query.Row[committees.Committee]) Card {
	cm := row.Record()
	c := Card{
		ID:      cm.ID.String(),
		Title:   Pick(row, "name", cm.Name),
		Body:    Pick(row, "description", cm.Description),
		Matches: Matches(row),
	}
	if cm.Jurisdiction != "" {
		c.Meta = append(c.Meta, Pick(row, "jurisdiction", cm.Jurisdiction).Value)
	}
	for _, m := range cm.CommitteeMembers {
		if m.Member != nil {
			c.Tags = append(c.Tags, m.Role+": "+m.Member.Name)
		}
	}
	return c
}

func SlideCard(row query.Row[slides.Slide]) Card {
	s := row.Record()
	c := Card{
		ID:    s.ID.String(),
		Title: Text{Value: s.Thrust},
		Body:  Text{Value: s.Quote},
		Image: ImageSource(s.ImageURL, DefaultImage),
	}
	switch {
	case s.Author != "" && s.Position != "":
		c.Meta = append(c.Meta, s.Author+", "+s.Position)
	case s.Author != "":
		c.Meta = append(c.Meta, s.Author)
	}
	return c
}
