package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/EmpoweredVote/SB-Backend/internal/query"
)

// Writer renders to a terminal. Highlighted terms are colored, or bracketed
// when color is off.
type Writer struct {
	w     io.Writer
	color bool
	mark  *color.Color
	title *color.Color
	faint *color.Color
	alert *color.Color
}

func NewWriter(w io.Writer, colored bool) *Writer {
	tw := &Writer{
		w:     w,
		color: colored,
		mark:  color.New(color.FgBlack, color.BgYellow),
		title: color.New(color.Bold),
		faint: color.New(color.Faint),
		alert: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{tw.mark, tw.title, tw.faint, tw.alert} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return tw
}

// Marked replaces highlight markers in s with terminal emphasis.
func (tw *Writer) Marked(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, query.MarkOpen)
		if i < 0 {
			break
		}
		rest := s[i+len(query.MarkOpen):]
		j := strings.Index(rest, query.MarkClose)
		if j < 0 {
			break
		}
		b.WriteString(s[:i])
		if tw.color {
			b.WriteString(tw.mark.Sprint(rest[:j]))
		} else {
			b.WriteString("[" + rest[:j] + "]")
		}
		s = rest[j+len(query.MarkClose):]
	}
	b.WriteString(s)
	return b.String()
}

// Status writes the non-populated states. It writes nothing for Populated.
func (tw *Writer) Status(s Status) {
	switch s.Kind {
	case Loading:
		fmt.Fprintln(tw.w, tw.faint.Sprint("Loading..."))
	case Failed:
		fmt.Fprintf(tw.w, "%s %s\n", tw.alert.Sprint(s.Title+":"), s.Detail)
	case Empty:
		fmt.Fprintln(tw.w, tw.title.Sprint(s.Title))
		fmt.Fprintln(tw.w, tw.faint.Sprint(s.Detail))
	}
}

// Card writes one card, clipping the body to width runes when width > 0.
func (tw *Writer) Card(c Card, width int) {
	head := tw.title.Sprint(tw.Marked(c.Title.Value))
	if badge := c.Badge(); badge != "" {
		head += "  " + tw.faint.Sprint("("+badge+")")
	}
	fmt.Fprintln(tw.w, head)
	if len(c.Meta) > 0 {
		fmt.Fprintln(tw.w, "  "+tw.Marked(strings.Join(c.Meta, " | ")))
	}
	if c.Image != "" {
		fmt.Fprintln(tw.w, "  "+tw.faint.Sprint(c.Image))
	}
	if body := clip(c.Body.Value, width); body != "" {
		fmt.Fprintln(tw.w, "  "+tw.Marked(body))
	}
	if len(c.Tags) > 0 {
		fmt.Fprintln(tw.w, "  "+tw.faint.Sprint(tw.Marked(strings.Join(c.Tags, ", "))))
	}
}

// Pager writes the paging line, or nothing when controls are hidden.
func (tw *Writer) Pager(p Pager) {
	if !p.Show {
		return
	}
	prev, next := "[p]rev", "[n]ext"
	if !p.Prev {
		prev = tw.faint.Sprint(prev)
	}
	if !p.Next {
		next = tw.faint.Sprint(next)
	}
	fmt.Fprintf(tw.w, "%s  %s  %s\n", prev, p.Label, next)
}

// List writes a whole list: the search summary, then either the status or
// the cards and pager.
func List(tw *Writer, summary string, status Status, cards []Card, pager Pager, width int) {
	if summary != "" {
		fmt.Fprintln(tw.w, tw.faint.Sprint(summary))
	}
	if status.Kind != Populated {
		tw.Status(status)
		return
	}
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintln(tw.w)
		}
		tw.Card(c, width)
	}
	fmt.Fprintln(tw.w)
	tw.Pager(pager)
}

// clip shortens s to n runes without cutting inside a marker.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 {
		return s
	}
	visible := 0
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], query.MarkOpen):
			i += len(query.MarkOpen)
			continue
		case strings.HasPrefix(s[i:], query.MarkClose):
			i += len(query.MarkClose)
			continue
		}
		if visible == n {
			out := strings.TrimSpace(s[:i])
			if strings.Count(out, query.MarkOpen) > strings.Count(out, query.MarkClose) {
				out += query.MarkClose
			}
			return out + "..."
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		visible++
	}
	return s
}
