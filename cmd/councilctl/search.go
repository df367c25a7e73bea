package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/listing"
	"github.com/EmpoweredVote/SB-Backend/internal/render"
)

const searchHelp = "Enter: search now | Ctrl-N or Right: next page | Ctrl-P or Left: previous page | Ctrl-U: clear | Esc: quit"

const (
	keyCtrlC     = 3
	keyCtrlD     = 4
	keyBackspace = 8
	keyLF        = 10
	keyCR        = 13
	keyCtrlN     = 14
	keyCtrlP     = 16
	keyCtrlU     = 21
	keyEsc       = 27
	keyDelete    = 127
)

func searchCommand() *cobra.Command {
	var filters map[string]string
	names := make([]string, 0, len(listers()))
	for _, b := range listers() {
		names = append(names, b.name())
	}
	cmd := &cobra.Command{
		Use:       "search <" + strings.Join(names, "|") + ">",
		Short:     "Search a list as you type",
		Long:      "Search a list as you type. Results refresh once typing pauses.\n\n" + searchHelp,
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b browser
			for _, l := range listers() {
				if l.name() == args[0] {
					b = l
				}
			}
			if b == nil {
				return fmt.Errorf("unknown list %q, want one of %s", args[0], strings.Join(names, ", "))
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			return b.interactive(cmd.Context(), c, filters)
		},
	}
	cmd.Flags().StringToStringVar(&filters, "filter", nil, "list filter as key=value, repeatable")
	return cmd
}

func (l lister[T]) interactive(ctx context.Context, c *client.Client, filters map[string]string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("search needs an interactive terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, old)
		fmt.Fprintln(os.Stdout)
	}()

	colored := !globalFlags.noColor
	var (
		mu    sync.Mutex
		input string
		last  listing.State[T]
	)
	// draw must be called with mu held.
	draw := func() {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Search %s: %s\n\n", l.noun, input)
		l.print(render.NewWriter(&buf, colored), last)
		fmt.Fprintf(&buf, "\n%s\n", searchHelp)
		_, _ = io.WriteString(os.Stdout, "\x1b[H\x1b[2J"+strings.ReplaceAll(buf.String(), "\n", "\r\n"))
	}

	list := listing.NewList(l.fetch(c), globalFlags.pageSize,
		listing.WithFilters[T](filters),
		listing.OnChange(func(s listing.State[T]) {
			mu.Lock()
			defer mu.Unlock()
			last = s
			draw()
		}))
	defer list.Close()
	box := listing.NewSearchBox(listing.NewDebouncer(listing.DefaultDelay, listing.RealClock), list.SetSearch)
	defer box.Close()

	list.Load()

	// The list and box lock internally; mu is never held while calling them.
	setInput := func(f func(string) string) string {
		mu.Lock()
		defer mu.Unlock()
		input = f(input)
		draw()
		return input
	}

	in := bufio.NewReader(os.Stdin)
	for ctx.Err() == nil {
		r, _, err := in.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch r {
		case keyCtrlC, keyCtrlD:
			return nil
		case keyEsc:
			// Arrow keys arrive as ESC [ C / ESC [ D.
			if in.Buffered() < 2 {
				return nil
			}
			if b, _ := in.ReadByte(); b != '[' {
				return nil
			}
			switch b, _ := in.ReadByte(); b {
			case 'C':
				list.Next()
			case 'D':
				list.Prev()
			}
		case keyCR, keyLF:
			box.Submit()
		case keyCtrlN:
			list.Next()
		case keyCtrlP:
			list.Prev()
		case keyCtrlU:
			box.Type(setInput(func(string) string { return "" }))
		case keyBackspace, keyDelete:
			box.Type(setInput(func(s string) string {
				rs := []rune(s)
				if len(rs) == 0 {
					return s
				}
				return string(rs[:len(rs)-1])
			}))
		default:
			if unicode.IsPrint(r) {
				box.Type(setInput(func(s string) string { return s + string(r) }))
			}
		}
	}
	return ctx.Err()
}
