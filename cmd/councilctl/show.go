package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/render"
)

// getter fetches one record and builds its card.
type getter func(ctx context.Context, c *client.Client, id string) (render.Card, error)

func cardOf[T any](get func(*client.Client, context.Context, string) (T, error), build func(query.Row[T]) render.Card) getter {
	return func(ctx context.Context, c *client.Client, id string) (render.Card, error) {
		item, err := get(c, ctx, id)
		if err != nil {
			return render.Card{}, err
		}
		return build(query.NewRow(item, nil)), nil
	}
}

type record struct {
	label string
	get   getter
}

var records = map[string]record{
	"news":       {"News item", cardOf((*client.Client).NewsItem, render.NewsCard)},
	"resolution": {"Resolution", cardOf((*client.Client).Resolution, render.ResolutionCard)},
	"ordinance":  {"Ordinance", cardOf((*client.Client).Ordinance, render.OrdinanceCard)},
	"member":     {"Member", cardOf((*client.Client).Member, render.MemberCard)},
	"committee":  {"Committee", cardOf((*client.Client).Committee, render.CommitteeCard)},
}

func showCommand() *cobra.Command {
	kinds := make([]string, 0, len(records))
	for k := range records {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return &cobra.Command{
		Use:       "show <" + strings.Join(kinds, "|") + "> <id>",
		Short:     "Show one record",
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := records[args[0]]
			if !ok {
				return fmt.Errorf("unknown record kind %q, want one of %s", args[0], strings.Join(kinds, ", "))
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			card, err := rec.get(cmd.Context(), c, args[1])
			if errors.Is(err, client.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s not found. Run `%s %s` to browse the list.\n",
					rec.label, programName, listFor(args[0]))
				return nil
			}
			if err != nil {
				return err
			}
			newWriter(cmd.OutOrStdout()).Card(card, 0)
			return nil
		},
	}
}

func listFor(kind string) string {
	switch kind {
	case "news":
		return "news"
	default:
		return kind + "s"
	}
}
