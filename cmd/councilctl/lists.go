package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/committees"
	"github.com/EmpoweredVote/SB-Backend/internal/listing"
	"github.com/EmpoweredVote/SB-Backend/internal/members"
	"github.com/EmpoweredVote/SB-Backend/internal/news"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/render"
	"github.com/EmpoweredVote/SB-Backend/internal/resolutions"
	"github.com/EmpoweredVote/SB-Backend/internal/slides"
)

type filterFlag struct {
	name  string
	usage string
}

// browser is the part of a lister the search and list commands share.
type browser interface {
	name() string
	listCommand() *cobra.Command
	interactive(ctx context.Context, c *client.Client, filters map[string]string) error
}

type lister[T any] struct {
	use     string
	short   string
	noun    string
	fetch   func(*client.Client) listing.Fetcher[T]
	card    func(query.Row[T]) render.Card
	filters []filterFlag
}

func (l lister[T]) name() string { return l.use }

func (l lister[T]) listCommand() *cobra.Command {
	var (
		search string
		page   int
	)
	values := make(map[string]*string, len(l.filters))
	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			list := listing.NewList(l.fetch(c), globalFlags.pageSize,
				listing.StartAt[T](search, page),
				listing.WithFilters[T](collect(values)))
			defer list.Close()

			list.Load()
			list.Wait()
			s := list.State()
			l.print(newWriter(cmd.OutOrStdout()), s)
			if s.Err != "" {
				return fmt.Errorf("could not load %s", l.noun)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "free-text search")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	bindFilters(cmd, l.filters, values)
	return cmd
}

func (l lister[T]) print(w *render.Writer, s listing.State[T]) {
	render.List(w,
		render.SearchSummary(s),
		render.Resolve(s, l.noun),
		render.Cards(s.Items, l.card),
		render.Controls(s),
		bodyWidth())
}

func bindFilters(cmd *cobra.Command, filters []filterFlag, values map[string]*string) {
	for _, f := range filters {
		v := new(string)
		values[f.name] = v
		cmd.Flags().StringVar(v, f.name, "", f.usage)
	}
}

func collect(values map[string]*string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if *v != "" {
			out[k] = *v
		}
	}
	return out
}

const triUsage = "true, false or all"

func listers() []browser {
	return []browser{
		lister[news.NewsItem]{
			use: "news", short: "List news", noun: "news",
			fetch: func(c *client.Client) listing.Fetcher[news.NewsItem] { return c.News },
			card:  render.NewsCard,
			filters: []filterFlag{
				{"featured", "featured items: " + triUsage},
				{"priority", "priority items: " + triUsage},
			},
		},
		lister[resolutions.Resolution]{
			use: "resolutions", short: "List active resolutions", noun: "resolutions",
			fetch: func(c *client.Client) listing.Fetcher[resolutions.Resolution] { return c.Resolutions },
			card:  render.ResolutionCard,
			filters: []filterFlag{
				{"category", "category equals"},
				{"featured", "featured resolutions: " + triUsage},
				{"with_ordinance", "resolutions carrying an ordinance: " + triUsage},
			},
		},
		lister[resolutions.Resolution]{
			use: "ordinances", short: "List ordinances", noun: "ordinances",
			fetch: func(c *client.Client) listing.Fetcher[resolutions.Resolution] { return c.Ordinances },
			card:  render.OrdinanceCard,
			filters: []filterFlag{
				{"category", "category words, any may match"},
				{"active", "active ordinances: " + triUsage + " (default active only)"},
				{"effective_from", "effective on or after YYYY-MM-DD"},
				{"effective_to", "effective on or before YYYY-MM-DD"},
			},
		},
		lister[members.Member]{
			use: "members", short: "List council members", noun: "members",
			fetch: func(c *client.Client) listing.Fetcher[members.Member] { return c.Members },
			card:  render.MemberCard,
			filters: []filterFlag{
				{"leadership", "leadership members: " + triUsage},
			},
		},
		lister[committees.Committee]{
			use: "committees", short: "List committees", noun: "committees",
			fetch: func(c *client.Client) listing.Fetcher[committees.Committee] { return c.Committees },
			card:  render.CommitteeCard,
		},
		lister[slides.Slide]{
			use: "slides", short: "List landing page slides", noun: "slides",
			fetch: func(c *client.Client) listing.Fetcher[slides.Slide] { return c.Slides },
			card:  render.SlideCard,
		},
	}
}
