package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/news"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/render"
)

type credentials struct {
	username string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.username, "user", "u", os.Getenv("COUNCIL_USER"), "username (env COUNCIL_USER)")
	cmd.Flags().StringVar(&c.password, "password", os.Getenv("COUNCIL_PASSWORD"), "password (env COUNCIL_PASSWORD)")
}

func (c credentials) check() error {
	if c.username == "" || c.password == "" {
		return errors.New("--user and --password (or COUNCIL_USER and COUNCIL_PASSWORD) are required")
	}
	return nil
}

func submitNewsCommand() *cobra.Command {
	var (
		creds    credentials
		form     news.NewsForm
		featured bool
		priority bool
	)
	cmd := &cobra.Command{
		Use:   "submit-news",
		Short: "Publish a news item (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.check(); err != nil {
				return err
			}
			if form.Date == "" {
				form.Date = time.Now().Format(time.DateOnly)
			}
			form.IsFeatured = &featured
			form.IsPriority = &priority
			if err := news.ValidateForm(&form); err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := c.Login(ctx, creds.username, creds.password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer func() { _ = c.Logout(ctx) }()

			item, err := c.SubmitNews(ctx, form)
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
				return errors.New("only admins can publish news")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Published:")
			newWriter(cmd.OutOrStdout()).Card(render.NewsCard(query.NewRow(item, nil)), 0)
			return nil
		},
	}
	creds.bind(cmd)
	cmd.Flags().StringVar(&form.Title, "title", "", "headline")
	cmd.Flags().StringVar(&form.Date, "date", "", "publication date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&form.Content, "content", "", "body text, at least 10 characters")
	cmd.Flags().BoolVar(&featured, "featured", false, "feature on the landing page")
	cmd.Flags().BoolVar(&priority, "priority", true, "show among priority news")
	return cmd
}

func whoamiCommand() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Log in and print the account's role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.check(); err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			me, err := c.Login(ctx, creds.username, creds.password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer func() { _ = c.Logout(ctx) }()

			admin, err := c.IsAdmin(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) role=%s admin=%t\n", me.Username, me.UserID, me.Role, admin)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}
