// Command councilctl browses the council API from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/EmpoweredVote/SB-Backend/internal/client"
	"github.com/EmpoweredVote/SB-Backend/internal/query"
	"github.com/EmpoweredVote/SB-Backend/internal/render"
)

const programName = "councilctl"

var globalFlags = struct {
	api      string
	pageSize int
	noColor  bool
	width    int
	debug    bool
}{}

func newClient() (*client.Client, error) {
	return client.New(globalFlags.api, client.WithLogger(slog.Default()))
}

func newWriter(w io.Writer) *render.Writer {
	colored := !globalFlags.noColor && isTerminal(os.Stdout)
	return render.NewWriter(w, colored)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// bodyWidth is the number of body runes shown per card.
func bodyWidth() int {
	if globalFlags.width > 0 {
		return globalFlags.width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return 2 * w
	}
	return 160
}

func rootCommand() *cobra.Command {
	api := os.Getenv("COUNCIL_API")
	if api == "" {
		api = "http://localhost:5050"
	}

	root := &cobra.Command{
		Use:           programName,
		Short:         "Browse council news, resolutions, ordinances, members and committees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if globalFlags.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&globalFlags.api, "api", api, "council API base URL (env COUNCIL_API)")
	root.PersistentFlags().IntVar(&globalFlags.pageSize, "page-size", query.DefaultLimits.DefaultPageSize, "items per page")
	root.PersistentFlags().BoolVar(&globalFlags.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().IntVar(&globalFlags.width, "width", 0, "body characters per card (default from terminal)")
	root.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	for _, l := range listers() {
		root.AddCommand(l.listCommand())
	}
	root.AddCommand(searchCommand())
	root.AddCommand(showCommand())
	root.AddCommand(submitNewsCommand())
	root.AddCommand(whoamiCommand())
	return root
}

func main() {
	_ = godotenv.Load(".env.local")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
