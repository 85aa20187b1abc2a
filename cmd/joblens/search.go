package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/joblens/internal/model"
)

var (
	searchLocation string
	searchRemote   bool
	searchOut      outputFlags
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORDS...",
	Short: "Search every enabled source once and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location to search in")
	searchCmd.Flags().BoolVar(&searchRemote, "remote", false, "only show remote jobs")
	addOutputFlags(searchCmd, &searchOut)
	rootCmd.AddCommand(searchCmd)
}

func addOutputFlags(cmd *cobra.Command, out *outputFlags) {
	cmd.Flags().BoolVarP(&out.browse, "browse", "b", false, "browse results in an interactive TUI")
	cmd.Flags().BoolVar(&out.json, "json", false, "print the result as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := searchOut.validate(); err != nil {
		return err
	}
	q := model.Query{
		Keywords:   strings.Join(args, " "),
		Location:   searchLocation,
		RemoteOnly: searchRemote,
	}
	return withApp(searchOut, func(ctx context.Context, a *app) error {
		return present(ctx, q.Keywords, searchOut, func(ctx context.Context) (model.SearchResult, error) {
			return a.orch.Search(ctx, q)
		})
	})
}

// withApp loads config, wires the service for a one-shot command and runs fn.
func withApp(out outputFlags, fn func(ctx context.Context, a *app) error) error {
	logger := cliLogger(debug, out.browse)

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
