package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amishk599/joblens/internal/browse"
	"github.com/amishk599/joblens/internal/model"
	"github.com/amishk599/joblens/internal/search"
)

var (
	trendingOut outputFlags
	categoryOut outputFlags
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show jobs for the trending search phrases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trendingOut.validate(); err != nil {
			return err
		}
		return withApp(trendingOut, func(ctx context.Context, a *app) error {
			return present(ctx, "trending jobs", trendingOut, a.orch.Trending)
		})
	},
}

var categoryCmd = &cobra.Command{
	Use:       "category [NAME]",
	Short:     "Show jobs for a category",
	Long:      "Searches every phrase of a category. Without NAME, a picker lists the categories.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: search.Categories(),
	RunE:      runCategory,
}

func init() {
	addOutputFlags(trendingCmd, &trendingOut)
	addOutputFlags(categoryCmd, &categoryOut)
	rootCmd.AddCommand(trendingCmd, categoryCmd)
}

func runCategory(cmd *cobra.Command, args []string) error {
	if err := categoryOut.validate(); err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		categories := search.Categories()
		choice, err := browse.RunPicker("Pick a category", categories)
		if err != nil {
			return fmt.Errorf("category picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		name = categories[choice]
	}

	return withApp(categoryOut, func(ctx context.Context, a *app) error {
		return present(ctx, name+" jobs", categoryOut, func(ctx context.Context) (model.SearchResult, error) {
			return a.orch.Category(ctx, name)
		})
	})
}
