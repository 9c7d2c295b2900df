package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amesfield/bean-counter/internal/cli"
	"github.com/amesfield/bean-counter/internal/common"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the expense taxonomy",
		Long:  `Show the categories and subcategories learned from past classifications.`,
	}

	cmd.AddCommand(listCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories and their subcategories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(context.Background()); err != nil && !errors.Is(err, common.ErrStoreClosed) {
					slog.Error("failed to close store", "error", err)
				}
			}()

			categories := store.Categories()
			if len(categories) == 0 {
				fmt.Println(cli.OptionStyle.Render("No categories yet. Run 'beancounter report' to start classifying."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Subcategories"))
			fmt.Fprintf(w, "%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 40))

			for _, category := range categories {
				subs := store.Subcategories(category)
				fmt.Fprintf(w, "%s\t%s\n", category, strings.Join(subs, ", "))
			}

			return nil
		},
	}
}
