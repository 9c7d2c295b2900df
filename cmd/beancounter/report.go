package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amesfield/bean-counter/internal/chart"
	"github.com/amesfield/bean-counter/internal/classify"
	"github.com/amesfield/bean-counter/internal/cli"
	"github.com/amesfield/bean-counter/internal/common"
	"github.com/amesfield/bean-counter/internal/latex"
	"github.com/amesfield/bean-counter/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	var files []string
	var dirs []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate expense reports from CSV files",
		Long: `Classify every expense in the given CSV files and render each file as a
PDF report. Unrecognized expenses are classified interactively; the answers
are remembered for future runs.

The CSV needs Date, Expense and Price columns. A blank date reuses the most
recent one above it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			paths := append([]string{}, files...)
			paths = append(paths, args...)
			for _, dir := range dirs {
				found, err := csvFilesIn(dir)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no CSV files given: use --file, --directory or positional arguments")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			// Flush classifications on every exit path, including errors and
			// interrupts: a half-classified batch is still worth keeping. The
			// background context lets the save finish after cancellation.
			defer func() {
				if err := store.Close(context.Background()); err != nil && !errors.Is(err, common.ErrStoreClosed) {
					slog.Error("failed to save expense records", "error", err)
				}
			}()

			engine := classify.NewWithConfig(store, cli.NewConsole(nil, nil), classify.Config{
				MaxCandidates: viper.GetInt("match.max-candidates"),
				MinSimilarity: viper.GetFloat64("match.min-similarity"),
			})

			for _, path := range paths {
				if err := runReport(ctx, engine, path); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "CSV file to report on (repeatable)")
	cmd.Flags().StringArrayVarP(&dirs, "directory", "d", nil, "directory of CSV files to report on (repeatable)")
	cmd.Flags().Bool("charts", true, "include pie charts in the report")
	cmd.Flags().Bool("compile", true, "compile the report to PDF with pdflatex")
	cmd.Flags().Bool("keep-tex", false, "keep the generated .tex source after compiling")
	_ = viper.BindPFlag("report.charts", cmd.Flags().Lookup("charts"))
	_ = viper.BindPFlag("latex.compile", cmd.Flags().Lookup("compile"))
	_ = viper.BindPFlag("latex.keep-tex", cmd.Flags().Lookup("keep-tex"))

	return cmd
}

func runReport(ctx context.Context, engine *classify.Engine, csvPath string) error {
	items, err := report.Classify(ctx, engine, csvPath, true)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		slog.Warn("no expense rows found, skipping report", "path", csvPath)
		return nil
	}

	table := report.BuildTable(items)

	doc := latex.NewDocument()
	doc.Header()
	doc.Title(reportTitle(csvPath))

	var charts []string
	if viper.GetBool("report.charts") {
		charts, err = chart.Generate(items, filepath.Dir(csvPath))
		if err != nil {
			slog.Error("chart generation failed, continuing without charts", "error", err)
		}
		if len(charts) > 0 {
			doc.Section("Expense Charts")
			for _, path := range charts {
				doc.Figure(path)
			}
		}
	}
	defer chart.Cleanup(charts)

	doc.Section("Expense Data")
	doc.DataTable(latex.Layout(table), table.Total())
	doc.Footer()

	texPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".tex"
	if err := doc.WriteFile(texPath); err != nil {
		return err
	}

	if viper.GetBool("latex.compile") {
		if err := latex.Compile(ctx, texPath, viper.GetBool("latex.keep-tex")); err != nil {
			// The classified data is already safe; a missing pdflatex should
			// not look like a classification failure.
			slog.Error("report compilation failed", "path", texPath, "error", err)
		}
	}

	return nil
}

// csvFilesIn lists the CSV files directly inside dir, sorted by name.
func csvFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
