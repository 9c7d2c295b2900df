package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/amesfield/bean-counter/internal/classify"
	"github.com/amesfield/bean-counter/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Classify reads an expense CSV and resolves every row through the engine,
// returning the classified line items in file order. The file needs Date,
// Expense and Price columns (any casing, any position); a blank date reuses
// the most recently seen one. A progress bar tracks the batch between
// interactive prompts when showProgress is set.
func Classify(ctx context.Context, engine *classify.Engine, path string, showProgress bool) ([]model.LineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	cols, err := headerIndexes(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(rows)-1), "classifying")
	}

	slog.Debug("classifying expenses", "path", path, "rows", len(rows)-1)

	var items []model.LineItem
	date := ""
	for i, row := range rows[1:] {
		if d := strings.TrimSpace(row[cols.date]); d != "" {
			date = d
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row[cols.price]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid price %q: %w", path, i+2, row[cols.price], err)
		}

		rec, err := engine.Resolve(ctx, row[cols.expense], price)
		if err != nil {
			return items, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}

		items = append(items, model.LineItem{
			Date:        date,
			Category:    rec.Category,
			Subcategory: rec.Subcategory,
			Expense:     rec.Name,
			Price:       price,
		})

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	slog.Info("classified expenses", "path", path, "count", len(items))
	return items, nil
}

// BuildTable aggregates classified items into the nested table model.
func BuildTable(items []model.LineItem) *Table {
	table := NewTable()
	for _, item := range items {
		table.Insert(item)
	}
	return table
}

type columns struct {
	date    int
	expense int
	price   int
}

func headerIndexes(header []string) (columns, error) {
	cols := columns{date: -1, expense: -1, price: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "expense":
			cols.expense = i
		case "price":
			cols.price = i
		}
	}
	if cols.date < 0 || cols.expense < 0 || cols.price < 0 {
		return cols, fmt.Errorf("header must contain Date, Expense and Price columns")
	}
	return cols, nil
}
