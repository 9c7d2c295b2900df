// Package chart renders the expense pie charts embedded in the report.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amesfield/bean-counter/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Generate writes one overall pie (spending per category) and one pie per
// category (spending per subcategory) into dir, returning the created file
// paths in a stable order. The caller removes them with Cleanup once the
// report is compiled.
func Generate(items []model.LineItem, dir string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	overall := SumByCategory(items)
	perCategory := SumBySubcategory(items)

	var files []string

	path := filepath.Join(dir, "overall.png")
	created, err := renderPie("Overall Expenses", overall, path)
	if err != nil {
		return files, err
	}
	if created {
		files = append(files, path)
	}

	for _, category := range sortedKeys(perCategory) {
		name := fmt.Sprintf("category_%s.png", strings.ReplaceAll(category, " ", "_"))
		path := filepath.Join(dir, name)
		title := fmt.Sprintf("%s Expenses", titleCaser.String(category))
		created, err := renderPie(title, perCategory[category], path)
		if err != nil {
			return files, err
		}
		if created {
			files = append(files, path)
		}
	}

	slog.Info("generated pie charts", "count", len(files))
	return files, nil
}

// Cleanup removes generated chart files.
func Cleanup(files []string) {
	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove chart", "path", path, "error", err)
		}
	}
}

// SumByCategory totals prices per category.
func SumByCategory(items []model.LineItem) map[string]float64 {
	totals := make(map[string]float64)
	for _, item := range items {
		totals[item.Category] += item.Price
	}
	return totals
}

// SumBySubcategory totals prices per subcategory, grouped by category.
func SumBySubcategory(items []model.LineItem) map[string]map[string]float64 {
	totals := make(map[string]map[string]float64)
	for _, item := range items {
		if totals[item.Category] == nil {
			totals[item.Category] = make(map[string]float64)
		}
		totals[item.Category][item.Subcategory] += item.Price
	}
	return totals
}

func renderPie(title string, totals map[string]float64, path string) (bool, error) {
	values := make([]gochart.Value, 0, len(totals))
	for _, key := range sortedKeys(totals) {
		if totals[key] <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s ($%.2f)", titleCaser.String(key), totals[key]),
			Value: totals[key],
		})
	}
	if len(values) == 0 {
		slog.Warn("skipping chart with no positive totals", "title", title)
		return false, nil
	}

	pie := gochart.PieChart{
		Title:  title,
		Width:  600,
		Height: 600,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := pie.Render(gochart.PNG, f); err != nil {
		return false, fmt.Errorf("failed to render %s: %w", path, err)
	}
	return true, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
