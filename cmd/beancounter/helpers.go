package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amesfield/bean-counter/internal/config"
	"github.com/amesfield/bean-counter/internal/taxonomy"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// openStore builds the persistence backend selected by configuration and
// loads the taxonomy store through it.
func openStore(ctx context.Context) (*taxonomy.Store, error) {
	backend, err := buildBackend()
	if err != nil {
		return nil, err
	}

	store, err := taxonomy.Open(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store, nil
}

func buildBackend() (taxonomy.Backend, error) {
	kind := viper.GetString("storage.backend")
	path := config.ExpandPath(viper.GetString("storage.path"))

	switch kind {
	case "json", "":
		if path == "" {
			path = filepath.Join(config.DataDir(), "expenses.json")
		}
		return taxonomy.NewJSONBackend(path), nil
	case "sqlite":
		if path == "" {
			path = filepath.Join(config.DataDir(), "expenses.db")
		}
		return taxonomy.NewSQLiteBackend(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want json or sqlite)", kind)
	}
}

// reportTitle derives a human title from a CSV path: "2026_01_groceries.csv"
// becomes "2026 01 Groceries".
func reportTitle(csvPath string) string {
	base := filepath.Base(csvPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return titleCaser.String(strings.ReplaceAll(base, "_", " "))
}
