package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amesfield/bean-counter/internal/model"
)

// JSONBackend persists expense records as a flat JSON document keyed by
// expense name:
//
//	{"milk": {"category": "food", "subcategory": "dairy", "mean": 3.5, "count": 1}}
//
// This is the canonical persisted shape; the older two-level
// category/subcategory tree is rejected rather than migrated.
type JSONBackend struct {
	path string
}

// NewJSONBackend creates a backend persisting to the given file path.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path}
}

type jsonRecord struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Mean        float64 `json:"mean"`
	Count       int     `json:"count"`
}

// Load reads the persisted document. A missing file is a legitimate bootstrap
// state and yields an empty record set.
func (b *JSONBackend) Load(_ context.Context) (map[string]model.ExpenseRecord, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		slog.Warn("expense record file not found, starting empty", "path", b.path)
		return make(map[string]model.ExpenseRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	var raw map[string]jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
	}

	records := make(map[string]model.ExpenseRecord, len(raw))
	for name, r := range raw {
		if r.Category == "" || r.Subcategory == "" || r.Count < 1 {
			return nil, fmt.Errorf("%s: entry %q is not a per-expense record; legacy category-tree documents are not supported", b.path, name)
		}
		records[name] = model.ExpenseRecord{
			Name:          name,
			Category:      r.Category,
			Subcategory:   r.Subcategory,
			Mean:          r.Mean,
			PurchaseCount: r.Count,
		}
	}

	slog.Debug("loaded expense records", "path", b.path, "count", len(records))
	return records, nil
}

// Save writes the full record map back to the document.
func (b *JSONBackend) Save(_ context.Context, records map[string]model.ExpenseRecord) error {
	raw := make(map[string]jsonRecord, len(records))
	for name, rec := range records {
		raw[name] = jsonRecord{
			Category:    rec.Category,
			Subcategory: rec.Subcategory,
			Mean:        rec.Mean,
			Count:       rec.PurchaseCount,
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode expense records: %w", err)
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.WriteFile(b.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op for the file-based backend.
func (b *JSONBackend) Close() error {
	return nil
}
