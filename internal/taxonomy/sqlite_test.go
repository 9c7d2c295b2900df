package taxonomy

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/amesfield/bean-counter/internal/model"
)

func createTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := createTestSQLiteBackend(t)

	records := map[string]model.ExpenseRecord{
		"milk":   {Name: "milk", Category: "food", Subcategory: "dairy", Mean: 3.50, PurchaseCount: 1},
		"butter": {Name: "butter", Category: "food", Subcategory: "dairy", Mean: 4.25, PurchaseCount: 3},
	}
	if err := backend.Save(ctx, records); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load() returned %d records, want 2", len(loaded))
	}
	got := loaded["butter"]
	if got.Category != "food" || got.Subcategory != "dairy" || got.PurchaseCount != 3 {
		t.Errorf("butter record = %+v", got)
	}
	if math.Abs(got.Mean-4.25) > 1e-9 {
		t.Errorf("Mean = %f, want 4.25", got.Mean)
	}
}

func TestSQLiteBackendUpsert(t *testing.T) {
	ctx := context.Background()
	backend := createTestSQLiteBackend(t)

	first := map[string]model.ExpenseRecord{
		"milk": {Name: "milk", Category: "food", Subcategory: "dairy", Mean: 3.50, PurchaseCount: 1},
	}
	if err := backend.Save(ctx, first); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}

	second := map[string]model.ExpenseRecord{
		"milk": {Name: "milk", Category: "food", Subcategory: "dairy", Mean: 3.75, PurchaseCount: 2},
	}
	if err := backend.Save(ctx, second); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Load() returned %d records, want 1", len(loaded))
	}
	if got := loaded["milk"]; got.PurchaseCount != 2 || math.Abs(got.Mean-3.75) > 1e-9 {
		t.Errorf("milk record = %+v, want count 2 mean 3.75", got)
	}
}

func TestSQLiteBackendEmptyDatabase(t *testing.T) {
	backend := createTestSQLiteBackend(t)

	loaded, err := backend.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(loaded))
	}
}

func TestStoreWithSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.db")

	backend, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error: %v", err)
	}
	store, err := Open(ctx, backend)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := store.Register("quinoa", "food", "grains", 5.00); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	backend2, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen backend error: %v", err)
	}
	store2, err := Open(ctx, backend2)
	if err != nil {
		t.Fatalf("reopen Open() error: %v", err)
	}
	defer func() { _ = store2.Close(ctx) }()

	if _, ok := store2.Lookup("quinoa"); !ok {
		t.Error("quinoa record lost across reopen")
	}
}
