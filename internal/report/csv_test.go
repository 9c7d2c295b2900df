package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amesfield/bean-counter/internal/classify"
	"github.com/amesfield/bean-counter/internal/taxonomy"
)

// seededEngine builds an engine over a store that already knows every expense
// used in these tests, so classification never prompts.
func seededEngine(t *testing.T) *classify.Engine {
	t.Helper()
	store, err := taxonomy.Open(context.Background(), taxonomy.NewJSONBackend(filepath.Join(t.TempDir(), "expenses.json")))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	seed := []struct{ expense, cat, sub string }{
		{"milk", "food", "dairy"},
		{"apples", "food", "produce"},
		{"bleach", "household", "cleaning"},
	}
	for _, s := range seed {
		if _, err := store.Register(s.expense, s.cat, s.sub, 1.00); err != nil {
			t.Fatalf("Register(%q) error: %v", s.expense, err)
		}
	}
	return classify.New(store, failingResponder{t})
}

// failingResponder fails the test if the engine ever prompts.
type failingResponder struct{ t *testing.T }

func (r failingResponder) Ask(_ context.Context, p classify.Prompt) (string, error) {
	r.t.Fatalf("unexpected prompt: %q", p.Question)
	return "", nil
}

func (r failingResponder) Say(_ context.Context, msg string) error {
	r.t.Fatalf("unexpected diagnostic: %q", msg)
	return nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestClassifyCarriesDateForward(t *testing.T) {
	path := writeCSV(t, "Date,Expense,Price\n01/02,milk,3.50\n,apples,2.00\n01/09,bleach,2.50\n,milk,3.25\n")

	items, err := Classify(context.Background(), seededEngine(t), path, false)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("Classify() returned %d items, want 4", len(items))
	}

	wantDates := []string{"01/02", "01/02", "01/09", "01/09"}
	for i, want := range wantDates {
		if items[i].Date != want {
			t.Errorf("items[%d].Date = %q, want %q", i, items[i].Date, want)
		}
	}

	if items[0].Category != "food" || items[0].Subcategory != "dairy" {
		t.Errorf("items[0] classified as %s/%s", items[0].Category, items[0].Subcategory)
	}
}

func TestClassifyHeaderVariations(t *testing.T) {
	path := writeCSV(t, "PRICE,date,Expense\n3.50,01/02,milk\n")

	items, err := Classify(context.Background(), seededEngine(t), path, false)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(items) != 1 || items[0].Price != 3.50 {
		t.Fatalf("items = %+v", items)
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing required column", content: "Date,Thing,Price\n01/02,milk,3.50\n"},
		{name: "malformed price", content: "Date,Expense,Price\n01/02,milk,cheap\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			if _, err := Classify(context.Background(), seededEngine(t), path, false); err == nil {
				t.Error("Classify() succeeded, want error")
			}
		})
	}
}

func TestClassifyMissingFile(t *testing.T) {
	if _, err := Classify(context.Background(), seededEngine(t), "does-not-exist.csv", false); err == nil {
		t.Error("Classify() succeeded on missing file")
	}
}

func TestBuildTable(t *testing.T) {
	path := writeCSV(t, "Date,Expense,Price\n01/02,milk,3.50\n,milk,3.00\n,apples,2.00\n")

	items, err := Classify(context.Background(), seededEngine(t), path, false)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}

	table := BuildTable(items)
	if table.LeafCount() != 2 {
		t.Errorf("LeafCount() = %d, want 2", table.LeafCount())
	}
	if table.Total() != 8.50 {
		t.Errorf("Total() = %f, want 8.50", table.Total())
	}
}
