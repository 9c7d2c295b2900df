package report

import (
	"math"
	"testing"

	"github.com/amesfield/bean-counter/internal/model"
)

func item(date, cat, sub, expense string, price float64) model.LineItem {
	return model.LineItem{Date: date, Category: cat, Subcategory: sub, Expense: expense, Price: price}
}

func TestTableInsertAccumulates(t *testing.T) {
	table := NewTable()
	table.Insert(item("01/02", "food", "dairy", "milk", 3.50))
	table.Insert(item("01/02", "food", "dairy", "milk", 3.00))

	leaf := table.Root().Child("01/02").Child("food").Child("dairy").Child("milk")
	if leaf == nil || !leaf.IsLeaf() {
		t.Fatal("expected a leaf at date/food/dairy/milk")
	}
	if math.Abs(leaf.Amount()-6.50) > 1e-9 {
		t.Errorf("Amount() = %f, want 6.50", leaf.Amount())
	}
	if math.Abs(table.Total()-6.50) > 1e-9 {
		t.Errorf("Total() = %f, want 6.50", table.Total())
	}
	if table.LeafCount() != 1 {
		t.Errorf("LeafCount() = %d, want 1", table.LeafCount())
	}
}

func TestTableLeafCountCountsLeavesOnly(t *testing.T) {
	table := NewTable()
	table.Insert(item("01/02", "food", "produce", "apples", 2.00))
	table.Insert(item("01/02", "food", "dairy", "milk", 3.50))
	table.Insert(item("01/02", "food", "dairy", "butter", 4.00))
	table.Insert(item("01/09", "household", "cleaning", "bleach", 2.50))

	if got := table.LeafCount(); got != 4 {
		t.Errorf("LeafCount() = %d, want 4", got)
	}

	food := table.Root().Child("01/02").Child("food")
	if got := food.LeafCount(); got != 3 {
		t.Errorf("food.LeafCount() = %d, want 3", got)
	}
}

func TestTableInsertionOrderPreserved(t *testing.T) {
	table := NewTable()
	table.Insert(item("01/09", "zoo", "tickets", "entry", 10.00))
	table.Insert(item("01/02", "food", "dairy", "milk", 3.50))
	table.Insert(item("01/09", "food", "dairy", "milk", 3.50))

	wantDates := []string{"01/09", "01/02"}
	got := table.Root().Keys()
	if len(got) != len(wantDates) {
		t.Fatalf("Keys() = %v, want %v", got, wantDates)
	}
	for i := range wantDates {
		if got[i] != wantDates[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], wantDates[i])
		}
	}

	wantCats := []string{"zoo", "food"}
	gotCats := table.Root().Child("01/09").Keys()
	for i := range wantCats {
		if gotCats[i] != wantCats[i] {
			t.Errorf("category order[%d] = %q, want %q", i, gotCats[i], wantCats[i])
		}
	}
}
