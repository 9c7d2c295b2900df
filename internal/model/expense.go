// Package model defines the core data types shared across the application.
package model

// ExpenseRecord tracks the classification and running price statistics for a
// uniquely named expense. Records are keyed by normalized expense name and are
// never deleted once created.
type ExpenseRecord struct {
	Name          string
	Category      string
	Subcategory   string
	Mean          float64
	PurchaseCount int
}

// Observe folds one more observed price into the running mean.
func (r *ExpenseRecord) Observe(price float64) {
	n := float64(r.PurchaseCount)
	r.Mean = (r.Mean*n + price) / (n + 1)
	r.PurchaseCount++
}

// LineItem is one classified expense row, ready for aggregation into a report
// table. It is produced by the classification step and discarded after
// rendering.
type LineItem struct {
	Date        string
	Category    string
	Subcategory string
	Expense     string
	Price       float64
}
