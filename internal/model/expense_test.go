package model

import (
	"math"
	"testing"
)

func TestExpenseRecordObserve(t *testing.T) {
	tests := []struct {
		name      string
		prices    []float64
		wantMean  float64
		wantCount int
	}{
		{
			name:      "two observations average",
			prices:    []float64{1.00, 1.20},
			wantMean:  1.10,
			wantCount: 2,
		},
		{
			name:      "many observations",
			prices:    []float64{2.50, 3.50, 4.50, 5.50},
			wantMean:  4.00,
			wantCount: 4,
		},
		{
			name:      "single repeat of same price keeps mean",
			prices:    []float64{9.99, 9.99, 9.99},
			wantMean:  9.99,
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ExpenseRecord{Name: "test", Mean: tt.prices[0], PurchaseCount: 1}
			for _, p := range tt.prices[1:] {
				rec.Observe(p)
			}

			if rec.PurchaseCount != tt.wantCount {
				t.Errorf("PurchaseCount = %d, want %d", rec.PurchaseCount, tt.wantCount)
			}
			if math.Abs(rec.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("Mean = %f, want %f", rec.Mean, tt.wantMean)
			}
		})
	}
}
