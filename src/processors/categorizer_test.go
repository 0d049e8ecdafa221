// backend/src/processors/categorizer_test.go
package processors

import (
	"math"
	"testing"

	"github.com/openaudit/backend/src/models"
)

func TestCategorizeTransaction(t *testing.T) {
	c := NewCategorizer()
	tests := []struct {
		description string
		want        string
	}{
		{"NETFLIX monthly charge", "Entertainment"}, // Entertainment beats Subscriptions
		{"Zomato order", "Food"},
		{"Uber ride to airport", "Travel"},
		{"Electricity bill August", "Utilities"},
		{"College tuition fee", "Education"},
		{"Apollo pharmacy", "Healthcare"},
		{"Amazon purchase", "Shopping"},
		{"SIP mutual fund", "Savings"},
		{"Annual membership renewal", "Subscriptions"},
		{"Petrol pump fill", "Transport"},
		{"UPI transfer", "Payments"},
		{"xyzqwerty", "Other"},
		{"", "Other"},
	}
	for _, tt := range tests {
		if got := c.CategorizeTransaction(tt.description); got != tt.want {
			t.Errorf("CategorizeTransaction(%q) = %q, want %q", tt.description, got, tt.want)
		}
	}
}

func TestCategorizeExpensesPercentagesSumToHundred(t *testing.T) {
	c := NewCategorizer()
	transactions := []models.Transaction{
		{Amount: 100, Description: "Netflix", Date: "2025-01-01"},
		{Amount: 300, Description: "Grocery store", Date: "2025-01-02"},
		{Amount: 50, Description: "Uber", Date: "2025-01-03"},
		{Amount: -75, Description: "Pharmacy refund", Date: "2025-01-04"},
		{Amount: 200, Description: "mystery spend", Date: "2025-01-05"},
	}

	data := c.CategorizeExpenses(transactions)

	if data.TransactionCount != 5 {
		t.Errorf("TransactionCount = %d, want 5", data.TransactionCount)
	}
	if math.Abs(data.TotalAmount-725) > 0.001 {
		t.Errorf("TotalAmount = %v, want 725 (negative amounts folded to absolute)", data.TotalAmount)
	}

	var pctSum float64
	for _, pct := range data.CategoryPercentages {
		if pct < 0 {
			t.Errorf("negative percentage: %v", pct)
		}
		pctSum += pct
	}
	if math.Abs(pctSum-100) > 0.01 {
		t.Errorf("percentages sum to %v, want 100", pctSum)
	}

	if len(data.CategoryOrder) != len(data.CategoryTotals) {
		t.Errorf("CategoryOrder has %d entries, totals map has %d", len(data.CategoryOrder), len(data.CategoryTotals))
	}
}

func TestCategorizeExpensesZeroTotal(t *testing.T) {
	c := NewCategorizer()
	data := c.CategorizeExpenses([]models.Transaction{
		{Amount: 0, Description: "File uploaded successfully", Date: "2025-01-01"},
	})

	if data.TotalAmount != 0 {
		t.Errorf("TotalAmount = %v, want 0", data.TotalAmount)
	}
	for category, pct := range data.CategoryPercentages {
		if pct != 0 {
			t.Errorf("category %s percentage = %v, want 0 when total is zero", category, pct)
		}
	}
}

func TestCategorizeExpensesEmpty(t *testing.T) {
	c := NewCategorizer()
	data := c.CategorizeExpenses(nil)

	if data.TransactionCount != 0 || data.TotalAmount != 0 {
		t.Errorf("empty input produced %+v", data)
	}
	if len(data.CategoryOrder) != 0 {
		t.Errorf("CategoryOrder = %v, want empty", data.CategoryOrder)
	}
}
