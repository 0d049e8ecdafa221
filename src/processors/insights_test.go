// backend/src/processors/insights_test.go
package processors

import (
	"testing"

	"github.com/openaudit/backend/src/models"
)

func categorized(t *testing.T, transactions []models.Transaction) *models.CategorizedData {
	t.Helper()
	return NewCategorizer().CategorizeExpenses(transactions)
}

func TestGenerateInsights(t *testing.T) {
	p := NewInsightProcessor()
	data := categorized(t, []models.Transaction{
		{Amount: 600, Description: "Grocery store", Date: "2025-01-01"},
		{Amount: 300, Description: "Netflix", Date: "2025-01-02"},
		{Amount: 100, Description: "Uber", Date: "2025-01-03"},
	})

	insights := p.GenerateInsights(data)

	if insights.TopCategory.Name != "Food" {
		t.Errorf("TopCategory = %q, want Food", insights.TopCategory.Name)
	}
	if insights.TopCategory.Percentage != 60 {
		t.Errorf("TopCategory.Percentage = %v, want 60", insights.TopCategory.Percentage)
	}
	if insights.TopCategory.Amount != 600 {
		t.Errorf("TopCategory.Amount = %v, want 600", insights.TopCategory.Amount)
	}
	if insights.TotalSpent != 1000 {
		t.Errorf("TotalSpent = %v, want 1000", insights.TotalSpent)
	}
	if insights.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3", insights.TransactionCount)
	}
	if len(insights.CategoryBreakdown) != 3 {
		t.Errorf("CategoryBreakdown has %d entries, want 3", len(insights.CategoryBreakdown))
	}
	if entry := insights.CategoryBreakdown["Entertainment"]; entry.Percentage != 30 || entry.Amount != 300 {
		t.Errorf("Entertainment breakdown = %+v", entry)
	}
}

func TestGenerateInsightsEmpty(t *testing.T) {
	p := NewInsightProcessor()
	insights := p.GenerateInsights(categorized(t, nil))

	if insights.TopCategory.Name != "N/A" {
		t.Errorf("TopCategory = %q, want N/A", insights.TopCategory.Name)
	}
	if insights.TotalSpent != 0 || insights.TransactionCount != 0 {
		t.Errorf("empty insights = %+v", insights)
	}
}

func TestGenerateVisualizationData(t *testing.T) {
	p := NewInsightProcessor()
	data := categorized(t, []models.Transaction{
		{Amount: 600, Description: "Grocery store", Date: "2025-01-01"},
		{Amount: 300, Description: "Netflix", Date: "2025-01-02"},
		{Amount: 0, Description: "placeholder entry", Date: "2025-01-03"},
	})

	viz := p.GenerateVisualizationData(data)

	// The zero-amount Other bucket must not appear in chart series.
	if len(viz.PieChart) != 2 {
		t.Fatalf("PieChart has %d entries, want 2: %+v", len(viz.PieChart), viz.PieChart)
	}
	if len(viz.BarChart) != 2 {
		t.Fatalf("BarChart has %d entries, want 2", len(viz.BarChart))
	}
	if viz.BarChart[0].Amount < viz.BarChart[1].Amount {
		t.Error("BarChart not sorted by amount descending")
	}
	if viz.SummaryStats.TotalCategories != 2 {
		t.Errorf("TotalCategories = %d, want 2", viz.SummaryStats.TotalCategories)
	}
	if viz.SummaryStats.LargestCategory == nil || *viz.SummaryStats.LargestCategory != "Food" {
		t.Errorf("LargestCategory = %v, want Food", viz.SummaryStats.LargestCategory)
	}
	if viz.SummaryStats.SmallestCategory == nil || *viz.SummaryStats.SmallestCategory != "Entertainment" {
		t.Errorf("SmallestCategory = %v, want Entertainment", viz.SummaryStats.SmallestCategory)
	}
}

func TestGenerateVisualizationDataAllZero(t *testing.T) {
	p := NewInsightProcessor()
	viz := p.GenerateVisualizationData(categorized(t, []models.Transaction{
		{Amount: 0, Description: "File uploaded successfully", Date: "2025-01-01"},
	}))

	if len(viz.PieChart) != 0 || len(viz.BarChart) != 0 {
		t.Errorf("zero-spend charts should be empty: %+v", viz)
	}
	if viz.SummaryStats.TotalCategories != 0 {
		t.Errorf("TotalCategories = %d, want 0", viz.SummaryStats.TotalCategories)
	}
	if viz.SummaryStats.LargestCategory != nil {
		t.Error("LargestCategory should be nil with no spending")
	}
}
