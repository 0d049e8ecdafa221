// backend/src/services/nlg_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaudit/backend/src/models"
)

func sampleInsights() models.Insights {
	return models.Insights{
		TotalSpent:       10000,
		TransactionCount: 12,
		TopCategory: models.TopCategory{
			Name:       "Food",
			Amount:     4000,
			Percentage: 40,
		},
		CategoryBreakdown: map[string]models.CategoryBreakdownEntry{
			"Food":          {Amount: 4000, Percentage: 40},
			"Entertainment": {Amount: 3000, Percentage: 30},
			"Travel":        {Amount: 2600, Percentage: 26},
			"Other":         {Amount: 400, Percentage: 4},
		},
	}
}

func TestGenerateReport(t *testing.T) {
	svc := NewNLGService()
	score := models.SmartScore{
		Score:          7.2,
		Interpretation: "Good spending habits with room for improvement.",
		Recommendations: []string{
			"Food spending: reduce by 10%",
			"Increase savings allocation",
			"Track subscriptions monthly",
			"A fourth recommendation that should be cut",
		},
	}

	report := svc.GenerateReport(sampleInsights(), score)

	assert.Contains(t, report.FullReport, "12 transactions totaling ₹10,000.00")
	assert.Contains(t, report.FullReport, "largest expense category is Food")
	assert.Contains(t, report.FullReport, "Smart Spending Score is 7.2/10")
	assert.Contains(t, report.FullReport, "Recommendations:")
	assert.Contains(t, report.FullReport, "1. Food spending: reduce by 10%")
	assert.NotContains(t, report.FullReport, "A fourth recommendation")

	assert.Equal(t, "Total spending: ₹10,000.00 | Top category: Food | Smart Score: 7.2/10", report.Summary)
	assert.NotEmpty(t, report.GeneratedAt)

	require.NotNil(t, report.Sections.TopCategory)
	assert.Contains(t, *report.Sections.TopCategory, "40.0%")
	assert.Len(t, report.Sections.Recommendations, 3)
}

func TestGenerateReportBreakdownOrdering(t *testing.T) {
	svc := NewNLGService()

	report := svc.GenerateReport(sampleInsights(), models.SmartScore{Score: 6})

	require.NotNil(t, report.Sections.Breakdown)
	breakdown := *report.Sections.Breakdown

	// Categories above 5% only, largest share first.
	assert.NotContains(t, breakdown, "Other")
	foodAt := strings.Index(breakdown, "Food")
	entAt := strings.Index(breakdown, "Entertainment")
	travelAt := strings.Index(breakdown, "Travel")
	assert.Greater(t, foodAt, -1)
	assert.Greater(t, entAt, foodAt)
	assert.Greater(t, travelAt, entAt)
	assert.Contains(t, breakdown, ", and Travel (26.0% - ₹2,600.00).")
}

func TestGenerateReportNoData(t *testing.T) {
	svc := NewNLGService()
	insights := models.Insights{
		TopCategory:       models.TopCategory{Name: "N/A"},
		CategoryBreakdown: map[string]models.CategoryBreakdownEntry{},
	}

	report := svc.GenerateReport(insights, models.SmartScore{Score: 0})

	assert.Nil(t, report.Sections.TopCategory)
	assert.Nil(t, report.Sections.Breakdown)
	assert.Contains(t, report.Summary, "Top category: various categories")
	assert.Contains(t, report.FullReport, "0 transactions totaling ₹0.00")
}
