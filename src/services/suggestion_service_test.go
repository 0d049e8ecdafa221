// backend/src/services/suggestion_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaudit/backend/src/models"
)

func suggestionTitles(suggestions []models.Suggestion) []string {
	titles := make([]string, len(suggestions))
	for i, s := range suggestions {
		titles[i] = s.Title
	}
	return titles
}

func TestGenerateSuggestionsHighSpending(t *testing.T) {
	svc := NewSuggestionService()
	insights := sampleInsights()
	score := models.SmartScore{
		Score: 4.2,
		Recommendations: []string{
			"Increase savings allocation",
			"Track subscriptions monthly",
			"A third recommendation that should be cut",
		},
	}

	suggestions := svc.GenerateSuggestions(insights, score)
	titles := suggestionTitles(suggestions)

	// Food is above the 30% warning line and the 20% optimization line.
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "High Spending in Food", suggestions[0].Title)
	assert.Equal(t, "warning", suggestions[0].Type)
	assert.Equal(t, "high", suggestions[0].Priority)
	assert.Contains(t, suggestions[0].Message, "40.0%")

	assert.Contains(t, titles, "Optimize Food Spending")
	assert.Contains(t, titles, "Optimize Entertainment Spending")
	assert.Contains(t, titles, "Optimize Travel Spending")

	assert.Contains(t, titles, "Improve Spending Patterns")

	recCount := 0
	for _, s := range suggestions {
		if s.Title == "Recommendation" {
			recCount++
			assert.NotContains(t, s.Message, "third recommendation")
		}
	}
	assert.Equal(t, 2, recCount)
}

func TestGenerateSuggestionsOptimizationTopThreeOnly(t *testing.T) {
	svc := NewSuggestionService()
	insights := models.Insights{
		TopCategory: models.TopCategory{Name: "Food", Percentage: 26, Amount: 2600},
		CategoryBreakdown: map[string]models.CategoryBreakdownEntry{
			"Food":      {Amount: 2600, Percentage: 26},
			"Travel":    {Amount: 2500, Percentage: 25},
			"Utilities": {Amount: 2400, Percentage: 24},
			"Shopping":  {Amount: 2300, Percentage: 23},
		},
		TotalSpent:       9800,
		TransactionCount: 8,
	}

	suggestions := svc.GenerateSuggestions(insights, models.SmartScore{Score: 7})
	titles := suggestionTitles(suggestions)

	// Shopping is above 20% but outside the top three shares.
	assert.Contains(t, titles, "Optimize Food Spending")
	assert.Contains(t, titles, "Optimize Travel Spending")
	assert.Contains(t, titles, "Optimize Utilities Spending")
	assert.NotContains(t, titles, "Optimize Shopping Spending")
	assert.NotContains(t, titles, "High Spending in Food")
	assert.NotContains(t, titles, "Improve Spending Patterns")
}

func TestGenerateSuggestionsHealthyDefault(t *testing.T) {
	svc := NewSuggestionService()
	insights := models.Insights{
		TopCategory: models.TopCategory{Name: "Food", Percentage: 15, Amount: 150},
		CategoryBreakdown: map[string]models.CategoryBreakdownEntry{
			"Food": {Amount: 150, Percentage: 15},
		},
		TotalSpent:       1000,
		TransactionCount: 4,
	}

	suggestions := svc.GenerateSuggestions(insights, models.SmartScore{Score: 8})

	require.Len(t, suggestions, 1)
	assert.Equal(t, "success", suggestions[0].Type)
	assert.Equal(t, "Good Financial Health", suggestions[0].Title)
	assert.Equal(t, "low", suggestions[0].Priority)
}
