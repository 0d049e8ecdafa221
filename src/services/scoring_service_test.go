// backend/src/services/scoring_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaudit/backend/src/models"
)

func categorizedWith(percentages map[string]float64) *models.CategorizedData {
	data := &models.CategorizedData{
		Categories:          make(map[string][]models.Transaction),
		CategoryTotals:      make(map[string]float64),
		CategoryPercentages: percentages,
	}
	for category, pct := range percentages {
		data.CategoryOrder = append(data.CategoryOrder, category)
		data.CategoryTotals[category] = pct * 10
		data.TotalAmount += pct * 10
	}
	return data
}

func TestCalculateSmartScoreBounds(t *testing.T) {
	scoring := NewScoringService()
	cases := []struct {
		name        string
		percentages map[string]float64
	}{
		{"empty", map[string]float64{}},
		{"all other", map[string]float64{"Other": 100}},
		{"all food", map[string]float64{"Food": 100}},
		{"ideal", map[string]float64{
			"Food": 15, "Entertainment": 10, "Travel": 5, "Utilities": 10,
			"Education": 10, "Healthcare": 5, "Shopping": 10, "Savings": 25,
			"Subscriptions": 5, "Transport": 5,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := scoring.CalculateSmartScore(categorizedWith(tc.percentages))
			assert.GreaterOrEqual(t, score.Score, 0.0)
			assert.LessOrEqual(t, score.Score, 10.0)
			assert.Equal(t, 10.0, score.MaxScore)
			assert.Len(t, score.Components, 11)
			assert.NotEmpty(t, score.Interpretation)
			assert.NotEmpty(t, score.Recommendations)
		})
	}
}

func TestCalculateSmartScoreIdealDistribution(t *testing.T) {
	scoring := NewScoringService()
	score := scoring.CalculateSmartScore(categorizedWith(map[string]float64{
		"Food": 15, "Entertainment": 10, "Travel": 5, "Utilities": 10,
		"Education": 10, "Healthcare": 5, "Shopping": 10, "Savings": 25,
		"Subscriptions": 5, "Transport": 5,
	}))

	// Every component at its ideal plus the full savings bonus is a 10.
	require.Equal(t, 10.0, score.Score)
	assert.Equal(t, 10.0, score.SavingsBonus)
	assert.Equal(t, "Wise Spender", score.SpenderRating)
	assert.Equal(t, 10.0, score.Components["Food"].Score)
	assert.Equal(t, 0.0, score.Components["Food"].Deviation)
}

func TestCalculateSmartScoreAllOther(t *testing.T) {
	scoring := NewScoringService()
	score := scoring.CalculateSmartScore(categorizedWith(map[string]float64{"Other": 100}))

	// 100% unclassified spend zeroes the Other sub-score.
	assert.Equal(t, 0.0, score.Components["Other"].Score)
	assert.Equal(t, 100.0, score.Components["Other"].Actual)
}

func TestCalculateSmartScoreSavingsBonusTiers(t *testing.T) {
	scoring := NewScoringService()
	tiers := []struct {
		savings float64
		bonus   float64
	}{
		{30, 10},
		{25, 10},
		{20, 7},
		{12, 5},
		{6, 3},
		{0, 0},
	}
	for _, tier := range tiers {
		score := scoring.CalculateSmartScore(categorizedWith(map[string]float64{"Savings": tier.savings}))
		assert.Equal(t, tier.bonus, score.SavingsBonus, "savings %.0f%%", tier.savings)
	}
}

func TestRecommendationsLowSavingsFirst(t *testing.T) {
	scoring := NewScoringService()
	score := scoring.CalculateSmartScore(categorizedWith(map[string]float64{
		"Food": 50, "Savings": 5, "Other": 45,
	}))

	require.NotEmpty(t, score.Recommendations)
	assert.True(t, strings.HasPrefix(score.Recommendations[0], "Priority: Increase savings"),
		"first recommendation = %q", score.Recommendations[0])

	var hasFood bool
	for _, rec := range score.Recommendations {
		if strings.HasPrefix(rec, "Food spending:") {
			hasFood = true
		}
	}
	assert.True(t, hasFood, "expected a food overspend recommendation: %v", score.Recommendations)
}

func TestRecommendationsBalanced(t *testing.T) {
	scoring := NewScoringService()
	score := scoring.CalculateSmartScore(categorizedWith(map[string]float64{
		"Food": 15, "Entertainment": 10, "Travel": 5, "Utilities": 10,
		"Education": 10, "Healthcare": 5, "Shopping": 10, "Savings": 25,
		"Subscriptions": 5, "Transport": 5,
	}))

	require.Len(t, score.Recommendations, 1)
	assert.True(t, strings.HasPrefix(score.Recommendations[0], "Excellent!"))
}

func TestGetSpenderRating(t *testing.T) {
	scoring := NewScoringService()
	assert.Equal(t, "Wise Spender", scoring.GetSpenderRating(9.0))
	assert.Equal(t, "Wise Spender", scoring.GetSpenderRating(8.5))
	assert.Equal(t, "Moderate Spender", scoring.GetSpenderRating(7.0))
	assert.Equal(t, "Moderate Spender", scoring.GetSpenderRating(5.5))
	assert.Equal(t, "Over-Spender", scoring.GetSpenderRating(5.4))
	assert.Equal(t, "Over-Spender", scoring.GetSpenderRating(0))
}
