// backend/src/processors/insights.go
package processors

import (
	"sort"

	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/utils"
)

// InsightProcessor derives summaries and chart series from categorized
// spending data.
type InsightProcessor struct{}

// NewInsightProcessor creates a new InsightProcessor.
func NewInsightProcessor() *InsightProcessor {
	return &InsightProcessor{}
}

// GenerateInsights computes the top category and per-category breakdown.
// The stable sort over first-encounter order keeps ties deterministic.
func (p *InsightProcessor) GenerateInsights(data *models.CategorizedData) models.Insights {
	ordered := make([]string, len(data.CategoryOrder))
	copy(ordered, data.CategoryOrder)
	sort.SliceStable(ordered, func(i, j int) bool {
		return data.CategoryPercentages[ordered[i]] > data.CategoryPercentages[ordered[j]]
	})

	insights := models.Insights{
		TopCategory:       models.TopCategory{Name: "N/A"},
		CategoryBreakdown: make(map[string]models.CategoryBreakdownEntry),
		TotalSpent:        utils.RoundFloat(data.TotalAmount, 2),
		TransactionCount:  data.TransactionCount,
	}

	if len(ordered) > 0 {
		top := ordered[0]
		insights.TopCategory = models.TopCategory{
			Name:       top,
			Percentage: utils.RoundFloat(data.CategoryPercentages[top], 2),
			Amount:     utils.RoundFloat(data.CategoryTotals[top], 2),
		}
	}

	for _, category := range data.CategoryOrder {
		insights.CategoryBreakdown[category] = models.CategoryBreakdownEntry{
			Percentage: utils.RoundFloat(data.CategoryPercentages[category], 2),
			Amount:     utils.RoundFloat(data.CategoryTotals[category], 2),
		}
	}

	return insights
}

// GenerateVisualizationData builds chart-ready series. Only categories
// with actual spending appear; the bar series is sorted by amount.
func (p *InsightProcessor) GenerateVisualizationData(data *models.CategorizedData) models.Visualizations {
	viz := models.Visualizations{
		PieChart: []models.PieChartEntry{},
		BarChart: []models.BarChartEntry{},
	}

	var nonzero []string
	for _, category := range data.CategoryOrder {
		amount := data.CategoryTotals[category]
		if amount <= 0 {
			continue
		}
		nonzero = append(nonzero, category)
		viz.PieChart = append(viz.PieChart, models.PieChartEntry{
			Name:  category,
			Value: utils.RoundFloat(amount, 2),
		})
		viz.BarChart = append(viz.BarChart, models.BarChartEntry{
			Name:       category,
			Value:      utils.RoundFloat(amount, 2),
			Category:   category,
			Amount:     utils.RoundFloat(amount, 2),
			Percentage: utils.RoundFloat(data.CategoryPercentages[category], 2),
		})
	}

	sort.SliceStable(viz.BarChart, func(i, j int) bool {
		return viz.BarChart[i].Amount > viz.BarChart[j].Amount
	})

	viz.SummaryStats.TotalCategories = len(nonzero)
	if len(nonzero) > 0 {
		largest, smallest := nonzero[0], nonzero[0]
		for _, category := range nonzero[1:] {
			if data.CategoryTotals[category] > data.CategoryTotals[largest] {
				largest = category
			}
			if data.CategoryTotals[category] < data.CategoryTotals[smallest] {
				smallest = category
			}
		}
		viz.SummaryStats.LargestCategory = &largest
		viz.SummaryStats.SmallestCategory = &smallest
	}

	return viz
}
