// backend/src/services/suggestion_service.go
package services

import (
	"fmt"
	"sort"

	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/utils"
)

type suggestionServiceImpl struct{}

// NewSuggestionService creates the advice-card generator.
func NewSuggestionService() SuggestionService {
	return &suggestionServiceImpl{}
}

func (s *suggestionServiceImpl) GenerateSuggestions(insights models.Insights, smartScore models.SmartScore) []models.Suggestion {
	var suggestions []models.Suggestion

	top := insights.TopCategory
	if top.Name != "" && top.Name != "N/A" && top.Percentage > 30 {
		suggestions = append(suggestions, models.Suggestion{
			Type:  "warning",
			Title: fmt.Sprintf("High Spending in %s", top.Name),
			Message: fmt.Sprintf(
				"You're spending %.1f%% of your budget on %s. Consider reviewing expenses in this category.",
				top.Percentage, top.Name),
			Priority: "high",
		})
	}

	// Top 3 categories by share; any above 20% earns an optimization card.
	categories := make([]string, 0, len(insights.CategoryBreakdown))
	for category := range insights.CategoryBreakdown {
		categories = append(categories, category)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := insights.CategoryBreakdown[categories[i]], insights.CategoryBreakdown[categories[j]]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return categories[i] < categories[j]
	})
	if len(categories) > 3 {
		categories = categories[:3]
	}
	for _, category := range categories {
		entry := insights.CategoryBreakdown[category]
		if entry.Percentage > 20 {
			suggestions = append(suggestions, models.Suggestion{
				Type:  "info",
				Title: fmt.Sprintf("Optimize %s Spending", category),
				Message: fmt.Sprintf(
					"Your %s expenses account for %.1f%% of total spending (₹%s). Look for opportunities to reduce costs here.",
					category, entry.Percentage, utils.FormatAmount(entry.Amount)),
				Priority: "medium",
			})
		}
	}

	if smartScore.Score < 5 {
		suggestions = append(suggestions, models.Suggestion{
			Type:  "critical",
			Title: "Improve Spending Patterns",
			Message: fmt.Sprintf(
				"Your Financial Health Score is %.1f/10. Consider reviewing your spending habits and creating a budget.",
				smartScore.Score),
			Priority: "high",
		})
	}

	recs := smartScore.Recommendations
	if len(recs) > 2 {
		recs = recs[:2]
	}
	for _, rec := range recs {
		suggestions = append(suggestions, models.Suggestion{
			Type:     "info",
			Title:    "Recommendation",
			Message:  rec,
			Priority: "medium",
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, models.Suggestion{
			Type:     "success",
			Title:    "Good Financial Health",
			Message:  "Your financial patterns look healthy. Continue monitoring to maintain this status.",
			Priority: "low",
		})
	}

	return suggestions
}
