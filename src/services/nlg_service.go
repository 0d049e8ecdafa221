// backend/src/services/nlg_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/utils"
)

type nlgServiceImpl struct{}

// NewNLGService creates the report narrator. It is pure templating over
// insight and score data; all branching is presence checks.
func NewNLGService() NLGService {
	return &nlgServiceImpl{}
}

func (s *nlgServiceImpl) GenerateReport(insights models.Insights, smartScore models.SmartScore) models.NarratedReport {
	var sections []string

	intro := fmt.Sprintf(
		"Based on your financial analysis of %d transactions totaling ₹%s, here's your comprehensive spending report.",
		insights.TransactionCount, utils.FormatAmount(insights.TotalSpent))
	sections = append(sections, intro)

	var topSection *string
	if insights.TopCategory.Name != "" && insights.TopCategory.Name != "N/A" {
		text := fmt.Sprintf(
			"Your largest expense category is %s, accounting for %.1f%% of your spending (₹%s).",
			insights.TopCategory.Name, insights.TopCategory.Percentage, utils.FormatAmount(insights.TopCategory.Amount))
		topSection = &text
		sections = append(sections, text)
	}

	var breakdownSection *string
	if text, ok := s.breakdownSentence(insights.CategoryBreakdown); ok {
		breakdownSection = &text
		sections = append(sections, text)
	}

	scoreSection := fmt.Sprintf("Your Smart Spending Score is %.1f/10. %s", smartScore.Score, smartScore.Interpretation)
	sections = append(sections, scoreSection)

	topRecommendations := smartScore.Recommendations
	if len(topRecommendations) > 3 {
		topRecommendations = topRecommendations[:3]
	}
	if len(topRecommendations) > 0 {
		sections = append(sections, "\nRecommendations:")
		for i, rec := range topRecommendations {
			sections = append(sections, fmt.Sprintf("%d. %s", i+1, rec))
		}
	}

	summary := fmt.Sprintf("Total spending: ₹%s | Top category: %s | Smart Score: %.1f/10",
		utils.FormatAmount(insights.TotalSpent), summaryTopName(insights), smartScore.Score)

	return models.NarratedReport{
		FullReport:  strings.Join(sections, "\n\n"),
		Summary:     summary,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Sections: models.ReportSections{
			Introduction:    intro,
			TopCategory:     topSection,
			Breakdown:       breakdownSection,
			Score:           scoreSection,
			Recommendations: topRecommendations,
		},
	}
}

// breakdownSentence lists every category above a 5% share, largest
// first, joined into one sentence.
func (s *nlgServiceImpl) breakdownSentence(breakdown map[string]models.CategoryBreakdownEntry) (string, bool) {
	var notable []string
	for category, entry := range breakdown {
		if entry.Percentage > 5 {
			notable = append(notable, category)
		}
	}
	if len(notable) == 0 {
		return "", false
	}
	sort.SliceStable(notable, func(i, j int) bool {
		a, b := breakdown[notable[i]], breakdown[notable[j]]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		return notable[i] < notable[j]
	})

	parts := make([]string, len(notable))
	for i, category := range notable {
		entry := breakdown[category]
		parts[i] = fmt.Sprintf("%s (%.1f%% - ₹%s)", category, entry.Percentage, utils.FormatAmount(entry.Amount))
	}

	var body string
	if len(parts) == 1 {
		body = parts[0]
	} else {
		body = strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
	return "Your spending is distributed across the following categories: " + body + ".", true
}

func summaryTopName(insights models.Insights) string {
	if insights.TopCategory.Name == "" || insights.TopCategory.Name == "N/A" {
		return "various categories"
	}
	return insights.TopCategory.Name
}
