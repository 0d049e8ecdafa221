// backend/src/services/scoring_service.go
package services

import (
	"fmt"

	"github.com/openaudit/backend/src/models"
	"github.com/openaudit/backend/src/utils"
)

// idealEntry binds a category to its ideal share of spending. The slice
// order fixes both component iteration and recommendation tie-breaks.
type idealEntry struct {
	Category string
	Pct      float64
}

var idealPercentages = []idealEntry{
	{"Food", 15.0},
	{"Entertainment", 10.0},
	{"Travel", 5.0},
	{"Utilities", 10.0},
	{"Education", 10.0},
	{"Healthcare", 5.0},
	{"Shopping", 10.0},
	{"Savings", 25.0},
	{"Subscriptions", 5.0},
	{"Transport", 5.0},
	{"Other", 0.0},
}

type scoringServiceImpl struct{}

// NewScoringService creates the smart-score calculator.
func NewScoringService() ScoringService {
	return &scoringServiceImpl{}
}

func (s *scoringServiceImpl) CalculateSmartScore(data *models.CategorizedData) models.SmartScore {
	percentages := data.CategoryPercentages

	components := make(map[string]models.ScoreComponent, len(idealPercentages))
	totalScore := 0.0
	maxPossible := 0.0

	for _, entry := range idealPercentages {
		actual := percentages[entry.Category]
		var component models.ScoreComponent
		if entry.Pct > 0 {
			deviation := actual - entry.Pct
			if deviation < 0 {
				deviation = -deviation
			}
			// 10 points at an exact match, 0 from 30 points of
			// deviation onward.
			score := 10 - deviation/3
			if score < 0 {
				score = 0
			}
			component = models.ScoreComponent{
				Ideal:     entry.Pct,
				Actual:    utils.RoundFloat(actual, 2),
				Deviation: utils.RoundFloat(deviation, 2),
				Score:     utils.RoundFloat(score, 2),
			}
			totalScore += score
			maxPossible += 10
		} else {
			// For the Other bucket lower is better: unclassified spend
			// is penalized past a 5% share.
			score := 10.0
			if actual > 5 {
				score = 10 - actual/2
				if score < 0 {
					score = 0
				}
			}
			component = models.ScoreComponent{
				Ideal:     0,
				Actual:    utils.RoundFloat(actual, 2),
				Deviation: utils.RoundFloat(actual, 2),
				Score:     utils.RoundFloat(score, 2),
			}
			totalScore += score
			maxPossible += 10
		}
		components[entry.Category] = component
	}

	// Savings bonus, additive on top of the per-category scores.
	savingsPct := percentages["Savings"]
	var savingsBonus float64
	switch {
	case savingsPct >= 25:
		savingsBonus = 10
	case savingsPct >= 15:
		savingsBonus = 7
	case savingsPct >= 10:
		savingsBonus = 5
	default:
		savingsBonus = savingsPct / 10 * 5
		if savingsBonus < 0 {
			savingsBonus = 0
		}
	}
	totalScore += savingsBonus
	maxPossible += 10

	finalScore := 0.0
	if maxPossible > 0 {
		finalScore = totalScore / maxPossible * 10
	}
	finalScore = utils.RoundFloat(finalScore, 1)
	if finalScore > 10 {
		finalScore = 10
	}
	if finalScore < 0 {
		finalScore = 0
	}

	return models.SmartScore{
		Score:           finalScore,
		MaxScore:        10.0,
		SpenderRating:   s.GetSpenderRating(finalScore),
		Components:      components,
		SavingsBonus:    utils.RoundFloat(savingsBonus, 2),
		Interpretation:  interpretScore(finalScore),
		Recommendations: s.generateRecommendations(components, percentages),
	}
}

func interpretScore(score float64) string {
	switch {
	case score >= 8.5:
		return "Wise Spender! You manage your expenses excellently with a balanced spending pattern."
	case score >= 7.0:
		return "Moderate Spender. Your spending habits are mostly on track, with room for minor improvements."
	case score >= 5.5:
		return "Moderate Spender. Your spending patterns could be optimized. Consider reviewing your expense categories."
	case score >= 4.0:
		return "Over-Spender. Significant changes to spending patterns would help your financial health."
	default:
		return "Over-Spender. Immediate attention needed to restructure spending and improve financial habits."
	}
}

func (s *scoringServiceImpl) GetSpenderRating(score float64) string {
	switch {
	case score >= 8.5:
		return "Wise Spender"
	case score >= 5.5:
		return "Moderate Spender"
	default:
		return "Over-Spender"
	}
}

// generateRecommendations applies fixed rule checks in a fixed order so
// output ordering stays deterministic.
func (s *scoringServiceImpl) generateRecommendations(components map[string]models.ScoreComponent, percentages map[string]float64) []string {
	var recommendations []string

	savingsPct := percentages["Savings"]
	if savingsPct < 15 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Priority: Increase savings to at least 15%% of income (currently %.1f%%). Consider automating monthly transfers to savings.",
			savingsPct))
	}

	// Highest spending category, Other and Savings excluded. Ties keep
	// the earlier entry of the ideal table.
	topName := ""
	topActual := 0.0
	haveTop := false
	for _, entry := range idealPercentages {
		if entry.Category == "Other" || entry.Category == "Savings" {
			continue
		}
		actual := components[entry.Category].Actual
		if !haveTop || actual > topActual {
			topName = entry.Category
			topActual = actual
			haveTop = true
		}
	}
	if haveTop {
		ideal := components[topName].Ideal
		if topActual > ideal*1.3 {
			recommendations = append(recommendations, fmt.Sprintf(
				"Optimization: You're spending %.1f%% on %s (ideal: %.1f%%). This is your highest spending category. Review and cut unnecessary expenses here first.",
				topActual, topName, ideal))
		}
	}

	// Categories exceeding 1.5x their ideal share, top 2 reported.
	reported := 0
	for _, entry := range idealPercentages {
		if entry.Category == "Other" || entry.Category == "Savings" || reported >= 2 {
			continue
		}
		component := components[entry.Category]
		if component.Ideal > 0 && component.Actual > component.Ideal*1.5 {
			recommendations = append(recommendations, fmt.Sprintf(
				"Reduce spending on %s. You're spending %.1f%% (ideal: %.1f%%). This is %.0f%% above recommended.",
				entry.Category, component.Actual, component.Ideal,
				(component.Actual/component.Ideal-1)*100))
			reported++
		}
	}

	if percentages["Subscriptions"] > 10 {
		recommendations = append(recommendations,
			"Review subscriptions: You're spending a significant amount on subscriptions. Audit all your subscriptions and cancel unused services to save money.")
	}

	if percentages["Entertainment"] > savingsPct {
		recommendations = append(recommendations,
			"Balance alert: Entertainment spending exceeds savings. Try to reverse this ratio for better financial health - prioritize savings over entertainment.")
	}

	if foodPct := percentages["Food"]; foodPct > 20 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Food spending: You're spending %.1f%% on food (ideal: 15%%). Consider meal planning, cooking at home more, and reducing restaurant visits.",
			foodPct))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Excellent! Your spending patterns are well-balanced. Continue monitoring to maintain this healthy financial habit.")
	}

	return recommendations
}
