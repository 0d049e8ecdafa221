// backend/src/models/score.go
package models

// ScoreComponent is one category's contribution to the smart score.
type ScoreComponent struct {
	Ideal     float64 `json:"ideal"`
	Actual    float64 `json:"actual"`
	Deviation float64 `json:"deviation"`
	Score     float64 `json:"score"`
}

// SmartScore is the composite spending-health score on a 0-10 scale.
type SmartScore struct {
	Score           float64                   `json:"score"`
	MaxScore        float64                   `json:"max_score"`
	SpenderRating   string                    `json:"spender_rating"`
	Components      map[string]ScoreComponent `json:"components"`
	SavingsBonus    float64                   `json:"savings_bonus"`
	Interpretation  string                    `json:"interpretation"`
	Recommendations []string                  `json:"recommendations"`
}

// Suggestion is one prioritized advice card derived from an analysis.
type Suggestion struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
