// backend/src/models/analysis.go
package models

// DateRange bounds the transactions in one analysis. Either side may be
// null when no transaction carried a parseable date.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// ProcessedData is the cleaned transaction set plus batch-level totals.
type ProcessedData struct {
	TotalTransactions int           `json:"total_transactions"`
	TotalAmount       float64       `json:"total_amount"`
	DateRange         DateRange     `json:"date_range"`
	Transactions      []Transaction `json:"transactions"`
}

// CategorizedData is the Categorizer's aggregate output. CategoryOrder
// records first-encounter order of the category maps so downstream
// consumers can iterate deterministically; it is not serialized.
type CategorizedData struct {
	Categories          map[string][]Transaction `json:"categories"`
	CategoryTotals      map[string]float64       `json:"category_totals"`
	CategoryPercentages map[string]float64       `json:"category_percentages"`
	TotalAmount         float64                  `json:"total_amount"`
	TransactionCount    int                      `json:"transaction_count"`

	CategoryOrder []string `json:"-"`
}

// TopCategory identifies the largest spending category.
type TopCategory struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// CategoryBreakdownEntry is one category's share of total spend.
type CategoryBreakdownEntry struct {
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// Insights summarizes a categorized spending analysis.
type Insights struct {
	TopCategory       TopCategory                       `json:"top_category"`
	CategoryBreakdown map[string]CategoryBreakdownEntry `json:"category_breakdown"`
	TotalSpent        float64                           `json:"total_spent"`
	TransactionCount  int                               `json:"transaction_count"`
}

// PieChartEntry is one slice of the category pie chart.
type PieChartEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BarChartEntry is one bar of the per-category spending chart.
type BarChartEntry struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// SummaryStats describes the nonzero categories feeding the charts.
type SummaryStats struct {
	TotalCategories  int     `json:"total_categories"`
	LargestCategory  *string `json:"largest_category"`
	SmallestCategory *string `json:"smallest_category"`
}

// Visualizations holds chart-ready series derived from categorized data.
type Visualizations struct {
	PieChart     []PieChartEntry `json:"pie_chart"`
	BarChart     []BarChartEntry `json:"bar_chart"`
	SummaryStats SummaryStats    `json:"summary_stats"`
}

// AnalysisResult is the full response of one analysis request.
type AnalysisResult struct {
	ProcessedData
	Insights       Insights            `json:"insights"`
	Visualizations Visualizations      `json:"visualizations"`
	SmartScore     SmartScore          `json:"smart_score"`
	FileErrors     []FileIssues        `json:"file_errors"`
	FileWarnings   []FileIssues        `json:"file_warnings"`
	MissingValues  []MissingValueEntry `json:"missing_values"`
	ID             string              `json:"id"`
}
