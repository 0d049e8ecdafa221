// backend/src/models/transaction.go
package models

// Transaction is the canonical record produced by the extraction pipeline.
// Amount is always a non-negative magnitude: credit rows are dropped during
// extraction, never stored as negative values.
type Transaction struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // YYYY-MM-DD
}

// MissingValueEntry reports null or blank cells found in one column of a
// tabular file. Row numbers are 1-indexed for display.
type MissingValueEntry struct {
	Filename     string `json:"filename"`
	ColumnNumber int    `json:"column_number"`
	ColumnName   string `json:"column_name"`
	MissingRows  []int  `json:"missing_rows"`
	MissingCount int    `json:"missing_count"`
}

// FileResult carries everything extracted from a single uploaded file.
// Extraction never fails outright: parse problems surface here as warnings
// or errors while Transactions still holds at least one record.
type FileResult struct {
	Filename      string              `json:"filename"`
	Transactions  []Transaction       `json:"transactions"`
	Errors        []string            `json:"errors"`
	Warnings      []string            `json:"warnings"`
	MissingValues []MissingValueEntry `json:"missing_values"`
}

// FileIssues groups errors or warnings per filename for the aggregate
// analysis response.
type FileIssues struct {
	Filename string   `json:"filename"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
