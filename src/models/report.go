// backend/src/models/report.go
package models

// ReportSections holds the individual paragraphs of a narrated report.
// TopCategory and Breakdown are null when the underlying data was absent.
type ReportSections struct {
	Introduction    string   `json:"introduction"`
	TopCategory     *string  `json:"top_category"`
	Breakdown       *string  `json:"breakdown"`
	Score           string   `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// NarratedReport is the plain-language rendering of an analysis.
type NarratedReport struct {
	FullReport  string         `json:"full_report"`
	Summary     string         `json:"summary"`
	GeneratedAt string         `json:"generated_at"`
	Sections    ReportSections `json:"sections"`
}
