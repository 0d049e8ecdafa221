// backend/src/parsers/parsers.go
// Package parsers turns heterogeneous uploaded statement files into
// canonical transactions. Extraction is layered: structured tabular
// parsing, then heuristic text parsing, then a last-resort placeholder.
// The package-level contract is that extraction never fails and never
// returns zero transactions.
package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/models"
)

// FileExtractor dispatches uploaded files by extension and produces a
// FileResult per file. It is stateless and safe for concurrent use.
type FileExtractor struct{}

// NewFileExtractor creates a new FileExtractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

func placeholder(description string) []models.Transaction {
	return []models.Transaction{{
		Amount:      0.0,
		Description: description,
		Date:        time.Now().Format("2006-01-02"),
	}}
}

func textPreview(text string, limit int) string {
	preview := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(preview) > limit {
		preview = preview[:limit]
	}
	return preview
}

// ExtractFile processes one uploaded file. Whatever the content looks
// like, the result carries at least one transaction; parse problems are
// recorded as warnings or errors on the result, never returned.
func (e *FileExtractor) ExtractFile(filename string, content []byte) models.FileResult {
	result := models.FileResult{Filename: filename}

	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx+1:])
	}

	switch ext {
	case "csv":
		e.extractTabular(&result, content, LoadCSV, "CSV")
	case "xlsx":
		e.extractTabular(&result, content, LoadXLSX, "Excel file")
	case "xls":
		e.extractTabular(&result, content, LoadXLS, "Excel file")
	case "pdf":
		e.extractPDF(&result, content)
	case "txt":
		e.extractText(&result, content)
	case "jpg", "jpeg", "png":
		result.Warnings = append(result.Warnings, "Image files require OCR. Creating placeholder transaction.")
		result.Transactions = placeholder(fmt.Sprintf("Image file: %s (OCR not implemented)", filename))
	default:
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown file type: %s. Attempting to process as generic data.", ext))
		result.Transactions = placeholder(fmt.Sprintf("File: %s", filename))
	}

	if len(result.Transactions) == 0 {
		result.Transactions = placeholder(fmt.Sprintf("File: %s", filename))
	}

	logger.L.Debug("file extracted",
		"filename", filename,
		"transactions", len(result.Transactions),
		"warnings", len(result.Warnings),
		"errors", len(result.Errors))

	return result
}

func (e *FileExtractor) extractTabular(result *models.FileResult, content []byte, load func([]byte) (*Dataset, error), kind string) {
	dataset, err := load(content)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse %s: %v", kind, err))
		return
	}

	// Missing-value audit is a diagnostic side channel only.
	missing := CheckMissingValues(dataset, result.Filename)
	result.MissingValues = append(result.MissingValues, missing...)
	for _, entry := range missing {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Missing value detected in %s: Column %d (%s) has %d missing value(s)",
			entry.Filename, entry.ColumnNumber, entry.ColumnName, entry.MissingCount))
	}

	result.Transactions = NormalizeTransactions(dataset)
	if len(result.Transactions) == 0 {
		result.Warnings = append(result.Warnings, "File processed but no transaction data could be extracted. Please check your file format.")
		result.Transactions = placeholder(fmt.Sprintf("Data from %s", result.Filename))
	}
}

func (e *FileExtractor) extractPDF(result *models.FileResult, content []byte) {
	text, err := ExtractPDFText(content)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to parse PDF: %v", err))
		result.Transactions = placeholder(fmt.Sprintf("PDF file: %s", result.Filename))
		return
	}

	if strings.TrimSpace(text) == "" {
		result.Warnings = append(result.Warnings, "PDF contains no extractable text. May need OCR.")
		result.Transactions = placeholder(fmt.Sprintf("PDF file: %s (no extractable text)", result.Filename))
		return
	}

	result.Transactions = ParseStatementText(text)
	if len(result.Transactions) == 0 {
		result.Transactions = placeholder(fmt.Sprintf("PDF: %s...", textPreview(text, 200)))
	}
}

func (e *FileExtractor) extractText(result *models.FileResult, content []byte) {
	text := DecodeText(content)
	result.Transactions = ParseTextLines(text)
	if len(result.Transactions) == 0 {
		result.Transactions = placeholder(fmt.Sprintf("Text file: %s...", textPreview(text, 200)))
	}
}
