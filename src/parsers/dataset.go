// backend/src/parsers/dataset.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/openaudit/backend/src/models"
)

// Dataset is an in-memory tabular file: one header row plus data rows.
// Rows may be ragged; a cell beyond a row's length reads as empty.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the cell at (row, col), or "" when the row is shorter.
func (d *Dataset) Cell(row, col int) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	r := d.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// FindColumn returns the index of the first header whose lower-cased,
// trimmed form equals one of the candidate names, trying candidates in
// the caller's priority order. Returns -1 when nothing matches.
func FindColumn(headers []string, candidates []string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, name := range candidates {
		want := strings.ToLower(strings.TrimSpace(name))
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}
	return -1
}

// csvEncodings is tried in order when loading delimited files. Bank
// exports are frequently latin-1 or cp1252 rather than UTF-8.
var csvEncodings = []string{"utf-8", "latin-1", "iso-8859-1", "cp1252"}

func decodeWith(content []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "utf-8":
		if !utf8.Valid(content) {
			return nil, fmt.Errorf("content is not valid UTF-8")
		}
		return content, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Bytes(content)
	case "cp1252":
		return charmap.Windows1252.NewDecoder().Bytes(content)
	default:
		return nil, fmt.Errorf("unsupported encoding %s", encoding)
	}
}

// LoadCSV parses delimited content into a Dataset, trying each encoding
// in csvEncodings until one yields a parseable table with a header row.
func LoadCSV(content []byte) (*Dataset, error) {
	var lastErr error
	for _, encoding := range csvEncodings {
		decoded, err := decodeWith(content, encoding)
		if err != nil {
			lastErr = err
			continue
		}
		reader := csv.NewReader(bytes.NewReader(decoded))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = true
		records, err := reader.ReadAll()
		if err != nil {
			lastErr = err
			continue
		}
		if len(records) == 0 {
			lastErr = fmt.Errorf("no columns to parse from file")
			continue
		}
		return &Dataset{Headers: records[0], Rows: records[1:]}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no columns to parse from file")
	}
	return nil, lastErr
}

// LoadXLSX parses a modern spreadsheet, reading the first sheet.
func LoadXLSX(content []byte) (*Dataset, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet has no rows")
	}
	return &Dataset{Headers: rows[0], Rows: rows[1:]}, nil
}

// LoadXLS parses a legacy spreadsheet. The reader library wants a file
// path, so the content goes through a temp file.
func LoadXLS(content []byte) (*Dataset, error) {
	tmpFile, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	book, err := xls.OpenFile(tmpFile.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var rowData []string
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet has no rows")
	}
	return &Dataset{Headers: rows[0], Rows: rows[1:]}, nil
}

// CheckMissingValues reports null or blank cells per column. It is a
// diagnostic side pass: it never affects extraction and never fails.
func CheckMissingValues(d *Dataset, filename string) []models.MissingValueEntry {
	if d == nil {
		return nil
	}
	var report []models.MissingValueEntry
	for colIdx, colName := range d.Headers {
		var missingRows []int
		for rowIdx := range d.Rows {
			if strings.TrimSpace(d.Cell(rowIdx, colIdx)) == "" {
				missingRows = append(missingRows, rowIdx+1)
			}
		}
		if len(missingRows) > 0 {
			report = append(report, models.MissingValueEntry{
				Filename:     filename,
				ColumnNumber: colIdx + 1,
				ColumnName:   colName,
				MissingRows:  missingRows,
				MissingCount: len(missingRows),
			})
		}
	}
	return report
}
