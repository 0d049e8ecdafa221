// backend/src/parsers/pdf.go
package parsers

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/openaudit/backend/src/models"
)

var (
	monthDateRe   = regexp.MustCompile(`(?i)(\d{1,2}\s+(?:JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s+\d{4})`)
	numericDateRe = regexp.MustCompile(`(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`)
	twoDecimalRe  = regexp.MustCompile(`([\d,]+\.\d{2})`)
	looseAmountRe = regexp.MustCompile(`([\d,]+\.\d{2}|[\d,]+\.\d{1,2})`)
)

// ExtractPDFText pulls the embedded text out of a PDF. The underlying
// library panics on some malformed files, so the recover is required.
func ExtractPDFText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// parseStatementDate converts a matched date token to ISO form, falling
// back to the current date when no known layout fits.
func parseStatementDate(token string) string {
	s := strings.TrimSpace(token)
	// Normalize month casing for the "2 Jan 2006" layout.
	fields := strings.Fields(s)
	if len(fields) == 3 {
		m := fields[1]
		fields[1] = strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
		s = strings.Join(fields, " ")
	}
	for _, layout := range []string{"2 Jan 2006", "02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}

func parsePlainAmount(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseStatementText extracts transactions from the raw text of a bank
// statement PDF. It first looks for a tabular layout with a recognizable
// header line; failing that it degrades to per-line extraction.
func ParseStatementText(text string) []models.Transaction {
	lines := strings.Split(text, "\n")

	// Locate a header row: statements print something like
	// "Date  Details  Ref No.  Debit  Credit  Balance".
	headerIdx := -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "date") && (strings.Contains(lower, "debit") || strings.Contains(lower, "details")) {
			headerIdx = i
			break
		}
	}

	var extracted []models.Transaction
	if headerIdx >= 0 {
		for i := headerIdx + 1; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if len(line) < 10 {
				continue
			}

			dateLoc := monthDateRe.FindStringIndex(line)
			if dateLoc == nil {
				dateLoc = numericDateRe.FindStringIndex(line)
			}
			if dateLoc == nil {
				continue
			}
			dateVal := parseStatementDate(line[dateLoc[0]:dateLoc[1]])
			dateEnd := dateLoc[1]

			lineUpper := strings.ToUpper(line)
			isDebit := strings.Contains(lineUpper, "TRANSFER TO") || strings.Contains(lineUpper, "DR")
			isCredit := strings.Contains(lineUpper, "TRANSFER FROM") || strings.Contains(lineUpper, "CR")
			if isCredit {
				continue
			}

			amountTokens := twoDecimalRe.FindAllString(line, -1)

			// The debit figure sits after the description; the trailing
			// balance is excluded by the upper bound on plausible
			// expense values.
			var debitAmount float64
			haveDebit := false
			for _, token := range amountTokens {
				pos := strings.Index(line, token)
				if pos <= dateEnd+30 {
					continue
				}
				amt, ok := parsePlainAmount(token)
				if !ok || amt < 0.01 || amt > 10000000 {
					continue
				}
				if isDebit {
					debitAmount = amt
					haveDebit = true
					break
				}
				if !haveDebit {
					debitAmount = amt
					haveDebit = true
				}
			}

			descEnd := len(line)
			for _, token := range amountTokens {
				pos := strings.Index(line, token)
				if pos > dateEnd {
					descEnd = pos
					break
				}
			}
			description := strings.TrimSpace(line[dateEnd:descEnd])

			if haveDebit && debitAmount > 0 {
				if description == "" {
					description = "Transaction"
				}
				extracted = append(extracted, models.Transaction{
					Amount:      debitAmount,
					Description: description,
					Date:        dateVal,
				})
			}
		}
	}

	// No table structure: take any line carrying a decimal amount.
	if len(extracted) == 0 {
		today := time.Now().Format("2006-01-02")
		for _, rawLine := range lines {
			line := strings.TrimSpace(rawLine)
			if len(line) <= 5 {
				continue
			}
			tokens := looseAmountRe.FindAllString(line, -1)
			if len(tokens) == 0 {
				continue
			}
			last := tokens[len(tokens)-1]
			amount, ok := parsePlainAmount(last)
			if !ok {
				continue
			}
			description := line
			if idx := strings.LastIndex(line, last); idx >= 0 {
				description = strings.TrimSpace(line[:idx])
			} else if len(description) > 50 {
				description = description[:50]
			}
			if description != "" && amount > 0 {
				extracted = append(extracted, models.Transaction{
					Amount:      amount,
					Description: description,
					Date:        today,
				})
			}
		}
	}

	return extracted
}
