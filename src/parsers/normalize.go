// backend/src/parsers/normalize.go
package parsers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openaudit/backend/src/models"
)

// Candidate header names tried, in priority order, when resolving the
// semantic columns of an uncontrolled tabular export.
var (
	debitColumnNames  = []string{"debit", "debits", "dr", "withdrawal"}
	creditColumnNames = []string{"credit", "credits", "cr", "deposit"}
	amountColumnNames = []string{
		"amount", "amt", "value", "price", "cost", "total", "sum",
		"transaction_amount", "amount_rs", "rupees", "inr", "₹", "rs",
	}
	descColumnNames = []string{
		"description", "desc", "details", "particulars", "narration",
		"transaction_description", "memo", "note", "remarks", "info",
		"transaction_type", "type", "category",
	}
	dateColumnNames = []string{
		"date", "transaction_date", "date_time", "datetime", "timestamp",
		"trans_date", "value_date", "posting_date", "time",
	}
)

// dateLayouts is tried in order when parsing date cells. The US layout
// precedes the day-first one on purpose: unambiguous values resolve by
// layout validity, ambiguous ones resolve to the earlier layout.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"02-01-06",
	"01-02-2006",
}

// isNoValue reports whether a raw cell is a placeholder for "no value".
// Bank exports mark the unused half of a debit/credit pair with these.
func isNoValue(s string) bool {
	switch s {
	case "-", "", "None", "nan", "NaN":
		return true
	}
	return false
}

// cleanAmount strips thousands separators and currency markers and
// parses the remainder as a decimal. Returns false when nothing numeric
// is left.
func cleanAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if isNoValue(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "Rs", "")
	s = strings.ReplaceAll(s, "RS", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// parseDateCell tries each known layout against a date cell and returns
// the ISO form of the first success.
func parseDateCell(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// NormalizeTransactions converts a resolved tabular dataset into canonical
// transactions. Debit columns win over generic amount columns; rows whose
// debit cell is a no-value marker are credits and are skipped outright.
func NormalizeTransactions(d *Dataset) []models.Transaction {
	debitIdx := FindColumn(d.Headers, debitColumnNames)

	// Prefer the debit column for spending analysis: money out is the
	// expense. Generic amount columns are the fallback.
	amountIdx := debitIdx
	if amountIdx < 0 {
		amountIdx = FindColumn(d.Headers, amountColumnNames)
	}
	descIdx := FindColumn(d.Headers, descColumnNames)
	dateIdx := FindColumn(d.Headers, dateColumnNames)

	currentDate := time.Now().Format("2006-01-02")
	var transactions []models.Transaction

	for rowIdx := range d.Rows {
		haveAmount := false
		var amount float64

		if debitIdx >= 0 {
			raw := strings.TrimSpace(d.Cell(rowIdx, debitIdx))
			if isNoValue(raw) {
				// No debit value means this row is a credit. Skip it
				// entirely so it cannot pollute the expense totals.
				continue
			}
			if v, ok := cleanAmount(raw); ok && v > 0 {
				amount = v
				haveAmount = true
			}
		}

		// Generic amount column, when distinct from the debit column.
		if !haveAmount && amountIdx >= 0 && amountIdx != debitIdx {
			raw := strings.TrimSpace(d.Cell(rowIdx, amountIdx))
			if v, ok := cleanAmount(raw); ok {
				if v < 0 {
					v = -v
				}
				amount = v
				haveAmount = true
			}
		}

		// Last resort: scan the columns not already tried for the first
		// plausible numeric cell. Balance columns are excluded since
		// their running totals are not expenses.
		if !haveAmount {
			for colIdx, colName := range d.Headers {
				if colIdx == debitIdx || colIdx == amountIdx || colIdx == descIdx || colIdx == dateIdx {
					continue
				}
				lower := strings.ToLower(strings.TrimSpace(colName))
				if lower == "balance" || lower == "bal" {
					continue
				}
				raw := strings.TrimSpace(d.Cell(rowIdx, colIdx))
				if v, ok := cleanAmount(raw); ok {
					if v < 0 {
						v = -v
					}
					if v >= 0.01 && v <= 999999999 {
						amount = v
						haveAmount = true
						break
					}
				}
			}
		}

		description := ""
		if descIdx >= 0 {
			description = strings.TrimSpace(d.Cell(rowIdx, descIdx))
			if isNoValue(description) {
				description = ""
			}
		}
		if description == "" {
			var parts []string
			for colIdx := range d.Headers {
				if colIdx == amountIdx || colIdx == dateIdx {
					continue
				}
				if v := strings.TrimSpace(d.Cell(rowIdx, colIdx)); v != "" && len(parts) < 3 {
					parts = append(parts, v)
				}
			}
			description = strings.Join(parts, " | ")
		}
		if description == "" {
			description = fmt.Sprintf("Transaction %d", rowIdx+1)
		}

		date := currentDate
		if dateIdx >= 0 {
			if parsed, ok := parseDateCell(d.Cell(rowIdx, dateIdx)); ok {
				date = parsed
			}
		}

		// Rows with neither an amount nor a description carry nothing.
		if amount > 0 || description != "" {
			transactions = append(transactions, models.Transaction{
				Amount:      amount,
				Description: description,
				Date:        date,
			})
		}
	}

	return transactions
}
