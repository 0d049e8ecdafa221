// backend/src/parsers/pdf_test.go
package parsers

import (
	"testing"
	"time"
)

func TestParseStatementTextTabular(t *testing.T) {
	text := "Account Statement\n" +
		"Date Details Ref No. Debit Credit Balance\n" +
		"1 AUG 2025 TRANSFER TO GROCERY MART STORE REF001 150.00 9850.00\n" +
		"2 AUG 2025 TRANSFER FROM EMPLOYER SALARY CREDIT 50000.00 59850.00\n" +
		"3 AUG 2025 TRANSFER TO ELECTRICITY BOARD PAYMENT 1,200.00 58650.00\n" +
		"short\n"

	txs := ParseStatementText(text)
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2 (credit line skipped): %+v", len(txs), txs)
	}

	if txs[0].Amount != 150.00 || txs[0].Date != "2025-08-01" {
		t.Errorf("first = %+v, want amount 150.00 on 2025-08-01", txs[0])
	}
	if txs[0].Description != "TRANSFER TO GROCERY MART STORE REF001" {
		t.Errorf("first description = %q", txs[0].Description)
	}
	if txs[1].Amount != 1200.00 || txs[1].Date != "2025-08-03" {
		t.Errorf("second = %+v, want amount 1200.00 on 2025-08-03", txs[1])
	}
}

func TestParseStatementTextFallback(t *testing.T) {
	text := "Monthly subscription 299.00\nAnnual insurance premium 4,500.50\nno amount line\n"

	txs := ParseStatementText(text)
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2: %+v", len(txs), txs)
	}
	if txs[0].Description != "Monthly subscription" || txs[0].Amount != 299.00 {
		t.Errorf("first = %+v", txs[0])
	}
	if txs[1].Description != "Annual insurance premium" || txs[1].Amount != 4500.50 {
		t.Errorf("second = %+v", txs[1])
	}
}

func TestParseStatementDate(t *testing.T) {
	if got := parseStatementDate("1 AUG 2025"); got != "2025-08-01" {
		t.Errorf("month form = %q, want 2025-08-01", got)
	}
	if got := parseStatementDate("15-08-2025"); got != "2025-08-15" {
		t.Errorf("numeric form = %q, want 2025-08-15", got)
	}
	// Unparseable tokens resolve to today.
	if got := parseStatementDate("garbage"); got != time.Now().Format("2006-01-02") {
		t.Errorf("fallback = %q, want today", got)
	}
}

func TestExtractPDFTextRejectsGarbage(t *testing.T) {
	if _, err := ExtractPDFText([]byte("definitely not a pdf")); err == nil {
		t.Error("expected an error for non-PDF content")
	}
}
