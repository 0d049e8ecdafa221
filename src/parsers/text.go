// backend/src/parsers/text.go
package parsers

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/openaudit/backend/src/models"
)

var numberTokenRe = regexp.MustCompile(`[\d,]+\.?\d*`)

// DecodeText decodes raw bytes as text, preferring UTF-8 and degrading
// to latin-1, which accepts any byte sequence.
func DecodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}

// ParseTextLines extracts transactions from free-form text: for each
// non-trivial line the last number-like token is the amount and the text
// before it the description. Lines without a description are dropped.
func ParseTextLines(text string) []models.Transaction {
	today := time.Now().Format("2006-01-02")
	var transactions []models.Transaction

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if len(line) <= 3 {
			continue
		}
		tokens := numberTokenRe.FindAllString(line, -1)
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
		} else if len(description) > 100 {
			description = description[:100]
		}
		if description != "" {
			transactions = append(transactions, models.Transaction{
				Amount:      amount,
				Description: description,
				Date:        today,
			})
		}
	}

	return transactions
}
