// backend/src/utils/format.go
package utils

import (
	"fmt"
	"strings"
)

// FormatAmount renders an amount with thousands separators and two
// decimal places, e.g. 1234567.8 -> "1,234,567.80".
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var sb strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	out := sb.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
