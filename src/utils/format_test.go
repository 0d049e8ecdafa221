// backend/src/utils/format_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{5, "5.00"},
		{999.9, "999.90"},
		{1000, "1,000.00"},
		{1234567.8, "1,234,567.80"},
		{100000, "100,000.00"},
		{-1234.5, "-1,234.50"},
		{-999, "-999.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.23, RoundFloat(1.23456, 2))
	assert.Equal(t, 1.24, RoundFloat(1.236, 2))
	assert.Equal(t, 0.0, RoundFloat(0.0001, 2))
	assert.Equal(t, -1.23, RoundFloat(-1.234, 2))
	assert.Equal(t, 5.0, RoundFloat(5, 0))
}
