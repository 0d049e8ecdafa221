// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openaudit/backend/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxCompanyNameLength   = 200
	MaxUserIDLength        = 100
	MaxFilenameLength      = 255
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// ValidateIntString parses a string to int and checks if it's within a range.
// An empty string passes and yields zero so optional fields can fall back to defaults.
func ValidateIntString(s, fieldName string, minVal, maxVal int) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid integer: %v", ErrValidationFailed, fieldName, s, err)
	}
	if val < minVal || val > maxVal {
		logger.L.Warn("Integer value out of range", "field", fieldName, "value", val, "min", minVal, "max", maxVal)
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateUserID checks format and length of the caller-supplied user identifier.
func ValidateUserID(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "User ID"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxUserIDLength, "User ID"); err != nil {
		return err
	}
	return ValidateStringRegex(trimmed, userIDRegex, "User ID", "alphanumeric with hyphens/underscores")
}

// ValidateCompanyName checks the company name form field.
func ValidateCompanyName(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "Company name"); err != nil {
		return err
	}
	return ValidateStringMaxLength(trimmed, MaxCompanyNameLength, "Company name")
}

// ValidateFiscalYear parses and bounds-checks a fiscal year form field.
func ValidateFiscalYear(s string) (int, error) {
	return ValidateIntString(s, "Fiscal year", 1900, 2100)
}
