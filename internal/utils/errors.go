package utils

import (
	"fmt"
	"math"
	"strings"
)

// maxTickerLength bounds normalized ticker symbols. Exchange-qualified
// symbols like INDF.JK or BRK-B stay well under this.
const maxTickerLength = 12

// ValidationError represents an error occurring during input validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
//
// Parameters:
//   - message: The validation error message.
//
// Returns:
//   - An error interface wrapping the ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
//
// Parameters:
//   - format: The format string.
//   - args: Arguments for the format string.
//
// Returns:
//   - An error interface wrapping the ValidationError.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// NormalizeTicker canonicalizes a user-supplied ticker symbol: whitespace
// trimmed, upper-cased, charset and length checked.
//
// Parameters:
//   - raw: The ticker as received from the request.
//
// Returns:
//   - The normalized symbol, or a ValidationError describing the problem.
func NormalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return "", NewValidationError("ticker is required")
	}
	if len(ticker) > maxTickerLength {
		return "", NewValidationErrorf("ticker %q exceeds %d characters", ticker, maxTickerLength)
	}
	for _, r := range ticker {
		if !isTickerRune(r) {
			return "", NewValidationErrorf("ticker %q contains invalid character %q", ticker, r)
		}
	}
	return ticker, nil
}

// isTickerRune reports whether r may appear in a normalized ticker.
// Covers exchange suffixes (INDF.JK), share classes (BRK-B), indexes
// (^JKSE) and currency pairs (IDR=X).
func isTickerRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-' || r == '^' || r == '=':
		return true
	}
	return false
}

// ValidateRiskFreePercent checks a risk-free rate expressed in percent,
// e.g. 5.50 for 5.5%.
func ValidateRiskFreePercent(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return NewValidationError("risk_free must be a finite number")
	}
	if rate < 0 || rate > 100 {
		return NewValidationError("risk_free must be between 0 and 100")
	}
	return nil
}
