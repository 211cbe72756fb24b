// Package phone formats UK phone numbers between user input, the prefixed
// form sent to the backend and the national display form.
package phone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rl1809/menu-order/internal/core/domain"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	normalized = regexp.MustCompile(`^\+44(\d{4})(\d{6})$`)
)

type UKFormatter struct{}

func NewUKFormatter() UKFormatter {
	return UKFormatter{}
}

// Normalize strips everything but digits and swaps the national trunk prefix
// for +44: "07700 900123" becomes "+447700900123".
func (UKFormatter) Normalize(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")

	var out string
	switch {
	case strings.HasPrefix(digits, "0044"):
		out = "+" + digits[2:]
	case strings.HasPrefix(digits, "44"):
		out = "+" + digits
	case strings.HasPrefix(digits, "0"):
		out = "+44" + digits[1:]
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPhoneNumber, raw)
	}

	if !normalized.MatchString(out) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPhoneNumber, raw)
	}
	return out, nil
}

// Denormalize renders "+447700900123" as "07700 900123".
func (UKFormatter) Denormalize(number string) (string, error) {
	if !normalized.MatchString(number) {
		return "", fmt.Errorf("%w: %q is not normalized", domain.ErrInvalidPhoneNumber, number)
	}
	return normalized.ReplaceAllString(number, "0$1 $2"), nil
}
