package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const currencySymbol = "£"

var (
	maxPence = decimal.NewFromInt(math.MaxInt64)
	minPence = decimal.NewFromInt(math.MinInt64)
)

// PenceFromPounds converts a decimal pound amount into whole pence.
// Amounts with sub-penny precision are rejected.
func PenceFromPounds(pounds decimal.Decimal) (int64, error) {
	pence := pounds.Shift(2)
	if !pence.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-penny precision", pounds.String())
	}
	if pence.GreaterThan(maxPence) || pence.LessThan(minPence) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, pounds.String())
	}
	return pence.IntPart(), nil
}

// Pounds returns the amount as a two-place decimal string, e.g. "12.50".
func Pounds(pence int64) string {
	return decimal.New(pence, -2).StringFixed(2)
}

// FormatPrice renders an amount in pence for display, e.g. "£12.50".
func FormatPrice(pence int64) string {
	return currencySymbol + Pounds(pence)
}
