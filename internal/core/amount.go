package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches one or more digits optionally followed by a
// single decimal separator (dot or comma) and more digits. No sign is
// matched, so the grammar cannot produce negative values.
var amountPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

// ParseAmount extracts a monetary amount from free-form message text.
//
// The first matching numeric substring wins: for "bought 2 breads at 15
// each" the quantity 2 is captured.
//
// A comma decimal separator is normalized to a dot before parsing.
// Zero amounts are rejected. Absence of an amount is a normal outcome,
// reported via the boolean, never an error.
func ParseAmount(text string) (decimal.Decimal, bool) {
	match := amountPattern.FindString(text)
	if match == "" {
		return decimal.Decimal{}, false
	}
	match = strings.ReplaceAll(match, ",", ".")
	amount, err := decimal.NewFromString(match)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
