package amounts

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money math follows a fixed rounding sequence so binary floating point never
// touches a financial value: round(qty*100) * round(price*100) / 100, rounded
// half away from zero at the cent boundary, then rescaled to two decimals.
// Every intermediate line total is re-rounded before accumulation so error
// cannot compound. The arithmetic stays in decimal end to end; a machine
// integer would overflow silently on an absurd quantity*price.

var oneHundred = decimal.NewFromInt(100)

// lineTotalCents computes quantity*unitAmount as an integer-valued decimal in
// cents, rounding half away from zero at the cent boundary.
func lineTotalCents(quantity, unitAmount decimal.Decimal) decimal.Decimal {
	q := quantity.Mul(oneHundred).Round(0)
	p := unitAmount.Mul(oneHundred).Round(0)
	return q.Mul(p).DivRound(oneHundred, 0)
}

// LineTotal is the two-decimal line total for quantity*unitAmount.
func LineTotal(quantity, unitAmount decimal.Decimal) decimal.Decimal {
	return lineTotalCents(quantity, unitAmount).Shift(-2)
}

// ParseAmount parses a money token ("1,234.50", "$42") into a two-decimal
// amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Round(2), nil
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
