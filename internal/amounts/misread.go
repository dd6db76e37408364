package amounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Recognition engines confuse visually similar digits; the classic case is
// reading '1' as '7'. These checks inspect the decimal-free digit string of
// each unit amount and emit advisory suggestions only. Stored values are
// never altered.

// largeRoundAmount is the threshold above which an exact ".00" amount is
// treated as suspicious (OCR dropping the real cents).
var largeRoundAmount = decimal.NewFromInt(10_000)

// misreadSuggestions returns advisory notes for one line item.
func misreadSuggestions(index int, item entity.LineItem) []string {
	var out []string

	intDigits := digitsOf(item.UnitAmount.Truncate(0).String())
	contextDigits := digitsOf(item.Description) + digitsOf(item.Quantity.String())

	// A lone '7' in the amount with no '1' anywhere else on the line is the
	// signature of a 1->7 confusion.
	if strings.Count(intDigits, "7") == 1 && !strings.Contains(contextDigits, "1") {
		if alt, ok := sevenToOne(item.UnitAmount); ok {
			out = append(out, fmt.Sprintf(
				"line %d: unit amount %s may be a misread of %s (7/1 confusion); verify against the source document",
				index+1, FormatAmount(item.UnitAmount), FormatAmount(alt)))
		}
	}

	rounded := item.UnitAmount.Round(2)
	if rounded.GreaterThanOrEqual(largeRoundAmount) && rounded.Equal(rounded.Truncate(0)) {
		out = append(out, fmt.Sprintf(
			"line %d: large unit amount %s ends in .00; confirm the cents were not dropped during recognition",
			index+1, FormatAmount(item.UnitAmount)))
	}

	return out
}

// sevenToOne rebuilds the amount with the single '7' in its integer part
// replaced by '1'.
func sevenToOne(d decimal.Decimal) (decimal.Decimal, bool) {
	s := d.StringFixed(2)
	i := strings.IndexByte(s, '7')
	if i < 0 {
		return decimal.Decimal{}, false
	}
	alt, err := decimal.NewFromString(s[:i] + "1" + s[i+1:])
	if err != nil {
		return decimal.Decimal{}, false
	}
	return alt, true
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
