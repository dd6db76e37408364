package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Line-item recovery runs three tiers in order and stops at the first tier
// that yields items:
//  1. structured "description qty unit-price" lines, skipping summary lines
//     (subtotal, tax, total) and stopping at a table header, whose region
//     belongs to tier 2;
//  2. a bounded table scan between a header keyword and a summary keyword;
//  3. a single synthesized item from the detected invoice total.
//
// Zero items with a warning is a valid, low-confidence terminal state.

var (
	// "Widget assembly   2   50.00" or "Widget, 2 x $50.00"
	structuredLineRe = regexp.MustCompile(`^\s*(.{3,60}?)[\s,]+(\d+(?:\.\d+)?)\s*(?:x|@|\s)\s*\$?(\d[\d,]*\.?\d{0,2})\s*(?:\$?\d[\d,]*\.?\d{0,2})?\s*$`)

	tableHeaderRe = regexp.MustCompile(`(?i)^\s*(?:description|item|details?)\b.*(?:qty|quantity|hours)\b.*(?:price|rate|amount)`)

	// summary markers end the table scan and are never line items themselves
	summaryLineRe = regexp.MustCompile(`(?i)^\s*(?:sub\s*-?\s*total|subtotal|total|gst|tax|vat|balance|amount\s*due)\b`)

	// inside a detected table: description then two trailing numeric columns
	tableRowRe = regexp.MustCompile(`^\s*(.+?)\s{2,}(\d+(?:\.\d+)?)\s+\$?(\d[\d,]*\.?\d{0,2})(?:\s+\$?\d[\d,]*\.?\d{0,2})?\s*$`)
)

// extractLineItems returns the recovered items, the tier that produced them
// (1..3, 0 when none), and any warnings.
func extractLineItems(text string, detectedTotal *decimal.Decimal) ([]entity.LineItem, int, []string) {
	if items := structuredLines(text); len(items) > 0 {
		return items, 1, nil
	}
	if items := tableSection(text); len(items) > 0 {
		return items, 2, nil
	}
	if detectedTotal != nil {
		item := entity.LineItem{
			Description: "Imported invoice total",
			Quantity:    decimal.NewFromInt(1),
			UnitAmount:  detectedTotal.Round(2),
		}
		return []entity.LineItem{item}, 3, []string{"line items could not be recovered; synthesized a single item from the detected total"}
	}
	return nil, 0, []string{"no line items or invoice total found in document text"}
}

func structuredLines(text string) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range strings.Split(text, "\n") {
		if tableHeaderRe.MatchString(line) {
			// everything from the header on belongs to the bounded table scan
			break
		}
		if summaryLineRe.MatchString(line) {
			continue
		}
		m := structuredLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item, ok := buildItem(m[1], m[2], m[3]); ok {
			items = append(items, item)
		}
	}
	return items
}

func tableSection(text string) []entity.LineItem {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if tableHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var items []entity.LineItem
	for _, line := range lines[start:] {
		if summaryLineRe.MatchString(line) {
			break
		}
		m := tableRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item, ok := buildItem(m[1], m[2], m[3]); ok {
			items = append(items, item)
		}
	}
	return items
}

func buildItem(desc, qtyStr, priceStr string) (entity.LineItem, bool) {
	qty, err := decimal.NewFromString(strings.ReplaceAll(qtyStr, ",", ""))
	if err != nil || !qty.IsPositive() {
		return entity.LineItem{}, false
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(priceStr, ",", ""))
	if err != nil {
		return entity.LineItem{}, false
	}
	d := strings.TrimSpace(desc)
	d = strings.Trim(d, " .,;:-")
	if d == "" {
		return entity.LineItem{}, false
	}
	return entity.LineItem{
		Description: d,
		Quantity:    qty,
		UnitAmount:  price.Round(2),
	}, true
}
