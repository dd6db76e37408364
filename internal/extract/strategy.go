package extract

import (
	"regexp"
	"strings"

	"github.com/ledgerline/invoice-importer/constants"
)

// strategy is one attempt at locating a field in raw text. Strategies are
// tried in slice order; the first match wins and later strategies are never
// consulted (no cross-strategy scoring).
type strategy struct {
	name       string
	source     constants.FieldSource
	confidence int // fixed weight reflecting how unambiguous the pattern is
	pattern    *regexp.Regexp
	// clean post-processes the captured value; nil means TrimSpace only.
	clean func(string) string
}

// attempt runs the strategy against text and returns the captured value.
func (s strategy) attempt(text string) (string, bool) {
	m := s.pattern.FindStringSubmatch(text)
	if m == nil || len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if s.clean != nil {
		v = s.clean(v)
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// datePattern matches numeric dates with /, -, or . separators and 2- or
// 4-digit years.
const datePattern = `(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`

var invoiceNumberStrategies = []strategy{
	{
		name:       "labeled-invoice-number",
		source:     constants.SourceLabeled,
		confidence: 95,
		pattern:    regexp.MustCompile(`(?im)^.*invoice\s*(?:number|no\.?|num)\s*[:#\s]\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
	},
	{
		name:       "labeled-invoice-hash",
		source:     constants.SourceLabeled,
		confidence: 85,
		pattern:    regexp.MustCompile(`(?im)invoice\s*#\s*([A-Za-z0-9][A-Za-z0-9/\-]*)`),
	},
	{
		name:       "inv-prefix",
		source:     constants.SourcePattern,
		confidence: 75,
		pattern:    regexp.MustCompile(`(?im)\b(INV[\-/]?\d+[A-Za-z0-9\-]*)\b`),
	},
	{
		name:       "bare-hash-token",
		source:     constants.SourceFallback,
		confidence: 60,
		pattern:    regexp.MustCompile(`(?m)^\s*#\s*([A-Za-z0-9\-]+)\b`),
	},
}

var invoiceDateStrategies = []strategy{
	{
		name:       "labeled-invoice-date",
		source:     constants.SourceLabeled,
		confidence: 90,
		pattern:    regexp.MustCompile(`(?im)invoice\s*date\s*[:\-]?\s*` + datePattern),
	},
	{
		name:       "labeled-date",
		source:     constants.SourceLabeled,
		confidence: 80,
		pattern:    regexp.MustCompile(`(?im)^\s*date\s*[:\-]?\s*` + datePattern),
	},
	{
		name:       "labeled-date-worded",
		source:     constants.SourceLabeled,
		confidence: 75,
		pattern:    regexp.MustCompile(`(?im)\bdated?\s*[:\-]?\s*(\d{1,2}\s+\w+\s+\d{4})`),
	},
	{
		name:       "first-date-token",
		source:     constants.SourceFallback,
		confidence: 55,
		pattern:    regexp.MustCompile(datePattern),
	},
}

var dueDateStrategies = []strategy{
	{
		name:       "labeled-due-date",
		source:     constants.SourceLabeled,
		confidence: 90,
		pattern:    regexp.MustCompile(`(?im)due\s*date\s*[:\-]?\s*` + datePattern),
	},
	{
		name:       "payment-due",
		source:     constants.SourceLabeled,
		confidence: 85,
		pattern:    regexp.MustCompile(`(?im)payment\s*due\s*(?:by|on)?\s*[:\-]?\s*` + datePattern),
	},
	{
		name:       "due-by",
		source:     constants.SourcePattern,
		confidence: 70,
		pattern:    regexp.MustCompile(`(?im)\bdue\s*(?:by|on)?\s*[:\-]?\s*` + datePattern),
	},
}

var contactNameStrategies = []strategy{
	{
		name:       "labeled-bill-to",
		source:     constants.SourceLabeled,
		confidence: 90,
		pattern:    regexp.MustCompile(`(?im)(?:bill(?:ed)?\s*to|invoice\s*to|customer)\s*[:\-]\s*(.+)$`),
		clean:      cleanContactLine,
	},
	{
		name:       "labeled-from",
		source:     constants.SourceLabeled,
		confidence: 80,
		pattern:    regexp.MustCompile(`(?im)^\s*(?:from|supplier|vendor|attn)\s*[:\-]\s*(.+)$`),
		clean:      cleanContactLine,
	},
	{
		name:       "company-suffix-line",
		source:     constants.SourcePattern,
		confidence: 65,
		pattern:    regexp.MustCompile(`(?im)^\s*([A-Z][\w&.,' ]{2,60}(?:Pty\s*Ltd|Ltd|LLC|Inc|Limited|Co\.?|Corp\.?))\s*$`),
		clean:      cleanContactLine,
	},
}

var referenceStrategies = []strategy{
	{
		name:       "labeled-reference",
		source:     constants.SourceLabeled,
		confidence: 85,
		pattern:    regexp.MustCompile(`(?im)^\s*(?:reference|ref\.?|your\s*ref)\s*[:\-]\s*(.+)$`),
	},
	{
		name:       "labeled-po",
		source:     constants.SourceLabeled,
		confidence: 75,
		pattern:    regexp.MustCompile(`(?im)\b(?:purchase\s*order|po)\s*(?:number|no\.?)?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9\-]*)`),
	},
}

// totalStrategies recover an invoice total from free text. The total is not
// a schema column; it feeds the amount verifier as the expected value.
var totalStrategies = []strategy{
	{
		name:       "labeled-total-due",
		source:     constants.SourceLabeled,
		confidence: 90,
		pattern:    regexp.MustCompile(`(?im)(?:total\s*(?:amount\s*)?due|amount\s*due|balance\s*due|grand\s*total)\s*[:\-]?\s*\$?\s*([\d,]+\.?\d{0,2})`),
	},
	{
		name:       "labeled-total",
		source:     constants.SourceLabeled,
		confidence: 80,
		pattern:    regexp.MustCompile(`(?im)^\s*total\s*[:\-]?\s*\$?\s*([\d,]+\.?\d{0,2})`),
	},
}

func cleanContactLine(s string) string {
	s = strings.Trim(s, " \t,;")
	// cut trailing inline labels that share the line ("Bill To: Acme  Date: …")
	if i := strings.Index(strings.ToLower(s), "  date"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// runCascade tries each strategy in order and returns the first hit.
func runCascade(text string, strategies []strategy) (value string, conf int, src constants.FieldSource, strategyName string, ok bool) {
	for _, s := range strategies {
		if v, hit := s.attempt(text); hit {
			return v, s.confidence, s.source, s.name, true
		}
	}
	return "", 0, constants.SourceNone, "", false
}
