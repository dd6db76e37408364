package schema

import (
	"regexp"
	"time"

	"github.com/ledgerline/invoice-importer/constants"
)

var dateShapeRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ValidDate reports whether s is a calendar-valid DD/MM/YYYY date within
// [1900,2100]. time.Parse enforces month-specific day counts and leap years;
// the shape check rejects the unpadded spellings Parse would accept.
func ValidDate(s string) bool {
	if !dateShapeRe.MatchString(s) {
		return false
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return false
	}
	return t.Year() >= constants.MinYear && t.Year() <= constants.MaxYear
}
