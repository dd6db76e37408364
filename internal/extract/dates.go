package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
	wordedDateRe  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5,
	"june": 6, "july": 7, "august": 8, "september": 9, "october": 10,
	"november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeDate rewrites a captured date token as DD/MM/YYYY: separators are
// unified, day and month zero-padded, and a two-digit year expanded with a
// pivot (>50 becomes 19xx, otherwise 20xx). Day/month order is taken as
// written (day first). Malformed input is returned unchanged with ok=false;
// rejecting it is the schema validator's job, not ours.
func NormalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year = expandTwoDigitYear(year)
		}
		return fmt.Sprintf("%02d/%02d/%04d", day, month, year), true
	}

	if m := wordedDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return raw, false
		}
		year, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%02d/%02d/%04d", day, month, year), true
	}

	return raw, false
}

func expandTwoDigitYear(yy int) int {
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}
