package inquiry

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var canonicalDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// trailingNoteRegex matches a weekday or memo suffix such as "(수)".
var trailingNoteRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// headerLabels are column titles that show up in data ranges when a sheet
// repeats its header row. Matched case-insensitively as substrings.
var headerLabels = []string{"날짜", "일자", "접수일", "시간", "date", "time"}

// dateLayouts are tried in order. Month and day elements are unpadded so both
// "2025/3/5" and "2025/03/05" parse.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006. 1. 2",
	"2006년 1월 2일",
	"1/2/2006",
	time.RFC3339,
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006. 1. 2 15:04:05",
	"2006.1.2 15:04",
}

// NormalizeDate converts free-form date text to YYYY-MM-DD. The second return
// value is false for empty text, header labels and anything unparsable.
func NormalizeDate(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}
	if IsHeaderLabel(s) {
		return "", false
	}
	if canonicalDateRegex.MatchString(s) {
		// Already canonical, but 2025-02-30 must still be rejected.
		if _, ok := parseCanonical(s); !ok {
			return "", false
		}
		return s, true
	}

	s = trailingNoteRegex.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Format from the parsed fields; converting zones could shift the day.
			return t.Format(dateLayout), true
		}
	}
	return "", false
}

// IsHeaderLabel reports whether text contains a column title such as 날짜 or date.
func IsHeaderLabel(s string) bool {
	lower := strings.ToLower(s)
	for _, label := range headerLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

// yearMonth returns the "YYYY-MM" prefix of a canonical date.
func yearMonth(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

func parseCanonical(date string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
