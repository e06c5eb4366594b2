package inquiry

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Amount cells are typed by hand, e.g. "275,000(상표)\n165,000(갱신)" or
// "110000 or 275000". Parenthesized text is a memo, not an amount.
var (
	amountNoteRegex  = regexp.MustCompile(`\([^)]*\)`)
	amountSplitRegex = regexp.MustCompile(`(?i)\n+|,\s+|\bor\b`)
	nonDigitRegex    = regexp.MustCompile(`[^0-9]`)
)

// ParseAmount sums every amount found in free-form monetary text. Segments
// that hold no usable digits contribute 0; the result is never negative.
func ParseAmount(text string) int64 {
	total, _ := parseAmountSegments(text)
	return total
}

// parseAmountSegments returns the total and the number of non-empty segments
// that degraded to 0.
func parseAmountSegments(text string) (int64, int) {
	if strings.TrimSpace(text) == "" {
		return 0, 0
	}

	cleaned := amountNoteRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")

	var total int64
	degraded := 0
	for _, part := range amountSplitRegex.Split(cleaned, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := parseAmountSegment(part)
		if err != nil || n > math.MaxInt64-total {
			degraded++
			continue
		}
		total += n
	}
	return total, degraded
}

func parseAmountSegment(part string) (int64, error) {
	digits := nonDigitRegex.ReplaceAllString(part, "")
	if digits == "" {
		return 0, ErrUnparsableAmount
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrUnparsableAmount
	}
	return n, nil
}
