package parse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw amount string from a wallet or inventory paste
// into a decimal. The game client emits both separator conventions depending
// on locale ("1.234.567,89 ISK" and "1,234,567.89 ISK"); the separator that
// appears last is the decimal mark. An optional ISK suffix is stripped.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if n := len(s); n >= 3 && strings.EqualFold(s[n-3:], "ISK") {
		s = strings.TrimSpace(s[:n-3])
	}
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// European style: periods group thousands, comma is the decimal mark
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A single comma followed by at most two digits reads as a decimal mark
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 > 2 {
			// Thousands grouping, e.g. "1.234.567" or "1.234"
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return decimal.NewFromString(s)
}
