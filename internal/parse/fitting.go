package parse

import (
	"regexp"
	"strconv"
	"strings"

	"isktrack/internal/model"
)

// "[Rifter, Autocannon Fit]" — hull name is everything before the first comma
var hullLinePattern = regexp.MustCompile(`^\[([^,\]]+)(?:,([^\]]*))?\]$`)

// ParseFitting converts a ship fitting export into a hull plus an item map.
// Repeated module lines accumulate quantity, an explicit "xN" suffix is
// honored, and the hull itself appears in the map with quantity 1.
// Pure and synchronous; blank lines and slot placeholders are skipped.
func ParseFitting(raw string) model.FittingParseResult {
	result := model.FittingParseResult{Items: make(map[string]int)}

	first := true
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}

		if first {
			first = false
			if m := hullLinePattern.FindStringSubmatch(line); m != nil {
				result.HullName = strings.TrimSpace(m[1])
				result.Items[result.HullName] = 1
				continue
			}
			// No hull declaration; fall through and treat as a module line
		}

		// Slot placeholders like "[Empty High slot]"
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			continue
		}

		name, quantity := line, 1
		if m := xQuantityPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
				name = m[1]
				quantity = n
			}
		}
		result.Items[name] += quantity
	}

	return result
}
