package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"isktrack/internal/log"
	"isktrack/internal/model"
)

var (
	// "Gyrostabilizer II x3" when the quantity column is not numeric
	xQuantityPattern = regexp.MustCompile(`^(.*\S)\s+x(\d+)$`)

	// "1.234,56 ISK" or "1,234.56 ISK" buried in a later column
	iskEstimatePattern = regexp.MustCompile(`(?i)([\d.,]+)\s*ISK`)
)

// ParseInventory converts a tab-delimited inventory or loot paste into items.
// Lines look like "name\tquantity" with optional trailing columns; a
// currency-tagged column seeds UnitPriceEstimate until a market price
// resolves. Pricing is a separate step, see pricing.Resolver.PriceInventory.
func ParseInventory(raw string) []model.ParsedInventoryItem {
	var out []model.ParsedInventoryItem

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		name := strings.TrimSpace(cols[0])
		if name == "" {
			log.Debug("Inventory line has no item name, skipping", "line", line)
			continue
		}

		quantity := 0
		if len(cols) > 1 {
			quantity = parseQuantity(cols[1])
		}
		if quantity == 0 {
			// Alternate "Name xN" encoding on the name column
			if m := xQuantityPattern.FindStringSubmatch(name); m != nil {
				if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
					name = m[1]
					quantity = n
				}
			}
		}
		if quantity == 0 {
			quantity = 1
		}

		estimate := decimal.Zero
		if len(cols) > 2 {
			for _, col := range cols[2:] {
				if m := iskEstimatePattern.FindStringSubmatch(col); m != nil {
					if v, err := ParseAmount(m[1]); err == nil && v.Sign() > 0 {
						estimate = v
						break
					}
				}
			}
		}

		out = append(out, model.ParsedInventoryItem{
			ID:                uuid.NewString(),
			Name:              name,
			Quantity:          quantity,
			UnitPriceEstimate: estimate,
			TotalValue:        estimate.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}

	return out
}

// parseQuantity reads a quantity column, tolerating thousands separators
// the client inserts for large stacks. Returns 0 when unparsable.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
