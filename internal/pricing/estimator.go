package pricing

import (
	"hash/fnv"
	"strings"

	"github.com/shopspring/decimal"
)

// estimateBand is a price range for one recognizable item family
type estimateBand struct {
	keywords []string
	min      float64
	max      float64
}

// Bands are checked in order; the first keyword hit wins. Values are rough
// market-typical ISK figures, only used when every network tier fails.
var estimateBands = []estimateBand{
	// Blueprints and implants outrank hull keywords: a battleship blueprint
	// is priced as a blueprint, not a battleship
	{keywords: []string{"blueprint"}, min: 1_000_000, max: 50_000_000},
	{keywords: []string{"implant"}, min: 10_000_000, max: 100_000_000},
	{keywords: []string{"battleship"}, min: 150_000_000, max: 300_000_000},
	{keywords: []string{"battlecruiser"}, min: 40_000_000, max: 80_000_000},
	{keywords: []string{"cruiser"}, min: 8_000_000, max: 20_000_000},
	{keywords: []string{"destroyer"}, min: 1_500_000, max: 4_000_000},
	{keywords: []string{"frigate", "rifter", "merlin", "punisher", "tristan"}, min: 300_000, max: 900_000},
	{keywords: []string{"launcher", "repairer", "booster", "extender", "stabilizer",
		"hardener", "afterburner", "microwarpdrive", "autocannon", "railgun", "blaster", "laser"},
		min: 100_000, max: 2_000_000},
	{keywords: []string{"missile", "rocket", "torpedo", "charge", "ammo", "crystal"},
		min: 10, max: 200},
	{keywords: []string{"tritanium", "pyerite", "mexallon", "isogen", "nocxium",
		"zydrine", "megacyte", "mineral", "ore", "veldspar", "scordite"},
		min: 1, max: 1_500},
}

const (
	defaultEstimateMin = 10_000
	defaultEstimateMax = 500_000
)

// EstimatePrice returns a deterministic, network-free unit price guess for an
// item name. The same name always yields the same value, placed inside a
// band chosen by name-substring matching.
func EstimatePrice(name string) decimal.Decimal {
	lower := strings.ToLower(strings.TrimSpace(name))

	min, max := float64(defaultEstimateMin), float64(defaultEstimateMax)
	for _, band := range estimateBands {
		if matchesBand(lower, band) {
			min, max = band.min, band.max
			break
		}
	}

	// Hash of the name picks a stable point inside the band
	h := fnv.New64a()
	h.Write([]byte(lower))
	fraction := float64(h.Sum64()%10_000) / 10_000

	price := min + (max-min)*fraction
	return decimal.NewFromFloat(price).Round(2)
}

func matchesBand(lower string, band estimateBand) bool {
	for _, kw := range band.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
