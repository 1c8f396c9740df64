package pricing

// staticTypeIDs maps commonly traded item names (lower case) to their
// catalog type identifiers so the hot path skips the remote name lookup.
var staticTypeIDs = map[string]int64{
	// Minerals
	"tritanium": 34,
	"pyerite":   35,
	"mexallon":  36,
	"isogen":    37,
	"nocxium":   38,
	"zydrine":   39,
	"megacyte":  40,
	"morphite":  11399,

	// Common ores
	"veldspar":   1230,
	"scordite":   1228,
	"pyroxeres":  1224,
	"plagioclase": 18,

	// Frigates and cruisers mission runners fly against or salvage
	"rifter":    587,
	"merlin":    603,
	"punisher":  597,
	"tristan":   593,
	"rupture":   629,
	"caracal":   621,
	"vexor":     626,
	"stabber":   622,

	// Staples that show up in nearly every loot paste
	"gyrostabilizer ii":        519,
	"damage control ii":        2048,
	"small shield extender ii": 380,
	"1mn afterburner ii":       438,
	"salvager i":               25861,
	"civilian shield booster":  8517,
}

// staticTypeID checks the in-memory table before any network call
func staticTypeID(normalizedName string) (int64, bool) {
	id, ok := staticTypeIDs[normalizedName]
	return id, ok
}
