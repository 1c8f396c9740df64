package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"isktrack/internal/log"
	"isktrack/internal/model"
)

// QuoteBatch resolves a set of item names in small groups with a pause
// between groups to stay inside the remote service's informal rate limits.
// Duplicate names collapse to one lookup. Like Quote, it always produces a
// quote per name; a cancelled context fills the remainder with estimates.
func (r *Resolver) QuoteBatch(ctx context.Context, names []string) map[string]model.PriceQuote {
	var distinct []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := normalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, name)
	}

	resolved := make(map[string]model.PriceQuote, len(distinct))
	for start := 0; start < len(distinct); start += defaultBatchSize {
		end := start + defaultBatchSize
		if end > len(distinct) {
			end = len(distinct)
		}

		for _, name := range distinct[start:end] {
			resolved[normalizeName(name)] = r.Quote(ctx, name)
		}

		if end == len(distinct) {
			break
		}
		select {
		case <-ctx.Done():
			log.Debug("Batch pricing cancelled, estimating remainder", "remaining", len(distinct)-end)
			for _, name := range distinct[end:] {
				resolved[normalizeName(name)] = r.estimateQuote(name, 0)
			}
		case <-time.After(r.batchPause):
			continue
		}
		break
	}

	// Every input spelling gets its quote, duplicates included
	quotes := make(map[string]model.PriceQuote, len(names))
	for _, name := range names {
		if quote, ok := resolved[normalizeName(name)]; ok {
			quotes[name] = quote
		}
	}
	return quotes
}

// PriceInventory prices a parsed inventory batch and returns priced copies;
// the input items are never mutated. A clipboard-supplied estimate survives
// only when no real market price resolved for the item.
func (r *Resolver) PriceInventory(ctx context.Context, items []model.ParsedInventoryItem) []model.ParsedInventoryItem {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	quotes := r.QuoteBatch(ctx, names)

	priced := make([]model.ParsedInventoryItem, len(items))
	for i, item := range items {
		out := item
		if quote, ok := quotes[item.Name]; ok {
			unit := quote.UnitPrice
			if quote.Source == model.SourceHeuristicEstimate && item.UnitPriceEstimate.Sign() > 0 {
				// Keep the paste's own estimate over a blind guess
				unit = item.UnitPriceEstimate
			}
			out.UnitPriceEstimate = unit
			out.TotalValue = unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		priced[i] = out
	}
	return priced
}
