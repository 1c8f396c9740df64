package pricing

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"isktrack/internal/log"
	"isktrack/internal/model"
)

const (
	// DefaultCacheTTL is how long resolved quotes and type IDs stay fresh
	DefaultCacheTTL = 60 * time.Minute

	// DefaultLookupSpacing is the minimum gap between outbound name lookups
	DefaultLookupSpacing = 100 * time.Millisecond

	// Batch resolution stays under informal service rate limits
	defaultBatchSize  = 3
	defaultBatchPause = time.Second
)

// Hub is the trade location used as the pricing reference point
type Hub struct {
	LocationID int64
	RegionID   int64
}

// DefaultHub is Jita 4-4 in The Forge
var DefaultHub = Hub{LocationID: 60003760, RegionID: 10000002}

// Options tune a Resolver; zero values fall back to defaults
type Options struct {
	Hub           Hub
	CacheTTL      time.Duration
	LookupSpacing time.Duration
	BatchPause    time.Duration
	Now           func() time.Time
}

// Resolver maps item names to unit prices, shielding callers from the
// instability of the external pricing services. Resolution is two-stage:
// name to type identifier (static table first, then remote lookup), then
// type identifier to price (order-book query, aggregator, heuristic).
//
// Quote never fails: every tier falling over degrades to the deterministic
// estimator, and the quote's Source field reports which tier answered.
type Resolver struct {
	market     *MarketClient
	aggregator *AggregatorClient

	mu  sync.Mutex
	hub Hub

	quotes  *quoteCache
	typeIDs *typeIDCache
	gate    *rateGate

	// Concurrent lookups for the same normalized name share one flight
	inflight singleflight.Group

	batchPause time.Duration
	now        func() time.Time
}

// NewResolver creates a resolver over the two pricing services
func NewResolver(market *MarketClient, aggregator *AggregatorClient, opts Options) *Resolver {
	if opts.Hub == (Hub{}) {
		opts.Hub = DefaultHub
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.LookupSpacing == 0 {
		opts.LookupSpacing = DefaultLookupSpacing
	}
	if opts.BatchPause == 0 {
		opts.BatchPause = defaultBatchPause
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Resolver{
		market:     market,
		aggregator: aggregator,
		hub:        opts.Hub,
		quotes:     newQuoteCache(opts.CacheTTL),
		typeIDs:    newTypeIDCache(opts.CacheTTL),
		gate:       newRateGate(opts.LookupSpacing),
		batchPause: opts.BatchPause,
		now:        opts.Now,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Quote resolves one item name to a unit price. It always returns a usable
// quote; check Source to see whether a real market price was found.
func (r *Resolver) Quote(ctx context.Context, name string) model.PriceQuote {
	key := normalizeName(name)

	if quote, ok := r.quotes.get(key, r.now()); ok {
		return quote
	}

	v, _, _ := r.inflight.Do(key, func() (any, error) {
		return r.resolve(ctx, name, key), nil
	})
	return v.(model.PriceQuote)
}

func (r *Resolver) resolve(ctx context.Context, name, key string) model.PriceQuote {
	// Another caller may have finished while we waited on the flight
	if quote, ok := r.quotes.get(key, r.now()); ok {
		return quote
	}

	typeID, err := r.resolveTypeID(ctx, name, key)
	if err != nil {
		log.Debug("Type lookup failed, using estimate", "item", name, "error", err)
		return r.estimateQuote(name, 0)
	}

	price, source, err := r.marketPrice(ctx, typeID)
	if err != nil {
		log.Debug("Price lookup failed, using estimate", "item", name, "type_id", typeID, "error", err)
		return r.estimateQuote(name, typeID)
	}

	quote := model.PriceQuote{
		ItemName:       name,
		ResolvedTypeID: typeID,
		UnitPrice:      price,
		Source:         source,
		ResolvedAt:     r.now(),
	}
	r.quotes.put(key, quote, r.now())
	return quote
}

// estimateQuote builds a heuristic quote. Estimates are never cached so a
// later call can retry the network path.
func (r *Resolver) estimateQuote(name string, typeID int64) model.PriceQuote {
	return model.PriceQuote{
		ItemName:       name,
		ResolvedTypeID: typeID,
		UnitPrice:      EstimatePrice(name),
		Source:         model.SourceHeuristicEstimate,
		ResolvedAt:     r.now(),
	}
}

// resolveTypeID maps a name to a type identifier: static table, then cache,
// then the rate-gated remote lookup.
func (r *Resolver) resolveTypeID(ctx context.Context, name, key string) (int64, error) {
	if id, ok := staticTypeID(key); ok {
		return id, nil
	}
	if id, ok := r.typeIDs.get(key, r.now()); ok {
		return id, nil
	}

	if err := r.gate.wait(ctx); err != nil {
		return 0, err
	}
	id, err := r.market.LookupTypeID(ctx, name)
	if err != nil {
		return 0, err
	}

	r.typeIDs.put(key, id, r.now())
	return id, nil
}

// marketPrice runs the order-book tier and then the aggregator tier
func (r *Resolver) marketPrice(ctx context.Context, typeID int64) (decimal.Decimal, model.PriceSource, error) {
	hub := r.currentHub()

	orders, err := r.market.SellOrders(ctx, typeID, hub.RegionID)
	if err == nil {
		candidates := sellOrdersAt(orders, hub.LocationID)
		if len(candidates) == 0 {
			// Nothing at the hub; widen to the whole region
			candidates = sellOrdersAt(orders, 0)
		}
		if len(candidates) > 0 {
			return cheapestPercentileMean(candidates), model.SourcePrimaryMarket, nil
		}
		err = ErrNotFound
	}

	price, aggErr := r.aggregator.SellPrice(ctx, typeID)
	if aggErr == nil {
		return decimal.NewFromFloat(price).Round(2), model.SourceSecondaryAggregator, nil
	}
	return decimal.Zero, "", err
}

// sellOrdersAt filters to sell orders, restricted to one location when
// locationID is non-zero.
func sellOrdersAt(orders []MarketOrder, locationID int64) []MarketOrder {
	var out []MarketOrder
	for _, o := range orders {
		if o.IsBuyOrder {
			continue
		}
		if locationID != 0 && o.LocationID != locationID {
			continue
		}
		out = append(out, o)
	}
	return out
}

// cheapestPercentileMean sorts ascending and averages the cheapest 5% of
// orders by count, minimum one order, rounded to two decimals.
func cheapestPercentileMean(orders []MarketOrder) decimal.Decimal {
	sort.Slice(orders, func(i, j int) bool { return orders[i].Price < orders[j].Price })

	n := (len(orders)*5 + 99) / 100
	if n < 1 {
		n = 1
	}

	sum := decimal.Zero
	for _, o := range orders[:n] {
		sum = sum.Add(decimal.NewFromFloat(o.Price))
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// SetHub switches the pricing reference hub. The quote cache is invalidated,
// type identifiers stay since they are hub-independent.
func (r *Resolver) SetHub(hub Hub) {
	r.mu.Lock()
	r.hub = hub
	r.mu.Unlock()
	r.quotes.clear()
	log.Info("Price hub changed", "location_id", hub.LocationID, "region_id", hub.RegionID)
}

// ClearCache drops all cached quotes, leaving type identifiers in place
func (r *Resolver) ClearCache() {
	r.quotes.clear()
}

func (r *Resolver) currentHub() Hub {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hub
}
