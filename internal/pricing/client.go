package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound signals that a name or type could not be resolved remotely.
// It never escapes the resolver; Quote degrades to the heuristic estimator.
var ErrNotFound = fmt.Errorf("pricing: not found")

// MarketOrder is one order from the primary market API
type MarketOrder struct {
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	LocationID   int64   `json:"location_id"`
	IsBuyOrder   bool    `json:"is_buy_order"`
}

// MarketClient queries the primary market API for sell orders and
// resolves item names to type identifiers. Both endpoints are plain
// HTTP GET with query parameters and are expected to be unreliable.
type MarketClient struct {
	baseURL string
	client  *http.Client
}

// NewMarketClient creates a client for the primary market API
func NewMarketClient(baseURL string) *MarketClient {
	return &MarketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SellOrders fetches all active sell orders for a type in a region
func (c *MarketClient) SellOrders(ctx context.Context, typeID, regionID int64) ([]MarketOrder, error) {
	q := url.Values{}
	q.Set("region_id", strconv.FormatInt(regionID, 10))
	q.Set("type_id", strconv.FormatInt(typeID, 10))
	q.Set("order_type", "sell")

	var orders []MarketOrder
	if err := c.getJSON(ctx, c.baseURL+"/markets/orders?"+q.Encode(), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// typeIDCandidate covers both response shapes of the name lookup endpoint:
// a single {typeID} object or an array of candidates.
type typeIDCandidate struct {
	TypeID   int64  `json:"typeID"`
	TypeName string `json:"typeName"`
}

// LookupTypeID resolves an item name to its catalog type identifier.
// When the endpoint returns multiple candidates, an exact case-insensitive
// name match wins, otherwise the first candidate is taken.
func (c *MarketClient) LookupTypeID(ctx context.Context, name string) (int64, error) {
	q := url.Values{}
	q.Set("name", name)

	body, err := c.get(ctx, c.baseURL+"/universe/ids?"+q.Encode())
	if err != nil {
		return 0, err
	}

	// Single-object shape first
	var single typeIDCandidate
	if err := json.Unmarshal(body, &single); err == nil && single.TypeID > 0 {
		return single.TypeID, nil
	}

	var candidates []typeIDCandidate
	if err := json.Unmarshal(body, &candidates); err != nil || len(candidates) == 0 {
		return 0, ErrNotFound
	}
	for _, cand := range candidates {
		if strings.EqualFold(cand.TypeName, name) {
			return cand.TypeID, nil
		}
	}
	return candidates[0].TypeID, nil
}

func (c *MarketClient) get(ctx context.Context, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing: GET %s: %s", addr, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *MarketClient) getJSON(ctx context.Context, addr string, out any) error {
	body, err := c.get(ctx, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// AggregatorClient queries the secondary price aggregator, used when the
// order-book query fails or comes back empty.
type AggregatorClient struct {
	baseURL string
	client  *http.Client
}

// NewAggregatorClient creates a client for the secondary aggregator API
func NewAggregatorClient(baseURL string) *AggregatorClient {
	return &AggregatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type aggregateQuote struct {
	Sell struct {
		Min        float64 `json:"min"`
		Percentile float64 `json:"percentile"`
	} `json:"sell"`
}

// SellPrice returns the aggregator's sell-side price for a type.
// The fifth-percentile figure is preferred, minimum sell as a fallback.
func (c *AggregatorClient) SellPrice(ctx context.Context, typeID int64) (float64, error) {
	q := url.Values{}
	q.Set("type_id", strconv.FormatInt(typeID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/aggregates?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pricing: aggregator GET: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var quote aggregateQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return 0, err
	}
	price := quote.Sell.Percentile
	if price <= 0 {
		price = quote.Sell.Min
	}
	if price <= 0 {
		return 0, ErrNotFound
	}
	return price, nil
}
