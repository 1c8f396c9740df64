package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory classifies a wallet journal line by its description keywords
type TransactionCategory string

const (
	CategoryBounty    TransactionCategory = "bounty"
	CategoryMission   TransactionCategory = "mission"
	CategoryMarket    TransactionCategory = "market"
	CategoryInsurance TransactionCategory = "insurance"
	CategoryOther     TransactionCategory = "other"
)

// ParsedTransaction is one wallet journal line after parsing.
// Amount is signed: income positive, expense negative. The sign always agrees
// with the income/expense classification derived from the description.
type ParsedTransaction struct {
	ID           string              `json:"id"`
	Date         time.Time           `json:"date"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description"`
	Counterparty string              `json:"counterparty"`
	Category     TransactionCategory `json:"category"`
	AutoSelected bool                `json:"auto_selected"`
}

// IsIncome reports whether the transaction counts toward income
func (t ParsedTransaction) IsIncome() bool {
	return t.Amount.Sign() >= 0
}

// ParsedInventoryItem is one line of an inventory or loot paste.
// UnitPriceEstimate is zero until a price resolves; a clipboard-supplied
// estimate may seed it before a real market quote replaces it.
type ParsedInventoryItem struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	UnitPriceEstimate decimal.Decimal `json:"unit_price_estimate"`
	TotalValue        decimal.Decimal `json:"total_value"`
}

// FittingParseResult is the outcome of parsing a ship fitting export.
// Items maps item name to quantity, hull included with quantity 1.
type FittingParseResult struct {
	HullName string         `json:"hull_name"`
	Items    map[string]int `json:"items"`
}

// PriceSource identifies which resolution tier produced a quote
type PriceSource string

const (
	SourcePrimaryMarket       PriceSource = "primary-market"
	SourceSecondaryAggregator PriceSource = "secondary-aggregator"
	SourceHeuristicEstimate   PriceSource = "heuristic-estimate"
)

// PriceQuote is a resolved unit price for an item name.
// ResolvedTypeID is 0 when the name never resolved to a catalog entry.
type PriceQuote struct {
	ItemName       string          `json:"item_name"`
	ResolvedTypeID int64           `json:"resolved_type_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Source         PriceSource     `json:"source"`
	ResolvedAt     time.Time       `json:"resolved_at"`
}
