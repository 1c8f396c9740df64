package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isktrack/internal/model"
)

func tx(id string, amount int64, category model.TransactionCategory, auto bool) model.ParsedTransaction {
	return model.ParsedTransaction{
		ID:           id,
		Amount:       decimal.NewFromInt(amount),
		Category:     category,
		AutoSelected: auto,
	}
}

func TestSummarizeTransactionsSelectedOnly(t *testing.T) {
	transactions := []model.ParsedTransaction{
		tx("a", 500_000, model.CategoryBounty, true),
		tx("b", 250_000, model.CategoryMission, true),
		tx("c", -50_000, model.CategoryMarket, false),
		tx("d", 1_000_000, model.CategoryOther, false), // not selected
	}
	selected := map[string]bool{"a": true, "b": true, "c": true}

	income, expenses := SummarizeTransactions(transactions, selected)
	assert.Equal(t, "750000", income.String())
	assert.Equal(t, "50000", expenses.String())
}

func TestAutoSelectedBuildsDefaultSelection(t *testing.T) {
	transactions := []model.ParsedTransaction{
		tx("a", 1, model.CategoryBounty, true),
		tx("b", 1, model.CategoryMarket, false),
		tx("c", 1, model.CategoryMission, true),
	}

	selected := AutoSelected(transactions)
	assert.Equal(t, map[string]bool{"a": true, "c": true}, selected)
}

func TestInventoryValue(t *testing.T) {
	items := []model.ParsedInventoryItem{
		{Name: "Tritanium", Quantity: 1000, TotalValue: decimal.NewFromInt(4000)},
		{Name: "Salvager I", Quantity: 1, TotalValue: decimal.NewFromInt(20000)},
	}
	assert.Equal(t, "24000", InventoryValue(items).String())
}

func TestSummarizeComputesProfitAndRate(t *testing.T) {
	transactions := []model.ParsedTransaction{
		tx("a", 900_000, model.CategoryBounty, true),
		tx("b", -100_000, model.CategoryMarket, false),
	}
	selected := map[string]bool{"a": true, "b": true}
	loot := []model.ParsedInventoryItem{
		{Name: "Loot", Quantity: 1, TotalValue: decimal.NewFromInt(200_000)},
	}

	s := Summarize(transactions, selected, loot, decimal.NewFromInt(50_000), 30)

	assert.Equal(t, "900000", s.TransactionIncome.String())
	assert.Equal(t, "100000", s.TransactionExpenses.String())
	assert.Equal(t, "200000", s.LootValue.String())
	assert.Equal(t, "1100000", s.TotalIncome.String())
	assert.Equal(t, "150000", s.TotalExpenses.String())
	assert.Equal(t, "950000", s.Profit.String())
	// 950000 over 30 minutes is 1.9M/hour
	assert.Equal(t, "1900000", s.IskPerHour.String())
}

func TestIskPerHourClampsMinutes(t *testing.T) {
	profit := decimal.NewFromInt(60_000)

	// Zero or negative minutes count as one minute
	assert.Equal(t, "3600000", IskPerHour(profit, 0).String())
	assert.Equal(t, "3600000", IskPerHour(profit, 1).String())
	assert.Equal(t, "60000", IskPerHour(profit, 60).String())
}

// stubPricer quotes a fixed price for every name
type stubPricer struct {
	price int64
}

func (p *stubPricer) QuoteBatch(ctx context.Context, names []string) map[string]model.PriceQuote {
	quotes := make(map[string]model.PriceQuote, len(names))
	for _, name := range names {
		quotes[name] = model.PriceQuote{
			ItemName:   name,
			UnitPrice:  decimal.NewFromInt(p.price),
			Source:     model.SourcePrimaryMarket,
			ResolvedAt: time.Now(),
		}
	}
	return quotes
}

func TestAppraiseFitting(t *testing.T) {
	fit := model.FittingParseResult{
		HullName: "Rifter",
		Items: map[string]int{
			"Rifter":            1,
			"Gyrostabilizer II": 2,
		},
	}

	total, quotes := AppraiseFitting(context.Background(), &stubPricer{price: 1000}, fit)

	require.Len(t, quotes, 2)
	// 1 hull + 2 modules at 1000 each
	assert.Equal(t, "3000", total.String())
}
