package valuation

import (
	"context"

	"github.com/shopspring/decimal"

	"isktrack/internal/model"
)

// Pricer is the slice of the price resolver the aggregator needs
type Pricer interface {
	QuoteBatch(ctx context.Context, names []string) map[string]model.PriceQuote
}

// Summary is the financial rollup of a set of selected transactions plus
// staged loot, with the derived mission metrics.
type Summary struct {
	TransactionIncome   decimal.Decimal
	TransactionExpenses decimal.Decimal // positive magnitude
	LootValue           decimal.Decimal
	TotalIncome         decimal.Decimal
	TotalExpenses       decimal.Decimal
	Profit              decimal.Decimal
	IskPerHour          decimal.Decimal
}

// SummarizeTransactions totals the selected transactions. The selected set is
// passed explicitly; income and expenses are split on the amount sign, which
// the parser guarantees matches the description classification.
func SummarizeTransactions(transactions []model.ParsedTransaction, selected map[string]bool) (income, expenses decimal.Decimal) {
	for _, tx := range transactions {
		if !selected[tx.ID] {
			continue
		}
		if tx.IsIncome() {
			income = income.Add(tx.Amount)
		} else {
			expenses = expenses.Add(tx.Amount.Neg())
		}
	}
	return income, expenses
}

// AutoSelected builds the default selection set from parser flags
func AutoSelected(transactions []model.ParsedTransaction) map[string]bool {
	selected := make(map[string]bool, len(transactions))
	for _, tx := range transactions {
		if tx.AutoSelected {
			selected[tx.ID] = true
		}
	}
	return selected
}

// InventoryValue totals the staged loot value
func InventoryValue(items []model.ParsedInventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalValue)
	}
	return total
}

// Summarize combines selected transactions, staged loot and extra expenses
// into the mission financial summary. totalTimeMinutes must be at least 1;
// anything lower is clamped so the rate math cannot blow up.
func Summarize(transactions []model.ParsedTransaction, selected map[string]bool, loot []model.ParsedInventoryItem, extraExpenses decimal.Decimal, totalTimeMinutes int) Summary {
	if totalTimeMinutes < 1 {
		totalTimeMinutes = 1
	}

	income, expenses := SummarizeTransactions(transactions, selected)
	lootValue := InventoryValue(loot)

	s := Summary{
		TransactionIncome:   income,
		TransactionExpenses: expenses,
		LootValue:           lootValue,
		TotalIncome:         income.Add(lootValue),
		TotalExpenses:       expenses.Add(extraExpenses),
	}
	s.Profit = s.TotalIncome.Sub(s.TotalExpenses)
	s.IskPerHour = IskPerHour(s.Profit, totalTimeMinutes)
	return s
}

// IskPerHour converts profit over a duration in minutes to an hourly rate
func IskPerHour(profit decimal.Decimal, totalTimeMinutes int) decimal.Decimal {
	if totalTimeMinutes < 1 {
		totalTimeMinutes = 1
	}
	minutes := decimal.NewFromInt(int64(totalTimeMinutes))
	return profit.Div(minutes).Mul(decimal.NewFromInt(60)).Round(2)
}

// AppraiseFitting prices every item of a parsed fitting through the batch
// path and returns the total hull-plus-modules value with the per-item
// quotes that produced it.
func AppraiseFitting(ctx context.Context, pricer Pricer, fit model.FittingParseResult) (decimal.Decimal, map[string]model.PriceQuote) {
	names := make([]string, 0, len(fit.Items))
	for name := range fit.Items {
		names = append(names, name)
	}
	quotes := pricer.QuoteBatch(ctx, names)

	total := decimal.Zero
	for name, quantity := range fit.Items {
		if quote, ok := quotes[name]; ok {
			total = total.Add(quote.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		}
	}
	return total, quotes
}
