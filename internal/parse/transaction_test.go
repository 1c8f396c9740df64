package parse

import (
	"testing"

	"isktrack/internal/model"
)

func TestParseTransactionsTimestampedGrammar(t *testing.T) {
	input := "2024.03.15 18:32\tBounty Prizes\tCONCORD\t1.234.567,89 ISK\t45.678.901,23 ISK"

	txs := ParseTransactions(input)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if tx.Amount.String() != "1234567.89" {
		t.Errorf("expected amount 1234567.89, got %s", tx.Amount.String())
	}
	if tx.Category != model.CategoryBounty {
		t.Errorf("expected bounty category, got %s", tx.Category)
	}
	if !tx.AutoSelected {
		t.Error("bounty transactions should be auto-selected")
	}
	if tx.Counterparty != "CONCORD" {
		t.Errorf("expected counterparty CONCORD, got %q", tx.Counterparty)
	}
	if tx.Date.Year() != 2024 || tx.Date.Hour() != 18 || tx.Date.Minute() != 32 {
		t.Errorf("date parsed wrong: %v", tx.Date)
	}
}

func TestParseTransactionsLegacyGrammar(t *testing.T) {
	input := "2024.03.15\t250.000 ISK\tSisters of EVE\tMission reward payout"

	txs := ParseTransactions(input)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if tx.Amount.String() != "250000" {
		t.Errorf("expected amount 250000, got %s", tx.Amount.String())
	}
	if tx.Category != model.CategoryMission {
		t.Errorf("expected mission category, got %s", tx.Category)
	}
	if !tx.AutoSelected {
		t.Error("mission transactions should be auto-selected")
	}
}

func TestParseTransactionsCommaSeparatedGrammar(t *testing.T) {
	input := "2024-03-15,150000.50,Jita Trade Co,Market escrow released"

	txs := ParseTransactions(input)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if tx.Amount.String() != "150000.5" {
		t.Errorf("expected amount 150000.5, got %s", tx.Amount.String())
	}
	if tx.Category != model.CategoryMarket {
		t.Errorf("expected market category, got %s", tx.Category)
	}
	if tx.AutoSelected {
		t.Error("market transactions should not be auto-selected")
	}
}

func TestParseTransactionsCategoryAndSign(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		category model.TransactionCategory
		income   bool
	}{
		{"bounty", "Bounty Prizes", model.CategoryBounty, true},
		{"mission", "Agent mission completed", model.CategoryMission, true},
		{"market sell", "Market sell order", model.CategoryMarket, true},
		{"market purchase", "Market order purchased", model.CategoryMarket, false},
		{"broker fee", "Brokers fee deducted", model.CategoryOther, false},
		{"sales tax", "Transaction tax", model.CategoryMarket, false},
		{"insurance", "Insurance payout", model.CategoryInsurance, true},
		{"unknown", "Player donation", model.CategoryOther, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "2024-03-15,1000,Someone," + tt.desc
			txs := ParseTransactions(input)
			if len(txs) != 1 {
				t.Fatalf("expected 1 transaction, got %d", len(txs))
			}
			tx := txs[0]
			if tx.Category != tt.category {
				t.Errorf("category = %s, want %s", tx.Category, tt.category)
			}
			if tx.IsIncome() != tt.income {
				t.Errorf("income = %v, want %v (amount %s)", tx.IsIncome(), tt.income, tx.Amount)
			}
			// Sign invariant: negative iff classified as expense
			if tt.income && tx.Amount.Sign() < 0 || !tt.income && tx.Amount.Sign() > 0 {
				t.Errorf("amount sign disagrees with classification: %s", tx.Amount)
			}
		})
	}
}

func TestParseTransactionsHeaderRow(t *testing.T) {
	input := "Date\tAmount\tType\tDescription\n" +
		"2024.03.15 18:32\tBounty Prizes\tCONCORD\t500.000 ISK\t1.000.000 ISK"

	txs := ParseTransactions(input)
	if len(txs) != 1 {
		t.Fatalf("expected header to be skipped, got %d transactions", len(txs))
	}
	if txs[0].Category != model.CategoryBounty {
		t.Errorf("surviving line parsed wrong: %+v", txs[0])
	}
}

func TestParseTransactionsHeaderOnlyFirstLine(t *testing.T) {
	// The same keyword-heavy text past line one is just an unparseable line,
	// not a header; either way it must not abort the batch.
	input := "2024-03-15,1000,Someone,Bounty Prizes\n" +
		"Date Amount Type Description\n" +
		"2024-03-16,2000,Someone,Bounty Prizes"

	txs := ParseTransactions(input)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
}

func TestParseTransactionsSkipsGarbage(t *testing.T) {
	input := "total nonsense line\n" +
		"\n" +
		"2024-03-15,1000,Someone,Bounty Prizes\n" +
		"also | not | a | transaction"

	txs := ParseTransactions(input)
	if len(txs) != 1 {
		t.Fatalf("expected garbage to be skipped, got %d transactions", len(txs))
	}
}

func TestParseTransactionsEmptyInput(t *testing.T) {
	if txs := ParseTransactions(""); len(txs) != 0 {
		t.Errorf("expected no transactions from empty input, got %d", len(txs))
	}
}

func TestParseTransactionsUniqueIDs(t *testing.T) {
	input := "2024-03-15,1000,Someone,Bounty Prizes\n" +
		"2024-03-15,1000,Someone,Bounty Prizes"

	txs := ParseTransactions(input)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID == txs[1].ID {
		t.Error("identical lines must still get distinct IDs")
	}
}
