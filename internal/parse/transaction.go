package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"isktrack/internal/log"
	"isktrack/internal/model"
)

// Wallet journal pastes show up in three shapes, tried in this order per line:
//  1. timestamped, tab/space delimited, amount carries an ISK suffix and a
//     running balance column follows
//  2. legacy date / amount / counterparty / description without a time
//  3. comma separated
var (
	dateTimeLayouts = []string{
		"2006.01.02 15:04:05",
		"2006.01.02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	dateLayouts = []string{
		"2006.01.02",
		"2006-01-02",
		"02.01.2006",
	}

	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
	iskSuffixPattern  = regexp.MustCompile(`(?i)ISK\s*$`)
)

var headerKeywords = []string{"date", "amount", "type", "description", "transaction"}

// ParseTransactions converts a raw wallet journal paste into transactions.
// It never fails: lines that match no grammar are logged and skipped, and a
// header row on the first line is detected and dropped.
func ParseTransactions(raw string) []model.ParsedTransaction {
	var out []model.ParsedTransaction

	first := true
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			first = false
			if isHeaderLine(line) {
				log.Debug("Skipping journal header row", "line", line)
				continue
			}
		}

		tx, ok := parseTransactionLine(line)
		if !ok {
			log.Debug("Journal line matched no grammar, skipping", "line", line)
			continue
		}
		out = append(out, tx)
	}

	return out
}

// isHeaderLine reports whether a line looks like a column header row.
// Two or more header keywords is the threshold; applies to the first line only.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	hits := 0
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 2
}

func parseTransactionLine(line string) (model.ParsedTransaction, bool) {
	cols := splitColumns(line)

	if tx, ok := parseTimestamped(cols); ok {
		return tx, true
	}
	if tx, ok := parseLegacy(cols); ok {
		return tx, true
	}
	return parseCommaSeparated(line)
}

// splitColumns splits on tabs when present, otherwise on runs of two or
// more spaces, so copy-pastes from both the client and spreadsheets work.
func splitColumns(line string) []string {
	var parts []string
	if strings.Contains(line, "\t") {
		parts = strings.Split(line, "\t")
	} else {
		parts = multiSpacePattern.Split(line, -1)
	}
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}

// parseTimestamped handles: datetime, description, counterparty, amount ISK [, balance ISK]
func parseTimestamped(cols []string) (model.ParsedTransaction, bool) {
	if len(cols) < 4 {
		return model.ParsedTransaction{}, false
	}
	ts, ok := parseAnyTime(cols[0], dateTimeLayouts)
	if !ok {
		return model.ParsedTransaction{}, false
	}

	// The amount is the first column past the counterparty with an ISK suffix;
	// anything after it is the running balance.
	amountCol := -1
	for i := 3; i < len(cols); i++ {
		if iskSuffixPattern.MatchString(cols[i]) {
			amountCol = i
			break
		}
	}
	if amountCol == -1 {
		return model.ParsedTransaction{}, false
	}
	amount, err := ParseAmount(cols[amountCol])
	if err != nil {
		return model.ParsedTransaction{}, false
	}

	return newTransaction(ts, amount, cols[1], cols[2]), true
}

// parseLegacy handles: date, amount, counterparty, description...
func parseLegacy(cols []string) (model.ParsedTransaction, bool) {
	if len(cols) < 4 {
		return model.ParsedTransaction{}, false
	}
	day, ok := parseAnyTime(cols[0], dateLayouts)
	if !ok {
		return model.ParsedTransaction{}, false
	}
	amount, err := ParseAmount(cols[1])
	if err != nil {
		return model.ParsedTransaction{}, false
	}

	return newTransaction(day, amount, strings.Join(cols[3:], " "), cols[2]), true
}

// parseCommaSeparated handles: date,amount,counterparty,description
// Amounts in this grammar use period decimals since commas delimit fields.
func parseCommaSeparated(line string) (model.ParsedTransaction, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return model.ParsedTransaction{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	day, ok := parseAnyTime(parts[0], dateLayouts)
	if !ok {
		return model.ParsedTransaction{}, false
	}
	amount, err := ParseAmount(parts[1])
	if err != nil {
		return model.ParsedTransaction{}, false
	}

	return newTransaction(day, amount, strings.Join(parts[3:], ", "), parts[2]), true
}

func parseAnyTime(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// newTransaction classifies the description and normalizes the amount sign so
// it always agrees with the income/expense classification.
func newTransaction(date time.Time, raw decimal.Decimal, description, counterparty string) model.ParsedTransaction {
	category := classifyCategory(description)
	income := classifyIncome(description, category)

	amount := raw.Abs()
	if !income {
		amount = amount.Neg()
	}

	return model.ParsedTransaction{
		ID:           uuid.NewString(),
		Date:         date,
		Amount:       amount,
		Description:  strings.TrimSpace(description),
		Counterparty: strings.TrimSpace(counterparty),
		Category:     category,
		AutoSelected: category == model.CategoryBounty || category == model.CategoryMission,
	}
}

// classifyCategory matches description keywords in priority order
func classifyCategory(description string) model.TransactionCategory {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "bounty"):
		return model.CategoryBounty
	case strings.Contains(d, "mission"), strings.Contains(d, "agent"), strings.Contains(d, "reward"):
		return model.CategoryMission
	case strings.Contains(d, "market"), strings.Contains(d, "transaction"),
		strings.Contains(d, "sell"), strings.Contains(d, "buy"):
		return model.CategoryMarket
	case strings.Contains(d, "insurance"):
		return model.CategoryInsurance
	default:
		return model.CategoryOther
	}
}

// classifyIncome decides the amount sign. Bounty and mission payouts are
// always income; purchases, fees and taxes are expenses; default is income.
func classifyIncome(description string, category model.TransactionCategory) bool {
	if category == model.CategoryBounty || category == model.CategoryMission {
		return true
	}
	d := strings.ToLower(description)
	if strings.Contains(d, "purchased") || strings.Contains(d, "buy") ||
		strings.Contains(d, "fee") || strings.Contains(d, "tax") {
		return false
	}
	return true
}
