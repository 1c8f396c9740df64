package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"isktrack/internal/log"
	"isktrack/internal/parse"
	"isktrack/internal/pricing"
	"isktrack/internal/store"
	"isktrack/internal/valuation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Settings keys for the pricing hub
const (
	settingHubLocation = "price_hub_location"
	settingHubRegion   = "price_hub_region"
)

func main() {
	// Set up global panic handler first
	defer func() {
		if r := recover(); r != nil {
			log.Error("GLOBAL PANIC recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "Application crashed. See isktrack_debug.log for details.\n")
			os.Exit(1)
		}
	}()

	var (
		dbPath        = flag.String("db", "isktrack.db", "Path to the tracker database")
		logFile       = flag.String("log", "isktrack_debug.log", "Debug log file")
		marketURL     = flag.String("market", "https://esi.evetech.net/latest", "Primary market API base URL")
		aggregatorURL = flag.String("aggregator", "https://market.fuzzwork.co.uk", "Secondary price aggregator base URL")
		kind          = flag.String("kind", "auto", "Paste kind: auto, transactions, inventory, fitting")
		showVersion   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("isktrack %s (%s, built %s)\n", version, commit, date)
		return
	}

	if err := log.SetFileOutput(*logFile); err != nil {
		fmt.Printf("Warning: Could not configure debug logging to file: %v\n", err)
	}
	defer log.Close()

	// Paste arrives on stdin or from a file argument; a bare interactive
	// terminal means the user forgot both.
	if flag.NArg() == 0 && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Println("isktrack - mission profit tracker")
		fmt.Println("Paste a wallet journal, inventory dump or ship fitting:")
		fmt.Printf("  %s < paste.txt\n", os.Args[0])
		fmt.Printf("  %s paste.txt\n", os.Args[0])
		os.Exit(2)
	}

	raw, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	text := parse.NormalizePaste(raw)

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	resolver := pricing.NewResolver(
		pricing.NewMarketClient(*marketURL),
		pricing.NewAggregatorClient(*aggregatorURL),
		pricing.Options{Hub: hubFromSettings(st)},
	)

	pasteKind := *kind
	if pasteKind == "auto" {
		pasteKind = detectKind(text)
	}
	log.LogPaste(pasteKind, raw)

	ctx := context.Background()
	switch pasteKind {
	case "fitting":
		runFitting(ctx, resolver, text)
	case "transactions":
		runTransactions(text)
	case "inventory":
		runInventory(ctx, resolver, text)
	default:
		fmt.Fprintf(os.Stderr, "Unknown paste kind %q\n", pasteKind)
		os.Exit(2)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// hubFromSettings reads the configured pricing hub, defaulting to Jita
func hubFromSettings(st *store.SQLiteStore) pricing.Hub {
	hub := pricing.DefaultHub
	if raw := st.GetSettingDefault(settingHubLocation, ""); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			hub.LocationID = id
		}
	}
	if raw := st.GetSettingDefault(settingHubRegion, ""); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			hub.RegionID = id
		}
	}
	return hub
}

// detectKind guesses what was pasted: a bracketed hull line means a fitting,
// anything the journal parser accepts is a transaction log, the rest is
// treated as an inventory dump.
func detectKind(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.Contains(line, "]") {
			return "fitting"
		}
		break
	}
	if len(parse.ParseTransactions(text)) > 0 {
		return "transactions"
	}
	return "inventory"
}

func runTransactions(text string) {
	transactions := parse.ParseTransactions(text)
	if len(transactions) == 0 {
		fmt.Println("No transactions recognized in paste.")
		return
	}

	selected := valuation.AutoSelected(transactions)
	income, expenses := valuation.SummarizeTransactions(transactions, selected)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tDESCRIPTION\tSELECTED")
	for _, tx := range transactions {
		mark := ""
		if selected[tx.ID] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format("2006-01-02 15:04"), tx.Category, tx.Amount.StringFixed(2), tx.Description, mark)
	}
	w.Flush()

	fmt.Printf("\n%d transactions, %d auto-selected\n", len(transactions), len(selected))
	fmt.Printf("Selected income:   %s ISK\n", income.StringFixed(2))
	fmt.Printf("Selected expenses: %s ISK\n", expenses.StringFixed(2))
	fmt.Printf("Net:               %s ISK\n", income.Sub(expenses).StringFixed(2))
}

func runInventory(ctx context.Context, resolver *pricing.Resolver, text string) {
	items := parse.ParseInventory(text)
	if len(items) == 0 {
		fmt.Println("No items recognized in paste.")
		return
	}

	priced := resolver.PriceInventory(ctx, items)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tUNIT\tTOTAL")
	for _, item := range priced {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			item.Name, item.Quantity, item.UnitPriceEstimate.StringFixed(2), item.TotalValue.StringFixed(2))
	}
	w.Flush()

	fmt.Printf("\nEstimated loot value: %s ISK\n", valuation.InventoryValue(priced).StringFixed(2))
}

func runFitting(ctx context.Context, resolver *pricing.Resolver, text string) {
	fit := parse.ParseFitting(text)
	if len(fit.Items) == 0 {
		fmt.Println("No fitting recognized in paste.")
		return
	}

	total, quotes := valuation.AppraiseFitting(ctx, resolver, fit)

	names := make([]string, 0, len(fit.Items))
	for name := range fit.Items {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tUNIT\tSOURCE")
	for _, name := range names {
		quote := quotes[name]
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			name, fit.Items[name], quote.UnitPrice.StringFixed(2), quote.Source)
	}
	w.Flush()

	if fit.HullName != "" {
		fmt.Printf("\nHull: %s\n", fit.HullName)
	}
	fmt.Printf("Fitting value: %s ISK\n", total.StringFixed(2))
}
