package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quotewatch/isin-data/internal/api"
	"github.com/quotewatch/isin-data/internal/calendar"
	"github.com/quotewatch/isin-data/internal/config"
	"github.com/quotewatch/isin-data/internal/model"
)

// quotecheck probes the upstream API for a single ISIN: lists its ranked
// exchange listings, fetches a quote, and reports the market state.
func main() {
	isin := flag.String("isin", "", "ISIN to look up (required)")
	exchange := flag.String("exchange", "", "exchange code (empty = default listing)")
	baseURL := flag.String("url", config.DefaultBaseURL, "API base URL")
	timeout := flag.Duration("timeout", config.DefaultAPITimeout, "request timeout")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if !model.ValidISIN(*isin) {
		fmt.Fprintln(os.Stderr, "error: -isin must be a 12-character alphanumeric ISIN")
		flag.Usage()
		os.Exit(2)
	}

	client := api.NewClient(*baseURL, api.WithLogger(logger), api.WithTimeout(*timeout))

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	exchanges, err := client.GetExchanges(ctx, *isin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: list exchanges: %v\n", err)
		os.Exit(1)
	}

	cal := calendar.Default()

	fmt.Printf("Listings for %s:\n", *isin)
	for _, item := range api.RankExchanges(exchanges.Items) {
		marker := " "
		if item.IsDefault {
			marker = "*"
		}
		fmt.Printf("  %s %-6s %-24s %-4s market=%s\n",
			marker,
			item.ExchangeCode,
			item.ExchangeName,
			item.Currency(),
			cal.IsOpen(item.ExchangeCode, time.Now()),
		)
	}

	snap, err := client.FetchSnapshot(ctx, *isin, *exchange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: fetch quote: %v\n", err)
		os.Exit(1)
	}
	if !snap.HasPrice() && *exchange != "" {
		fmt.Printf("\nno price on %s, falling back to default listing\n", *exchange)
		snap, err = client.FetchSnapshot(ctx, *isin, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: fetch quote: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\n%s (%s)\n", snap.Name, snap.ISIN)
	fmt.Printf("  exchange:    %s %s\n", snap.ExchangeCode, snap.ExchangeName)
	if snap.Price != nil {
		fmt.Printf("  price:       %.4f %s\n", *snap.Price, snap.CurrencySign)
		if snap.ChangePercent != nil && snap.ChangeAbsolute != nil {
			fmt.Printf("  change:      %+.2f%% (%+.4f)\n", *snap.ChangePercent, *snap.ChangeAbsolute)
		}
	} else {
		fmt.Println("  price:       n/a")
	}
	if !snap.PriceChangedAt.IsZero() {
		fmt.Printf("  price time:  %s\n", snap.PriceChangedAt.Format(time.RFC3339))
	}
	fmt.Printf("  asset class: %s", snap.AssetClass())
	if snap.IsBond() {
		fmt.Print(" (bond, price in %)")
	}
	fmt.Println()
}
