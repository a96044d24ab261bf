// main.go - Operator tool for the panier data layer
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"panier/internal/config"
	"panier/internal/logging"
	"panier/internal/store"
	"panier/internal/timeframe"
)

func main() {
	summaryRange := flag.String("summary", "", "print a spending summary for a range: day, week or month")
	flag.Parse()

	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

	st, err := store.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	report, err := st.Initialize(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	fmt.Printf("Database: %s\n", cfg.GetDatabasePath())
	fmt.Printf("Migration steps: %d applied, %d failed\n", report.Applied(), len(report.Failed()))
	for _, outcome := range report.Outcomes {
		line := fmt.Sprintf("  %-32s %s", outcome.Name, outcome.Status)
		if outcome.Error != "" {
			line += " (" + outcome.Error + ")"
		}
		fmt.Println(line)
	}

	if *summaryRange == "" {
		return
	}

	r, err := parseRange(*summaryRange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	summary, err := st.Summary(r, timeframe.GranularityForRange(r))
	if err != nil {
		log.Fatalf("Failed to compute summary: %v", err)
	}

	fmt.Printf("\nSummary %s to %s\n",
		r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	fmt.Printf("Total: %.2f over %d items\n", summary.Total, summary.Count)
	for _, p := range summary.PerProduct {
		fmt.Printf("  %-24s %8.2f (%g %s)\n", p.Label, p.Amount, p.Quantity, p.Unit)
	}
}

func parseRange(name string) (timeframe.Range, error) {
	now := time.Now().UTC()
	switch name {
	case "day":
		return timeframe.Day(now), nil
	case "week":
		return timeframe.Week(now), nil
	case "month":
		return timeframe.Month(now), nil
	default:
		return timeframe.Range{}, fmt.Errorf("unknown summary range %q (want day, week or month)", name)
	}
}
