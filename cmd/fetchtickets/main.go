package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

// fetchtickets warms the ticket source cache and prints a product
// breakdown, without touching the database.
func main() {
	forceRefresh := flag.Bool("force-refresh", false, "Bypass the ticket source cache")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	client := ticketsource.NewClient(cfg.TicketSource, logger)

	records, err := client.ExportTickets(ticketsource.ExportOptions{
		Order:        "created_at",
		ForceRefresh: *forceRefresh,
	})
	if err != nil {
		logger.WithError(err).Fatal("Export failed")
	}

	byProduct := make(map[string]int)
	transfers := 0
	for _, record := range records {
		byProduct[record.Product]++
		if record.IsTransfer() {
			transfers++
		}
	}

	products := make([]string, 0, len(byProduct))
	for product := range byProduct {
		products = append(products, product)
	}
	sort.Strings(products)

	fmt.Printf("%d tickets (%d transfers)\n", len(records), transfers)
	for _, product := range products {
		fmt.Printf("  %4d  %s\n", byProduct[product], product)
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
