package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/services"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

func main() {
	csvPath := flag.String("csv", "", "Ingest from a ticket export CSV instead of the ticket source API")
	forceRefresh := flag.Bool("force-refresh", false, "Bypass the ticket source cache")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	store := database.NewStore(db)
	client := ticketsource.NewClient(cfg.TicketSource, logger)

	chains := services.NewTransferChainService(store, logger)
	validator := services.NewGuestValidationService(store, cfg, logger)
	allocator := services.NewRoomAllocatorService(store, logger)
	manager := services.NewGuestManagementService(store, cfg, logger)
	orphans := services.NewOrphanReconciliationService(store, cfg, logger, chains, manager)
	processing := services.NewGuestProcessingService(store, cfg, logger, chains, allocator, manager)
	ingestion := services.NewGuestIngestionService(store, cfg, logger, client, validator, orphans, processing)

	var report *services.IngestReport
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open CSV")
		}
		defer f.Close()
		report, err = ingestion.IngestFromCSV(f)
		if err != nil {
			logger.WithError(err).Fatal("Ingestion failed")
		}
	} else {
		report, err = ingestion.IngestFromTicketSource(*forceRefresh)
		if err != nil {
			logger.WithError(err).Fatal("Ingestion failed")
		}
	}

	fmt.Printf("Ingestion from %s complete at %s\n", report.Source, report.Timestamp.Format("15:04:05"))
	for _, line := range report.CountLines {
		fmt.Println(line)
	}
	if len(report.OrphanTickets) > 0 {
		fmt.Printf("Orphan rooms reconciled for tickets: %v\n", report.OrphanTickets)
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
