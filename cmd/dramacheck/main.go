package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/checks"
	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

func main() {
	errorsOnly := flag.Bool("errors-only", false, "Only print ERROR findings")
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
	runner := checks.NewRunner(store, cfg, logger, client)

	findings, err := runner.Run()
	if err != nil {
		logger.WithError(err).Fatal("Checks failed to run")
	}

	hasErrors := false
	for _, finding := range findings {
		if finding.Level == checks.LevelError {
			hasErrors = true
		}
		if *errorsOnly && finding.Level != checks.LevelError {
			continue
		}
		fmt.Println(finding.String())
	}

	if len(findings) == 0 {
		fmt.Println("No drama found")
	}
	if hasErrors {
		os.Exit(1)
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
