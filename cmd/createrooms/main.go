package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/ingest"
)

// createrooms loads the hotel's room list from a placement CSV. Run once
// per event, before the first ingest.
func main() {
	csvPath := flag.String("csv", "", "Room placement CSV (required)")
	migrate := flag.Bool("migrate", false, "Apply the database schema first")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("--csv is required")
	}

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

	if *migrate {
		if err := database.Migrate(db); err != nil {
			logger.WithError(err).Fatal("Migration failed")
		}
		logger.Info("Schema applied")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open CSV")
	}
	defer f.Close()

	rooms, err := ingest.ReadRoomsCSV(f)
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse placement CSV")
	}

	store := database.NewStore(db)

	created, skipped := 0, 0
	for i := range rooms {
		room := &rooms[i]

		_, err := store.Rooms().Get(room.Number, room.Hotel)
		if err == nil {
			logger.WithFields(logrus.Fields{
				"room":  room.Number,
				"hotel": room.Hotel,
			}).Warn("Room already exists, skipping")
			skipped++
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			logger.WithError(err).Fatal("Room lookup failed")
		}

		if err := store.Rooms().Save(room); err != nil {
			logger.WithError(err).Fatal("Failed to create room")
		}
		created++
	}

	fmt.Printf("Created %d rooms, skipped %d existing\n", created, skipped)
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
