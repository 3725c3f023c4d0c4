package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/services"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
	"github.com/roomsvc/reservations-backend/pkg/logintoken"
)

func main() {
	ticket := flag.String("ticket", "", "Ticket code of the guest to repair")
	email := flag.String("email", "", "Email of the guest to repair")
	dryRun := flag.Bool("dry-run", false, "Show the plan without writing anything")
	forceRefresh := flag.Bool("force-refresh", false, "Bypass the ticket source cache")
	flag.Parse()

	if (*ticket == "") == (*email == "") {
		log.Fatal("Exactly one of --ticket or --email is required")
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

	store := database.NewStore(db)
	client := ticketsource.NewClient(cfg.TicketSource, logger)
	allocator := services.NewRoomAllocatorService(store, logger)
	manager := services.NewGuestManagementService(store, cfg, logger)
	fixer := services.NewGuestFixerService(store, cfg, logger, client, allocator, manager)

	search, byTicket := *email, false
	if *ticket != "" {
		search, byTicket = *ticket, true
	}

	guest, err := fixer.Lookup(search, byTicket)
	if err != nil {
		logger.WithError(err).Fatal("Guest lookup failed")
	}
	fmt.Printf("Guest: %s <%s> ticket %s\n", guest.Name, guest.Email, guest.Ticket)

	record, err := fixer.SourceRecord(guest.Ticket, *forceRefresh)
	if err != nil {
		logger.WithError(err).Fatal("Could not fetch the ticket record")
	}

	if fixer.IsRefunded(record) {
		fmt.Printf("Ticket %s was refunded, releasing any rooms held on it\n", guest.Ticket)
		if *dryRun {
			fmt.Println("Dry run, nothing written")
			return
		}
		if err := fixer.UnassignRefunded(guest); err != nil {
			logger.WithError(err).Fatal("Failed to release rooms")
		}
		fmt.Println("Done")
		return
	}

	if err := fixer.CheckEligible(guest); err != nil {
		logger.WithError(err).Fatal("Guest is not eligible for a room")
	}

	room, err := fixer.Propose(record)
	if err != nil {
		logger.WithError(err).Fatal("No room to offer")
	}
	fmt.Printf("Plan: assign room %s at %s (%s)\n", room.Number, room.Hotel, room.RoomType)

	if *dryRun {
		fmt.Println("Dry run, nothing written")
		return
	}

	if err := fixer.Apply(guest, record, room); err != nil {
		logger.WithError(err).Fatal("Assignment failed")
	}
	fmt.Println("Done")

	if cfg.LoginToken.Secret != "" {
		tokens := logintoken.NewManager(cfg.LoginToken.Secret, cfg.LoginToken.Expiry)
		token, err := tokens.Issue(guest.ID, guest.Email)
		if err != nil {
			logger.WithError(err).Warn("Could not issue a login link")
			return
		}
		fmt.Printf("Login link token for onboarding mail: %s\n", token)
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
