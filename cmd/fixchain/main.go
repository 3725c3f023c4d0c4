package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/services"
)

func main() {
	ticket := flag.String("ticket", "", "Any ticket code on the chain to repair")
	yes := flag.Bool("yes", false, "Apply without asking for confirmation")
	flag.Parse()

	if *ticket == "" {
		log.Fatal("--ticket is required")
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
	chains := services.NewTransferChainService(store, logger)
	fixer := services.NewChainFixerService(store, cfg, logger, chains)

	fix, err := fixer.Propose(*ticket)
	if err != nil {
		logger.WithError(err).Fatal("Could not resolve the transfer chain")
	}

	fmt.Printf("Chain (%d links, head first):\n", len(fix.Chain))
	for _, guest := range fix.Chain {
		marker := " "
		if guest.HasRoom() {
			marker = "*"
		}
		fmt.Printf("  %s %s  %s <%s>\n", marker, guest.Ticket, guest.Name, guest.Email)
	}

	reader := bufio.NewReader(os.Stdin)

	if fix.NeedsChoice() {
		fmt.Println("Multiple rooms are attached to this chain:")
		for i, room := range fix.Candidates {
			fmt.Printf("  [%d] room %s at %s (%s)\n", i, room.Number, room.Hotel, room.RoomType)
		}
		fmt.Print("Which room should the tail keep? ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read choice: %v", err)
		}
		index, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			log.Fatalf("Not a number: %v", err)
		}
		if err := fix.Choose(index); err != nil {
			log.Fatalf("Bad choice: %v", err)
		}
	}

	if fix.Room != nil {
		fmt.Printf("Plan: %s (%s) keeps room %s at %s\n", fix.Tail.Name, fix.Tail.Ticket, fix.Room.Number, fix.Room.Hotel)
	} else {
		fmt.Printf("Plan: no room on this chain, clearing stale pointers only\n")
	}
	for _, guest := range fix.Intermediates {
		if guest.HasRoom() {
			fmt.Printf("  clear room pointer on %s (%s)\n", guest.Name, guest.Ticket)
		}
	}
	for _, room := range fix.ExtraRooms {
		fmt.Printf("  release room %s at %s\n", room.Number, room.Hotel)
	}

	if !*yes {
		fmt.Print("Apply? [y/n] ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read confirmation: %v", err)
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return
		}
	}

	if err := fixer.Apply(fix); err != nil {
		logger.WithError(err).Fatal("Failed to apply fix")
	}
	fmt.Println("Chain repaired")
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
