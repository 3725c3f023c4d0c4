package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
	"github.com/roomsvc/reservations-backend/pkg/passphrase"
)

// GuestFixerService handles one-off repairs for individual guests who
// fell through ingestion: stuck without a room, or holding a room on a
// ticket the ticket source has since refunded.
type GuestFixerService struct {
	stores    database.Stores
	cfg       *config.Config
	logger    *logrus.Logger
	exporter  TicketExporter
	allocator *RoomAllocatorService
	manager   *GuestManagementService
}

// NewGuestFixerService creates a new GuestFixerService.
func NewGuestFixerService(
	stores database.Stores,
	cfg *config.Config,
	logger *logrus.Logger,
	exporter TicketExporter,
	allocator *RoomAllocatorService,
	manager *GuestManagementService,
) *GuestFixerService {
	return &GuestFixerService{
		stores:    stores,
		cfg:       cfg,
		logger:    logger,
		exporter:  exporter,
		allocator: allocator,
		manager:   manager,
	}
}

// Lookup finds the guest to repair by ticket code or email. An email
// shared across several guest rows is ambiguous and must be narrowed to
// a ticket.
func (s *GuestFixerService) Lookup(search string, byTicket bool) (*models.Guest, error) {
	if byTicket {
		guest, err := s.stores.Guests().ByTicket(search)
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("no guest holds ticket %s", search)
		}
		if errors.Is(err, database.ErrMultipleFound) {
			return nil, fmt.Errorf("multiple guests hold ticket %s, fix that first", search)
		}
		return guest, err
	}

	guests, err := s.stores.Guests().ByEmail(search)
	if err != nil {
		return nil, err
	}
	switch len(guests) {
	case 0:
		return nil, fmt.Errorf("no guest has email %s", search)
	case 1:
		return &guests[0], nil
	default:
		return nil, fmt.Errorf("%d guests share email %s, use a ticket code", len(guests), search)
	}
}

// SourceRecord fetches the guest's ticket record from the ticket source.
func (s *GuestFixerService) SourceRecord(ticket string, forceRefresh bool) (*models.TicketRecord, error) {
	records, err := s.exporter.ExportTickets(ticketsource.ExportOptions{
		Order:        "created_at",
		ForceRefresh: forceRefresh,
	})
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].TicketCode == ticket {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("ticket %s not in the ticket source export", ticket)
}

// IsRefunded reports whether the record's ticket was refunded.
func (s *GuestFixerService) IsRefunded(record *models.TicketRecord) bool {
	return strings.EqualFold(record.Status, "refunded")
}

// UnassignRefunded releases every room the guest holds and revokes
// their login. Used when the ticket backing the room was refunded.
func (s *GuestFixerService) UnassignRefunded(guest *models.Guest) error {
	return s.stores.Transact(func(tx database.Stores) error {
		rooms, err := tx.Rooms().ByGuest(guest.ID)
		if err != nil {
			return err
		}

		for i := range rooms {
			rooms[i].Release()
			if err := tx.Rooms().Save(&rooms[i]); err != nil {
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"room":  rooms[i].Number,
				"guest": guest.Name,
			}).Info("Released room held on refunded ticket")
		}

		guest.ClearRoom()
		guest.CanLogin = false
		return tx.Guests().Save(guest)
	})
}

// CheckEligible verifies the guest can receive a room: they must not
// already hold one and must not be an intermediate chain link.
func (s *GuestFixerService) CheckEligible(guest *models.Guest) error {
	rooms, err := s.stores.Rooms().ByGuest(guest.ID)
	if err != nil {
		return err
	}
	if len(rooms) > 0 || guest.HasRoom() {
		return fmt.Errorf("guest %s already holds a room", guest.Name)
	}

	_, err = s.stores.Guests().ByTransfer(guest.Ticket)
	if err == nil || errors.Is(err, database.ErrMultipleFound) {
		return fmt.Errorf("ticket %s was transferred away, the current holder gets the room", guest.Ticket)
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return nil
}

// Propose picks the room the guest should get, pre-placed first.
func (s *GuestFixerService) Propose(record *models.TicketRecord) (*models.Room, error) {
	room, err := s.allocator.PrePlaced(record.TicketCode)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	room, err = s.allocator.FindRoom(record.Product)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("no room available for product %q", record.Product)
	}
	return room, nil
}

// Apply assigns the room, reusing the guest's existing credential when
// they have one.
func (s *GuestFixerService) Apply(guest *models.Guest, record *models.TicketRecord, room *models.Room) error {
	credential := guest.JWT
	if credential == "" {
		credential = passphrase.New()
	}

	assigned, err := s.manager.Assign(*record, credential, room, nil)
	if err != nil {
		return err
	}
	if assigned == nil {
		return fmt.Errorf("assignment for ticket %s was refused", record.TicketCode)
	}
	return nil
}
