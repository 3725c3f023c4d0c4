package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/pkg/passphrase"
)

// GuestProcessingService orchestrates one ingestion run: for each valid
// ticket record it decides whether the record is a fresh purchase, a
// transfer, or already handled, and drives allocation accordingly.
type GuestProcessingService struct {
	stores    database.Stores
	cfg       *config.Config
	logger    *logrus.Logger
	chains    *TransferChainService
	allocator *RoomAllocatorService
	manager   *GuestManagementService
}

// NewGuestProcessingService creates a new GuestProcessingService.
func NewGuestProcessingService(
	stores database.Stores,
	cfg *config.Config,
	logger *logrus.Logger,
	chains *TransferChainService,
	allocator *RoomAllocatorService,
	manager *GuestManagementService,
) *GuestProcessingService {
	return &GuestProcessingService{
		stores:    stores,
		cfg:       cfg,
		logger:    logger,
		chains:    chains,
		allocator: allocator,
		manager:   manager,
	}
}

// ProcessRecords walks a batch of validated records. orphanTickets names
// tickets already consumed by orphan reconciliation this run; they are
// skipped here.
func (s *GuestProcessingService) ProcessRecords(records []models.TicketRecord, counts *RoomCounts, orphanTickets map[string]struct{}) error {
	// Tickets transferred away, either inside this batch or in a
	// previous run, must never receive a room of their own.
	transferredAway := make(map[string]struct{})
	for _, r := range records {
		if r.TransferredFromCode != "" {
			transferredAway[r.TransferredFromCode] = struct{}{}
		}
	}

	dbTransferred, err := s.stores.Guests().TransferredTickets()
	if err != nil {
		return err
	}

	for _, record := range records {
		log := s.logger.WithField("ticket", record.TicketCode)

		if _, ok := transferredAway[record.TicketCode]; ok {
			log.Debug("Ticket was transferred away in this batch, skipping")
			continue
		}
		if _, ok := dbTransferred[record.TicketCode]; ok {
			log.Debug("Ticket was transferred away previously, skipping")
			continue
		}
		if _, ok := orphanTickets[record.TicketCode]; ok {
			log.Debug("Ticket consumed by orphan reconciliation, skipping")
			continue
		}

		code, err := models.ShortProductCode(record.Product)
		if err != nil {
			log.WithError(err).Warn("Record slipped past validation with an unknown product, skipping")
			continue
		}

		if record.IsTransfer() {
			err = s.processTransfer(record, records, code, counts)
		} else {
			err = s.processNew(record, code, counts)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// processNew handles a record with no transfer history: pre-placed room
// first, then random allocation.
func (s *GuestProcessingService) processNew(record models.TicketRecord, code string, counts *RoomCounts) error {
	credential, duplicate, err := s.credentialFor(record)
	if err != nil {
		return err
	}
	if duplicate {
		s.logger.WithField("ticket", record.TicketCode).Debug("Ticket already on this email, skipping")
		return nil
	}

	room, err := s.allocator.PrePlaced(record.TicketCode)
	if err != nil {
		return err
	}
	if room == nil {
		if room, err = s.allocator.FindRoom(record.Product); err != nil {
			return err
		}
	}
	if room == nil {
		counts.Shortage(code)
		s.logger.WithFields(logrus.Fields{
			"ticket":    record.TicketCode,
			"room_type": code,
		}).Warn("No room available")
		return nil
	}

	guest, err := s.manager.Assign(record, credential, room, nil)
	if errors.Is(err, ErrRoomClaimed) {
		counts.Shortage(code)
		s.logger.WithField("ticket", record.TicketCode).Warn("Selected room was claimed concurrently")
		return nil
	}
	if err != nil {
		return err
	}
	if guest != nil {
		counts.Allocated(code)
	}
	return nil
}

// processTransfer resolves the record's transfer chain and either moves
// the current owner's room to the new holder or, when no ancestor ever
// got a room, allocates one fresh.
func (s *GuestProcessingService) processTransfer(record models.TicketRecord, batch []models.TicketRecord, code string, counts *RoomCounts) error {
	credential, duplicate, err := s.credentialFor(record)
	if err != nil {
		return err
	}
	if duplicate {
		s.logger.WithField("ticket", record.TicketCode).Debug("Ticket already on this email, skipping")
		return nil
	}

	owner, err := s.findRoomedAncestor(record, batch)
	if err != nil {
		return err
	}

	if owner != nil {
		room, err := s.stores.Rooms().Get(*owner.RoomNumber, *owner.Hotel)
		if err != nil {
			return err
		}

		guest, err := s.manager.Assign(record, credential, room, owner)
		if err != nil {
			return err
		}
		if guest != nil {
			counts.Transfer(code)
			s.logger.WithFields(logrus.Fields{
				"ticket": record.TicketCode,
				"from":   owner.Ticket,
				"room":   room.Number,
			}).Info("Transferred room to new holder")
		}
		return createChainStubs(s.stores, s.chains, s.logger, record, batch)
	}

	// Nobody upstream ever got a room; allocate as if new.
	room, err := s.allocator.PrePlaced(record.TicketCode)
	if err != nil {
		return err
	}
	if room == nil {
		if room, err = s.allocator.FindRoom(record.Product); err != nil {
			return err
		}
	}
	if room == nil {
		counts.Shortage(code)
		s.logger.WithFields(logrus.Fields{
			"ticket":    record.TicketCode,
			"room_type": code,
		}).Warn("No room available for transferred ticket")
		return nil
	}

	guest, err := s.manager.Assign(record, credential, room, nil)
	if errors.Is(err, ErrRoomClaimed) {
		counts.Shortage(code)
		return nil
	}
	if err != nil {
		return err
	}
	if guest != nil {
		counts.Allocated(code)
		counts.Transfer(code)
	}
	return createChainStubs(s.stores, s.chains, s.logger, record, batch)
}

// findRoomedAncestor walks the record's transfer chain backward through
// both the database and the current batch, returning the first ancestor
// guest who holds a room.
func (s *GuestProcessingService) findRoomedAncestor(record models.TicketRecord, batch []models.TicketRecord) (*models.Guest, error) {
	byCode := make(map[string]models.TicketRecord, len(batch))
	for _, r := range batch {
		byCode[r.TicketCode] = r
	}

	ticket := record.TransferredFromCode
	visited := map[string]struct{}{record.TicketCode: {}}

	for ticket != "" {
		if _, seen := visited[ticket]; seen {
			s.logger.WithField("ticket", ticket).Warn("Transfer chain cycle while resolving ancestor, stopping")
			return nil, nil
		}
		visited[ticket] = struct{}{}

		guest, err := s.stores.Guests().ByTicket(ticket)
		if err == nil {
			if guest.HasRoom() {
				return guest, nil
			}
			ticket = guest.Transfer
			continue
		}
		if !errors.Is(err, database.ErrNotFound) && !errors.Is(err, database.ErrMultipleFound) {
			return nil, err
		}

		rec, ok := byCode[ticket]
		if !ok {
			return nil, nil
		}
		ticket = rec.TransferredFromCode
	}

	return nil, nil
}

// credentialFor returns the login credential for the record's holder,
// reusing the one already issued to their email when present. duplicate
// is true when this exact ticket already exists on that email.
func (s *GuestProcessingService) credentialFor(record models.TicketRecord) (credential string, duplicate bool, err error) {
	if record.Email == "" {
		return passphrase.New(), false, nil
	}

	entries, err := s.stores.Guests().ByEmail(record.Email)
	if err != nil {
		return "", false, err
	}

	for _, e := range entries {
		if e.Ticket == record.TicketCode {
			return "", true, nil
		}
	}

	if len(entries) > 0 {
		return entries[0].JWT, false, nil
	}
	return passphrase.New(), false, nil
}
