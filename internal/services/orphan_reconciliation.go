package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/pkg/fuzzy"
	"github.com/roomsvc/reservations-backend/pkg/passphrase"
)

// OrphanReconciliationService re-links rooms that look occupied but have
// no guest row attached. These arise from spreadsheet placements made
// before the guest bought a ticket and from rows cleared by hand.
//
// Strict no-guess policy: a room is only reattached when the evidence
// identifies exactly one person; everything weaker is logged for staff.
type OrphanReconciliationService struct {
	stores  database.Stores
	cfg     *config.Config
	logger  *logrus.Logger
	chains  *TransferChainService
	manager *GuestManagementService
}

// NewOrphanReconciliationService creates a new OrphanReconciliationService.
func NewOrphanReconciliationService(
	stores database.Stores,
	cfg *config.Config,
	logger *logrus.Logger,
	chains *TransferChainService,
	manager *GuestManagementService,
) *OrphanReconciliationService {
	return &OrphanReconciliationService{
		stores:  stores,
		cfg:     cfg,
		logger:  logger,
		chains:  chains,
		manager: manager,
	}
}

// Reconcile tries to attach a guest to every orphan room, working down a
// ladder of increasingly indirect evidence. Returns the ticket codes it
// consumed, so the processing pass can skip them.
func (s *OrphanReconciliationService) Reconcile(records []models.TicketRecord, counts *RoomCounts) ([]string, error) {
	orphans, err := s.stores.Rooms().Orphans()
	if err != nil {
		return nil, err
	}
	if len(orphans) == 0 {
		return nil, nil
	}

	s.logger.WithField("count", len(orphans)).Info("Reconciling orphan rooms")

	var consumed []string
	for i := range orphans {
		room := &orphans[i]
		log := s.logger.WithFields(logrus.Fields{
			"room":   room.Number,
			"hotel":  room.Hotel,
			"ticket": room.SPTicketID,
		})

		done, ticket, err := s.byTicket(room, counts, log)
		if err != nil {
			return nil, err
		}
		if done {
			if ticket != "" {
				consumed = append(consumed, ticket)
			}
			continue
		}

		done, ticket, err = s.byRoomPointer(room, counts, log)
		if err != nil {
			return nil, err
		}
		if done {
			if ticket != "" {
				consumed = append(consumed, ticket)
			}
			continue
		}

		done, ticket, err = s.byBatchRecord(room, records, counts, log)
		if err != nil {
			return nil, err
		}
		if done {
			consumed = append(consumed, ticket)
			continue
		}

		s.logFuzzyCandidates(room, log)
	}

	return consumed, nil
}

// byTicket attaches the existing guest who holds the room's ticket code,
// provided their name agrees with the room's contact.
func (s *OrphanReconciliationService) byTicket(room *models.Room, counts *RoomCounts, log *logrus.Entry) (bool, string, error) {
	guest, err := s.stores.Guests().ByTicket(room.SPTicketID)
	if errors.Is(err, database.ErrNotFound) {
		return false, "", nil
	}
	if errors.Is(err, database.ErrMultipleFound) {
		log.Warn("Multiple guests hold this room's ticket, leaving orphan for staff")
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}

	if guest.HasRoom() {
		log.WithField("guest", guest.Name).Warn("Ticket holder already has a room, leaving orphan for staff")
		return true, "", nil
	}

	if room.Primary != "" {
		if ratio := fuzzy.Ratio(guest.Name, room.Primary); ratio < s.cfg.NameFuzzFactor {
			log.WithFields(logrus.Fields{
				"guest":   guest.Name,
				"contact": room.Primary,
				"ratio":   ratio,
			}).Warn("Ticket holder's name disagrees with the room contact, leaving orphan for staff")
			return true, "", nil
		}
	}

	if err := s.attach(room, guest); err != nil {
		return false, "", err
	}
	counts.Orphan(room.RoomType)
	log.WithField("guest", guest.Name).Info("Reattached orphan room by ticket code")
	return true, room.SPTicketID, nil
}

// byRoomPointer attaches the guest whose denormalized room pointer names
// this room, provided their name agrees with the room's contact.
func (s *OrphanReconciliationService) byRoomPointer(room *models.Room, counts *RoomCounts, log *logrus.Entry) (bool, string, error) {
	guest, err := s.stores.Guests().ByRoom(room.Number, room.Hotel)
	if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrMultipleFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}

	ratio := fuzzy.Ratio(guest.Name, room.Primary)
	if ratio < s.cfg.NameFuzzFactor {
		log.WithFields(logrus.Fields{
			"guest":   guest.Name,
			"contact": room.Primary,
			"ratio":   ratio,
		}).Warn("Guest points at orphan room but names disagree, skipping")
		return false, "", nil
	}

	if err := s.attach(room, guest); err != nil {
		return false, "", err
	}
	counts.Orphan(room.RoomType)
	log.WithField("guest", guest.Name).Info("Reattached orphan room by guest room pointer")
	return true, room.SPTicketID, nil
}

// byBatchRecord builds a brand-new guest from the ingestion batch record
// holding this room's ticket code.
func (s *OrphanReconciliationService) byBatchRecord(room *models.Room, records []models.TicketRecord, counts *RoomCounts, log *logrus.Entry) (bool, string, error) {
	var match *models.TicketRecord
	for i := range records {
		if records[i].TicketCode == room.SPTicketID {
			match = &records[i]
			break
		}
	}
	if match == nil {
		return false, "", nil
	}

	credential := passphrase.New()
	if match.Email != "" {
		entries, err := s.stores.Guests().ByEmail(match.Email)
		if err != nil {
			return false, "", err
		}
		if len(entries) > 0 {
			credential = entries[0].JWT
		}
	}

	guest, err := s.manager.Assign(*match, credential, room, nil)
	if err != nil {
		return false, "", err
	}
	if guest == nil {
		return false, "", nil
	}

	counts.Orphan(room.RoomType)
	log.WithField("guest", guest.Name).Info("Reattached orphan room from ingestion batch")

	if match.IsTransfer() {
		if err := createChainStubs(s.stores, s.chains, s.logger, *match, records); err != nil {
			return false, "", err
		}
	}
	return true, match.TicketCode, nil
}

// logFuzzyCandidates surfaces near-matches for staff without attaching
// anything. Guessing a room owner wrong is worse than leaving it orphan.
func (s *OrphanReconciliationService) logFuzzyCandidates(room *models.Room, log *logrus.Entry) {
	guests, err := s.stores.Guests().All()
	if err != nil {
		log.WithError(err).Warn("Could not scan guests for fuzzy candidates")
		return
	}

	for _, guest := range guests {
		if guest.HasRoom() {
			continue
		}
		if ratio := fuzzy.Ratio(guest.Name, room.Primary); ratio >= s.cfg.NameFuzzFactor {
			log.WithFields(logrus.Fields{
				"candidate": guest.Name,
				"ticket":    guest.Ticket,
				"ratio":     ratio,
			}).Info("Possible owner for orphan room, not attaching")
		}
	}

	log.Warn("Orphan room not reconciled")
}

// attach links guest and room in one transaction.
func (s *OrphanReconciliationService) attach(room *models.Room, guest *models.Guest) error {
	return s.stores.Transact(func(tx database.Stores) error {
		guest.AssignRoom(room)
		guest.CanLogin = s.cfg.VisibleHotel(room.Hotel)
		if err := tx.Guests().Save(guest); err != nil {
			return err
		}

		room.GuestID = &guest.ID
		room.IsAvailable = false
		if room.Primary == "" {
			room.Primary = guest.Name
		}
		return tx.Rooms().Save(room)
	})
}
