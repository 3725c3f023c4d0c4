package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// ChainFix describes the repairs needed to bring one transfer chain back
// to its invariant: only the tail holds a room, and exactly one room
// points back at the chain.
type ChainFix struct {
	Chain []models.Guest
	Tail  models.Guest

	// Room is the room the tail should end up with. Nil when more than
	// one candidate survived the tie-break and the operator must choose
	// from Candidates.
	Room       *models.Room
	Candidates []models.Room

	// Intermediates are chain members whose room pointers get cleared.
	Intermediates []models.Guest

	// ExtraRooms are candidate rooms not chosen; released on apply.
	ExtraRooms []models.Room
}

// NeedsChoice reports whether the operator must pick the surviving room.
func (f *ChainFix) NeedsChoice() bool {
	return f.Room == nil && len(f.Candidates) > 1
}

// Choose selects the surviving room from Candidates.
func (f *ChainFix) Choose(index int) error {
	if index < 0 || index >= len(f.Candidates) {
		return fmt.Errorf("room choice %d out of range", index)
	}

	chosen := f.Candidates[index]
	f.Room = &chosen
	f.ExtraRooms = nil
	for i, room := range f.Candidates {
		if i != index {
			f.ExtraRooms = append(f.ExtraRooms, room)
		}
	}
	return nil
}

// ChainFixerService repairs corrupted transfer chains, where transfers
// processed out of order left rooms attached to intermediate holders.
type ChainFixerService struct {
	stores database.Stores
	cfg    *config.Config
	logger *logrus.Logger
	chains *TransferChainService
}

// NewChainFixerService creates a new ChainFixerService.
func NewChainFixerService(stores database.Stores, cfg *config.Config, logger *logrus.Logger, chains *TransferChainService) *ChainFixerService {
	return &ChainFixerService{stores: stores, cfg: cfg, logger: logger, chains: chains}
}

// Propose resolves the chain containing ticket and computes the fix.
// Nothing is written; Apply commits the result.
func (s *ChainFixerService) Propose(ticket string) (*ChainFix, error) {
	chain, _, tail, err := s.chains.FullChain(ticket)
	if err != nil {
		return nil, err
	}

	fix := &ChainFix{Chain: chain, Tail: *tail}

	candidates, firstSeen, err := s.collectRooms(chain)
	if err != nil {
		return nil, err
	}
	fix.Candidates = candidates

	for _, guest := range chain[:len(chain)-1] {
		fix.Intermediates = append(fix.Intermediates, guest)
	}

	switch len(candidates) {
	case 0:
		// Chain never got a room; nothing to pick, intermediates may
		// still carry stale pointers worth clearing.
	case 1:
		fix.Room = &candidates[0]
	default:
		s.pickRoom(fix, firstSeen)
	}

	return fix, nil
}

// collectRooms gathers every room any chain member is linked to, through
// the room's guest link, its ticket tag, or the guest's own room
// pointer. firstSeen records the earliest chain position referencing
// each room, head first.
func (s *ChainFixerService) collectRooms(chain []models.Guest) ([]models.Room, map[string]int, error) {
	seen := make(map[string]int)
	var rooms []models.Room

	add := func(room models.Room, position int) {
		if prev, ok := seen[room.ID]; ok {
			if position < prev {
				seen[room.ID] = position
			}
			return
		}
		seen[room.ID] = position
		rooms = append(rooms, room)
	}

	for i, guest := range chain {
		linked, err := s.stores.Rooms().ByGuest(guest.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, room := range linked {
			add(room, i)
		}

		tagged, err := s.stores.Rooms().BySPTicket(guest.Ticket)
		if err != nil {
			return nil, nil, err
		}
		for _, room := range tagged {
			add(room, i)
		}

		if guest.HasRoom() {
			room, err := s.stores.Rooms().Get(*guest.RoomNumber, *guest.Hotel)
			if errors.Is(err, database.ErrNotFound) {
				s.logger.WithFields(logrus.Fields{
					"guest": guest.Name,
					"room":  *guest.RoomNumber,
				}).Warn("Guest points at a room that does not exist")
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			add(*room, i)
		}
	}

	firstSeen := make(map[string]int, len(seen))
	for id, pos := range seen {
		firstSeen[id] = pos
	}
	return rooms, firstSeen, nil
}

// pickRoom applies the tie-break: a manually placed room wins, then the
// room referenced earliest in the chain; anything still tied goes to the
// operator.
func (s *ChainFixerService) pickRoom(fix *ChainFix, firstSeen map[string]int) {
	var placed []models.Room
	for _, room := range fix.Candidates {
		if room.IsPlaced {
			placed = append(placed, room)
		}
	}
	if len(placed) == 1 {
		fix.Room = &placed[0]
		for _, room := range fix.Candidates {
			if room.ID != placed[0].ID {
				fix.ExtraRooms = append(fix.ExtraRooms, room)
			}
		}
		return
	}

	best := -1
	bestPos := 0
	unique := false
	for i, room := range fix.Candidates {
		pos := firstSeen[room.ID]
		if best == -1 || pos < bestPos {
			best, bestPos, unique = i, pos, true
		} else if pos == bestPos {
			unique = false
		}
	}

	if unique {
		chosen := fix.Candidates[best]
		fix.Room = &chosen
		for i, room := range fix.Candidates {
			if i != best {
				fix.ExtraRooms = append(fix.ExtraRooms, room)
			}
		}
	}
}

// Apply commits a fix: the tail takes the surviving room, intermediates
// lose their pointers, and extra rooms are released back to inventory.
func (s *ChainFixerService) Apply(fix *ChainFix) error {
	if fix.NeedsChoice() {
		return fmt.Errorf("fix for ticket %s needs a room choice before applying", fix.Tail.Ticket)
	}

	return s.stores.Transact(func(tx database.Stores) error {
		for i := range fix.Intermediates {
			guest, err := tx.Guests().ByID(fix.Intermediates[i].ID)
			if err != nil {
				return err
			}
			guest.ClearRoom()
			guest.CanLogin = false
			if err := tx.Guests().Save(guest); err != nil {
				return err
			}
		}

		tail, err := tx.Guests().ByID(fix.Tail.ID)
		if err != nil {
			return err
		}

		if fix.Room != nil {
			room, err := tx.Rooms().Get(fix.Room.Number, fix.Room.Hotel)
			if err != nil {
				return err
			}

			tail.AssignRoom(room)
			tail.CanLogin = s.cfg.VisibleHotel(room.Hotel)

			room.GuestID = &tail.ID
			room.SPTicketID = tail.Ticket
			room.IsAvailable = false
			room.Primary = tail.Name
			room.Secondary = ""
			if err := tx.Rooms().Save(room); err != nil {
				return err
			}
		} else {
			tail.ClearRoom()
			tail.CanLogin = false
		}

		if err := tx.Guests().Save(tail); err != nil {
			return err
		}

		for i := range fix.ExtraRooms {
			room, err := tx.Rooms().Get(fix.ExtraRooms[i].Number, fix.ExtraRooms[i].Hotel)
			if err != nil {
				return err
			}
			room.Release()
			if err := tx.Rooms().Save(room); err != nil {
				return err
			}
		}

		s.logger.WithFields(logrus.Fields{
			"tail":  fix.Tail.Ticket,
			"chain": len(fix.Chain),
		}).Info("Repaired transfer chain")
		return nil
	})
}
