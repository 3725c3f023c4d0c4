package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// GuestManagementService creates and updates guest rows and binds them
// to rooms. Every assignment runs in one transaction so the guest row,
// any displaced previous owner, and the room row move together.
type GuestManagementService struct {
	stores database.Stores
	cfg    *config.Config
	logger *logrus.Logger
}

// NewGuestManagementService creates a new GuestManagementService.
func NewGuestManagementService(stores database.Stores, cfg *config.Config, logger *logrus.Logger) *GuestManagementService {
	return &GuestManagementService{stores: stores, cfg: cfg, logger: logger}
}

// Assign places the record's holder in the given room, displacing
// prevOwner when set. The room is re-read inside the transaction; if a
// concurrent writer took it first, Assign returns ErrRoomClaimed.
//
// Returns the guest that ended up in the room, or nil when the call was
// a no-op (guest already there) or refused (guest holds another room).
func (s *GuestManagementService) Assign(record models.TicketRecord, credential string, room *models.Room, prevOwner *models.Guest) (*models.Guest, error) {
	var assigned *models.Guest

	err := s.stores.Transact(func(tx database.Stores) error {
		fresh, err := tx.Rooms().Get(room.Number, room.Hotel)
		if err != nil {
			return fmt.Errorf("room %s at %s vanished: %w", room.Number, room.Hotel, err)
		}

		guest, err := s.resolveGuest(tx, record, credential, fresh)
		if err != nil || guest == nil {
			return err
		}

		if fresh.GuestID != nil && *fresh.GuestID != guest.ID &&
			(prevOwner == nil || *fresh.GuestID != prevOwner.ID) {
			return fmt.Errorf("%w: room %s at %s", ErrRoomClaimed, fresh.Number, fresh.Hotel)
		}

		guest.AssignRoom(fresh)
		guest.CanLogin = s.cfg.VisibleHotel(fresh.Hotel)
		if err := tx.Guests().Save(guest); err != nil {
			return err
		}

		if prevOwner != nil {
			if err := s.displace(tx, prevOwner, fresh); err != nil {
				return err
			}
		}

		if fresh.SPTicketID == "" {
			fresh.SPTicketID = record.TicketCode
		} else if fresh.SPTicketID != record.TicketCode {
			s.logger.WithFields(logrus.Fields{
				"room":       fresh.Number,
				"was_ticket": fresh.SPTicketID,
				"now_ticket": record.TicketCode,
			}).Warn("Room ticket tag disagrees with assignment, updating")
			fresh.SPTicketID = record.TicketCode
		}

		fresh.GuestID = &guest.ID
		fresh.IsAvailable = false
		fresh.Primary = guest.Name
		if !fresh.IsPlaced {
			fresh.PlacedByAutomation = true
		}
		if err := tx.Rooms().Save(fresh); err != nil {
			return err
		}

		s.logger.WithFields(logrus.Fields{
			"guest":  guest.Name,
			"ticket": guest.Ticket,
			"room":   fresh.Number,
			"hotel":  fresh.Hotel,
		}).Info("Assigned room")

		assigned = guest
		return nil
	})

	return assigned, err
}

// resolveGuest finds or creates the guest row for the record. Returns
// nil with no error when the assignment should be skipped.
func (s *GuestManagementService) resolveGuest(tx database.Stores, record models.TicketRecord, credential string, room *models.Room) (*models.Guest, error) {
	existing, err := tx.Guests().ByTicketAndEmail(record.TicketCode, record.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.HasRoom() && *existing.RoomNumber == room.Number &&
			existing.Hotel != nil && *existing.Hotel == room.Hotel {
			s.logger.WithFields(logrus.Fields{
				"ticket": record.TicketCode,
				"room":   room.Number,
			}).Debug("Guest already holds this room")
			return nil, nil
		}
		if existing.HasRoom() {
			s.logger.WithFields(logrus.Fields{
				"ticket":       record.TicketCode,
				"held_room":    *existing.RoomNumber,
				"offered_room": room.Number,
			}).Warn("Guest already holds a different room, refusing reassignment")
			return nil, nil
		}
		return existing, nil
	}

	return &models.Guest{
		Name:     titleName(record.FullName()),
		Email:    record.Email,
		Ticket:   record.TicketCode,
		Transfer: record.TransferredFromCode,
		JWT:      credential,
	}, nil
}

// displace clears the previous owner's room pointer inside the same
// transaction that hands the room to the new guest.
func (s *GuestManagementService) displace(tx database.Stores, prevOwner *models.Guest, room *models.Room) error {
	displaced, err := tx.Guests().ByID(prevOwner.ID)
	if err != nil {
		return fmt.Errorf("displaced guest %s vanished: %w", prevOwner.ID, err)
	}

	if !displaced.HasRoom() || *displaced.RoomNumber != room.Number {
		s.logger.WithFields(logrus.Fields{
			"guest": displaced.Name,
			"room":  room.Number,
		}).Warn("Displaced guest does not point at the transferred room")
	}

	displaced.ClearRoom()
	displaced.CanLogin = false
	return tx.Guests().Save(displaced)
}
