package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// RoomAllocatorService picks rooms for guests. Selection within a room
// type is uniformly random so early buyers do not cluster on one floor.
type RoomAllocatorService struct {
	stores database.Stores
	logger *logrus.Logger
}

// NewRoomAllocatorService creates a new RoomAllocatorService.
func NewRoomAllocatorService(stores database.Stores, logger *logrus.Logger) *RoomAllocatorService {
	return &RoomAllocatorService{stores: stores, logger: logger}
}

// FindRoom picks an available room for the given product. Returns nil
// with no error when the room type is sold out. A product that cannot be
// mapped to a room type is a hard error.
func (s *RoomAllocatorService) FindRoom(product string) (*models.Room, error) {
	code, err := models.ShortProductCode(product)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate a room: %w", err)
	}
	hotel := models.RoomProducts[code].Hotel

	rooms, err := s.stores.Rooms().AvailableByType(code, hotel)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, nil
	}

	room := rooms[rand.Intn(len(rooms))]
	s.logger.WithFields(logrus.Fields{
		"room":      room.Number,
		"hotel":     room.Hotel,
		"room_type": code,
		"remaining": len(rooms) - 1,
	}).Debug("Selected room")

	return &room, nil
}

// PrePlaced returns the room manually tagged with the given ticket code
// but not yet linked to a guest. Returns nil when none exists.
func (s *RoomAllocatorService) PrePlaced(ticket string) (*models.Room, error) {
	room, err := s.stores.Rooms().PlacedByTicket(ticket)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if errors.Is(err, database.ErrMultipleFound) {
		return nil, fmt.Errorf("multiple pre-placed rooms carry ticket %s", ticket)
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}
