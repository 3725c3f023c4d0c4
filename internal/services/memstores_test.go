package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// memStores is an in-memory database.Stores used across service tests.
type memStores struct {
	guests map[string]models.Guest
	rooms  map[string]models.Room
	swaps  []models.Swap
	nextID int
}

func newMemStores() *memStores {
	return &memStores{
		guests: make(map[string]models.Guest),
		rooms:  make(map[string]models.Room),
	}
}

func (m *memStores) Guests() database.GuestStore { return &memGuests{m} }
func (m *memStores) Rooms() database.RoomStore   { return &memRooms{m} }
func (m *memStores) Swaps() database.SwapStore   { return &memSwaps{m} }

func (m *memStores) Transact(fn func(database.Stores) error) error { return fn(m) }

func (m *memStores) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStores) addGuest(g models.Guest) models.Guest {
	if g.ID == "" {
		g.ID = m.id("guest")
	}
	m.guests[g.ID] = g
	return g
}

func (m *memStores) addRoom(r models.Room) models.Room {
	if r.ID == "" {
		r.ID = m.id("room")
	}
	m.rooms[r.ID] = r
	return r
}

type memGuests struct{ m *memStores }

func (s *memGuests) ByID(id string) (*models.Guest, error) {
	g, ok := s.m.guests[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &g, nil
}

func (s *memGuests) ByTicket(ticket string) (*models.Guest, error) {
	return s.one(func(g models.Guest) bool { return g.Ticket == ticket })
}

func (s *memGuests) ByTicketAndEmail(ticket, email string) (*models.Guest, error) {
	return s.one(func(g models.Guest) bool { return g.Ticket == ticket && g.Email == email })
}

func (s *memGuests) ByEmail(email string) ([]models.Guest, error) {
	var out []models.Guest
	for _, g := range s.m.guests {
		if g.Email == email {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memGuests) ByRoom(number, hotel string) (*models.Guest, error) {
	return s.one(func(g models.Guest) bool {
		return g.RoomNumber != nil && *g.RoomNumber == number && g.Hotel != nil && *g.Hotel == hotel
	})
}

func (s *memGuests) ByTransfer(ticket string) (*models.Guest, error) {
	return s.one(func(g models.Guest) bool { return g.Transfer == ticket })
}

func (s *memGuests) TransferredTickets() (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, g := range s.m.guests {
		if g.Transfer != "" {
			set[g.Transfer] = struct{}{}
		}
	}
	return set, nil
}

func (s *memGuests) All() ([]models.Guest, error) {
	var out []models.Guest
	for _, g := range s.m.guests {
		out = append(out, g)
	}
	return out, nil
}

func (s *memGuests) Save(guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = s.m.id("guest")
	}
	s.m.guests[guest.ID] = *guest
	return nil
}

func (s *memGuests) one(match func(models.Guest) bool) (*models.Guest, error) {
	var found []models.Guest
	for _, g := range s.m.guests {
		if match(g) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return nil, database.ErrNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, database.ErrMultipleFound
	}
}

type memRooms struct{ m *memStores }

func (s *memRooms) Get(number, hotel string) (*models.Room, error) {
	return s.one(func(r models.Room) bool { return r.Number == number && r.Hotel == hotel })
}

func (s *memRooms) AvailableByType(roomType, hotel string) ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.m.rooms {
		if r.IsAvailable && !r.IsSpecial && r.RoomType == roomType && r.Hotel == hotel {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRooms) PlacedByTicket(ticket string) (*models.Room, error) {
	return s.one(func(r models.Room) bool { return r.SPTicketID == ticket && r.GuestID == nil })
}

func (s *memRooms) ByGuest(guestID string) ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.m.rooms {
		if r.GuestID != nil && *r.GuestID == guestID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRooms) BySPTicket(ticket string) ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.m.rooms {
		if r.SPTicketID == ticket {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRooms) Orphans() ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.m.rooms {
		if r.GuestID == nil && !r.IsAvailable && r.Primary != "" && r.SPTicketID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRooms) All() ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.m.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *memRooms) CountAvailable(roomType string) (int, error) {
	count := 0
	for _, r := range s.m.rooms {
		if r.RoomType == roomType && r.IsAvailable {
			count++
		}
	}
	return count, nil
}

func (s *memRooms) Save(room *models.Room) error {
	if room.ID == "" {
		room.ID = s.m.id("room")
	}
	s.m.rooms[room.ID] = *room
	return nil
}

func (s *memRooms) one(match func(models.Room) bool) (*models.Room, error) {
	var found []models.Room
	for _, r := range s.m.rooms {
		if match(r) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return nil, database.ErrNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, database.ErrMultipleFound
	}
}

type memSwaps struct{ m *memStores }

func (s *memSwaps) Create(swap *models.Swap) error {
	if swap.ID == "" {
		swap.ID = s.m.id("swap")
	}
	s.m.swaps = append(s.m.swaps, *swap)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		GuestHotels:    []string{models.HotelBallys, models.HotelNugget},
		VisibleHotels:  []string{models.HotelBallys},
		NameFuzzFactor: 88,
	}
}

func strPtr(s string) *string { return &s }

func guestWithRoom(name, email, ticket, transfer, number, hotel string) models.Guest {
	return models.Guest{
		Name:       name,
		Email:      email,
		Ticket:     ticket,
		Transfer:   transfer,
		JWT:        strings.ReplaceAll(name, " ", "") + "Pass",
		RoomNumber: strPtr(number),
		Hotel:      strPtr(hotel),
		CanLogin:   hotel == models.HotelBallys,
	}
}
