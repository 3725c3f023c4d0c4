package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

func TestAssignCreatesGuestAndBindsRoom(t *testing.T) {
	m := newMemStores()
	room := m.addRoom(models.Room{Number: "101", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})

	svc := NewGuestManagementService(m, testConfig(), testLogger())

	record := models.TicketRecord{
		TicketCode: "T1",
		FirstName:  "sam",
		LastName:   "hain",
		Email:      "sam@example.com",
		Product:    queenProduct,
	}

	guest, err := svc.Assign(record, "HarborRaven42", &room, nil)
	require.NoError(t, err)
	require.NotNil(t, guest)

	assert.Equal(t, "Sam Hain", guest.Name)
	assert.Equal(t, "HarborRaven42", guest.JWT)
	require.NotNil(t, guest.RoomNumber)
	assert.Equal(t, "101", *guest.RoomNumber)
	assert.True(t, guest.CanLogin)

	saved := m.rooms[room.ID]
	require.NotNil(t, saved.GuestID)
	assert.Equal(t, guest.ID, *saved.GuestID)
	assert.False(t, saved.IsAvailable)
	assert.Equal(t, "T1", saved.SPTicketID)
	assert.Equal(t, "Sam Hain", saved.Primary)
	assert.True(t, saved.PlacedByAutomation)
}

func TestAssignNoLoginOutsideVisibleHotels(t *testing.T) {
	m := newMemStores()
	room := m.addRoom(models.Room{Number: "301", RoomType: "Standard King", Hotel: models.HotelNugget, IsAvailable: true})

	svc := NewGuestManagementService(m, testConfig(), testLogger())

	guest, err := svc.Assign(models.TicketRecord{TicketCode: "T1", FirstName: "Sam", LastName: "Hain", Email: "sam@example.com"}, "Pass", &room, nil)
	require.NoError(t, err)
	require.NotNil(t, guest)
	assert.False(t, guest.CanLogin)
}

func TestAssignIsIdempotent(t *testing.T) {
	m := newMemStores()
	room := m.addRoom(models.Room{Number: "101", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})

	svc := NewGuestManagementService(m, testConfig(), testLogger())
	record := models.TicketRecord{TicketCode: "T1", FirstName: "Sam", LastName: "Hain", Email: "sam@example.com"}

	first, err := svc.Assign(record, "Pass", &room, nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.Assign(record, "Pass", &room, nil)
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, m.guests, 1)
}

func TestAssignRefusesGuestWithDifferentRoom(t *testing.T) {
	m := newMemStores()
	m.addGuest(guestWithRoom("Sam Hain", "sam@example.com", "T1", "", "101", models.HotelBallys))
	other := m.addRoom(models.Room{Number: "102", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})

	svc := NewGuestManagementService(m, testConfig(), testLogger())
	record := models.TicketRecord{TicketCode: "T1", FirstName: "Sam", LastName: "Hain", Email: "sam@example.com"}

	guest, err := svc.Assign(record, "Pass", &other, nil)
	require.NoError(t, err)
	assert.Nil(t, guest)

	saved := m.rooms[other.ID]
	assert.Nil(t, saved.GuestID)
	assert.True(t, saved.IsAvailable)
}

func TestAssignDisplacesPreviousOwner(t *testing.T) {
	m := newMemStores()
	owner := m.addGuest(guestWithRoom("Old Owner", "old@example.com", "T1", "", "101", models.HotelBallys))
	room := m.addRoom(models.Room{
		Number: "101", RoomType: "Queen", Hotel: models.HotelBallys,
		SPTicketID: "T1", Primary: "Old Owner", GuestID: &owner.ID,
	})

	svc := NewGuestManagementService(m, testConfig(), testLogger())
	record := models.TicketRecord{
		TicketCode:          "T2",
		FirstName:           "New",
		LastName:            "Holder",
		Email:               "new@example.com",
		TransferredFromCode: "T1",
	}

	guest, err := svc.Assign(record, "Pass", &room, &owner)
	require.NoError(t, err)
	require.NotNil(t, guest)

	saved := m.rooms[room.ID]
	assert.Equal(t, guest.ID, *saved.GuestID)
	assert.Equal(t, "T2", saved.SPTicketID)
	assert.Equal(t, "New Holder", saved.Primary)

	displaced := m.guests[owner.ID]
	assert.Nil(t, displaced.RoomNumber)
	assert.False(t, displaced.CanLogin)
}

func TestAssignClaimedRoom(t *testing.T) {
	m := newMemStores()
	squatter := m.addGuest(models.Guest{Name: "Squatter", Ticket: "T9", Email: "squat@example.com"})
	room := m.addRoom(models.Room{Number: "101", RoomType: "Queen", Hotel: models.HotelBallys, GuestID: &squatter.ID})

	svc := NewGuestManagementService(m, testConfig(), testLogger())
	record := models.TicketRecord{TicketCode: "T1", FirstName: "Sam", LastName: "Hain", Email: "sam@example.com"}

	_, err := svc.Assign(record, "Pass", &room, nil)
	assert.ErrorIs(t, err, ErrRoomClaimed)
}
