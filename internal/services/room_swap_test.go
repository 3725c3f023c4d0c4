package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

func swapFixture(t *testing.T) (*memStores, *RoomSwapService, models.Guest, models.Guest, models.Room, models.Room) {
	t.Helper()

	m := newMemStores()
	one := m.addGuest(guestWithRoom("Alice Able", "alice@example.com", "T1", "", "101", models.HotelBallys))
	two := m.addGuest(guestWithRoom("Bob Baker", "bob@example.com", "T2", "", "102", models.HotelBallys))
	roomOne := m.addRoom(models.Room{
		Number: "101", RoomType: "Queen", Hotel: models.HotelBallys,
		IsSwappable: true, SPTicketID: "T1", Primary: "Alice Able", GuestID: &one.ID,
	})
	roomTwo := m.addRoom(models.Room{
		Number: "102", RoomType: "Queen", Hotel: models.HotelBallys,
		IsSwappable: true, SPTicketID: "T2", Primary: "Bob Baker", GuestID: &two.ID,
	})

	cfg := testConfig()
	cfg.SwapCooldown = time.Hour
	svc := NewRoomSwapService(m, cfg, testLogger())
	return m, svc, one, two, roomOne, roomTwo
}

func TestSwapExchangesOccupants(t *testing.T) {
	m, svc, one, two, roomOne, roomTwo := swapFixture(t)

	require.NoError(t, svc.Swap("101", models.HotelBallys, "102", models.HotelBallys))

	savedOne := m.rooms[roomOne.ID]
	savedTwo := m.rooms[roomTwo.ID]
	assert.Equal(t, two.ID, *savedOne.GuestID)
	assert.Equal(t, one.ID, *savedTwo.GuestID)
	assert.Equal(t, "T2", savedOne.SPTicketID)
	assert.Equal(t, "Bob Baker", savedOne.Primary)
	require.NotNil(t, savedOne.SwapTime)
	require.NotNil(t, savedTwo.SwapTime)

	guestOne := m.guests[one.ID]
	require.NotNil(t, guestOne.RoomNumber)
	assert.Equal(t, "102", *guestOne.RoomNumber)

	require.Len(t, m.swaps, 1)
	assert.Equal(t, roomOne.ID, m.swaps[0].RoomOneID)
	assert.Equal(t, roomTwo.ID, m.swaps[0].RoomTwoID)
}

func TestSwapRejectsDifferentTypes(t *testing.T) {
	m, svc, _, _, _, roomTwo := swapFixture(t)

	changed := m.rooms[roomTwo.ID]
	changed.RoomType = "King"
	m.rooms[roomTwo.ID] = changed

	err := svc.Swap("101", models.HotelBallys, "102", models.HotelBallys)
	assert.Error(t, err)
	assert.Empty(t, m.swaps)
}

func TestSwapRejectsEmptyRoom(t *testing.T) {
	m, svc, _, _, _, roomTwo := swapFixture(t)

	changed := m.rooms[roomTwo.ID]
	changed.GuestID = nil
	m.rooms[roomTwo.ID] = changed

	err := svc.Swap("101", models.HotelBallys, "102", models.HotelBallys)
	assert.Error(t, err)
}

func TestSwapRejectsCooldown(t *testing.T) {
	m, svc, _, _, roomOne, _ := swapFixture(t)

	recent := time.Now().Add(-time.Minute)
	changed := m.rooms[roomOne.ID]
	changed.SwapTime = &recent
	m.rooms[roomOne.ID] = changed

	err := svc.Swap("101", models.HotelBallys, "102", models.HotelBallys)
	assert.Error(t, err)
	assert.Empty(t, m.swaps)
}

func TestSwapRejectsSelf(t *testing.T) {
	_, svc, _, _, _, _ := swapFixture(t)

	err := svc.Swap("101", models.HotelBallys, "101", models.HotelBallys)
	assert.Error(t, err)
}
