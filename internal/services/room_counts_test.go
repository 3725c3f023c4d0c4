package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

func TestRoomCountsSeedAndMovement(t *testing.T) {
	m := newMemStores()
	m.addRoom(models.Room{Number: "101", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})
	m.addRoom(models.Room{Number: "102", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})
	m.addRoom(models.Room{Number: "201", RoomType: "King", Hotel: models.HotelBallys, IsAvailable: true})

	counts, err := NewRoomCounts(m.Rooms())
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Get("Queen").Available)
	assert.Equal(t, 1, counts.Get("King").Available)

	counts.Allocated("Queen")
	counts.Transfer("Queen")
	counts.Shortage("Tahoe Suite")
	counts.Orphan("King")

	queen := counts.Get("Queen")
	assert.Equal(t, 1, queen.Allocated)
	assert.Equal(t, 1, queen.Available)
	assert.Equal(t, 1, queen.Transfer)
	assert.Equal(t, 1, counts.Get("Tahoe Suite").Shortage)
	assert.Equal(t, 1, counts.Get("King").Orphan)
}

func TestRoomCountsOutput(t *testing.T) {
	m := newMemStores()
	m.addRoom(models.Room{Number: "101", RoomType: "Queen", Hotel: models.HotelBallys, IsAvailable: true})

	counts, err := NewRoomCounts(m.Rooms())
	require.NoError(t, err)
	counts.Allocated("Queen")

	lines := counts.Output()
	require.NotEmpty(t, lines)

	var queenLine string
	for _, line := range lines {
		if strings.HasPrefix(line, "Queen:") {
			queenLine = line
		}
	}
	assert.Equal(t, "Queen: 1 allocated (0 transfer), 0 shortage, 0 orphan, 0 remaining", queenLine)
}
