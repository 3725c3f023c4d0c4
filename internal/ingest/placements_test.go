package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

func TestReadRoomsCSV(t *testing.T) {
	csv := strings.Join([]string{
		"number,room_type,hotel,features,placed_by,primary,secondary,ticket,check_in,check_out",
		"101,Queen,,,,,,,2026-10-01,2026-10-04",
		"102,Queen,,smoking;lakeview,,,,,,",
		"777,King,,ada,alice,Sam Hain,Pat Hain,T1,10/1/2026,10/4/2026",
	}, "\n")

	rooms, err := ReadRoomsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rooms, 3)

	plain := rooms[0]
	assert.Equal(t, "101", plain.Number)
	assert.Equal(t, models.HotelBallys, plain.Hotel)
	assert.True(t, plain.IsAvailable)
	assert.True(t, plain.IsSwappable)
	require.NotNil(t, plain.CheckIn)
	assert.Equal(t, "2026-10-01", plain.CheckIn.Format("2006-01-02"))

	featured := rooms[1]
	assert.True(t, featured.IsSmoking)
	assert.True(t, featured.IsLakeview)
	assert.False(t, featured.IsADA)

	placed := rooms[2]
	assert.True(t, placed.IsSpecial)
	assert.True(t, placed.IsPlaced)
	assert.False(t, placed.IsAvailable)
	assert.False(t, placed.IsSwappable)
	assert.Equal(t, "Sam Hain", placed.Primary)
	assert.Equal(t, "T1", placed.SPTicketID)
	require.NotNil(t, placed.CheckIn)
	assert.Equal(t, "2026-10-01", placed.CheckIn.Format("2006-01-02"))
}

func TestReadRoomsCSVRejectsUnknownRoomType(t *testing.T) {
	csv := strings.Join([]string{
		"number,room_type,hotel",
		"101,Penthouse,",
	}, "\n")

	_, err := ReadRoomsCSV(strings.NewReader(csv))
	var unknownErr *models.UnknownProductError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestReadRoomsCSVRequiresNumber(t *testing.T) {
	csv := strings.Join([]string{
		"number,room_type,hotel",
		",Queen,",
	}, "\n")

	_, err := ReadRoomsCSV(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestReadRoomsCSVRejectsBadDate(t *testing.T) {
	csv := strings.Join([]string{
		"number,room_type,check_in",
		"101,Queen,someday",
	}, "\n")

	_, err := ReadRoomsCSV(strings.NewReader(csv))
	assert.Error(t, err)
}
