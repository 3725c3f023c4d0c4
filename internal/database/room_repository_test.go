package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "number", "room_type", "hotel",
		"is_available", "is_swappable", "is_smoking", "is_lakeview", "is_mountainview",
		"is_ada", "is_hearing_accessible", "is_special", "is_placed", "placed_by_automation",
		"swap_code", "swap_code_time", "swap_time", "check_in", "check_out",
		"sp_ticket_id", "primary_contact", "secondary_contact", "guest_id",
	})
}

func addRoomRow(rows *sqlmock.Rows, id, number, roomType, hotel string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, now, now, number, roomType, hotel,
		true, true, false, false, false,
		false, false, false, false, false,
		nil, nil, nil, nil, nil,
		"", "", "", nil,
	)
}

func TestRoomGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE number = \$1 AND hotel = \$2`).
		WithArgs("101", "Ballys").
		WillReturnRows(addRoomRow(roomRows(), "room-1", "101", "Queen", "Ballys"))

	room, err := repo.Get("101", "Ballys")
	require.NoError(t, err)
	assert.Equal(t, "Queen", room.RoomType)
}

func TestRoomAvailableByType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	rows := addRoomRow(roomRows(), "room-1", "101", "Queen", "Ballys")
	rows = addRoomRow(rows, "room-2", "102", "Queen", "Ballys")

	mock.ExpectQuery(`SELECT (.+) FROM rooms`).
		WithArgs("Queen", "Ballys").
		WillReturnRows(rows)

	rooms, err := repo.AvailableByType("Queen", "Ballys")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestRoomCountAvailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms`).
		WithArgs("Queen").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountAvailable("Queen")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
