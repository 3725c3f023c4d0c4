package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	return sqlx.NewDb(mockDb, "sqlmock"), mock
}

func guestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "name", "email", "ticket", "transfer",
		"jwt", "room_number", "hotel", "onboarding_sent", "can_login", "last_login",
	})
}

func TestGuestByTicket(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM guests WHERE ticket = \$1`).
		WithArgs("T1").
		WillReturnRows(guestRows().AddRow(
			"guest-1", now, now, "Sam Hain", "sam@example.com", "T1", "",
			"HarborRaven42", nil, nil, false, false, nil,
		))

	guest, err := repo.ByTicket("T1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Hain", guest.Name)
	assert.Equal(t, "T1", guest.Ticket)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestByTicketNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM guests WHERE ticket = \$1`).
		WithArgs("T1").
		WillReturnRows(guestRows())

	_, err := repo.ByTicket("T1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuestByTicketMultipleFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	now := time.Now()
	rows := guestRows().
		AddRow("guest-1", now, now, "Sam Hain", "sam@example.com", "T1", "", "x", nil, nil, false, false, nil).
		AddRow("guest-2", now, now, "Sam Again", "sam2@example.com", "T1", "", "x", nil, nil, false, false, nil)

	mock.ExpectQuery(`SELECT (.+) FROM guests WHERE ticket = \$1`).
		WithArgs("T1").
		WillReturnRows(rows)

	_, err := repo.ByTicket("T1")
	assert.ErrorIs(t, err, ErrMultipleFound)
}

func TestGuestSaveInsertsWhenNew(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO guests`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	guest := &models.Guest{Name: "Sam Hain", Email: "sam@example.com", Ticket: "T1"}
	require.NoError(t, repo.Save(guest))

	assert.NotEmpty(t, guest.ID)
	assert.Equal(t, now, guest.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestSaveUpdatesWhenExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	now := time.Now()
	mock.ExpectQuery(`UPDATE guests`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	guest := &models.Guest{ID: "guest-1", Name: "Sam Hain", Ticket: "T1"}
	require.NoError(t, repo.Save(guest))
	assert.Equal(t, now, guest.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferredTickets(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT transfer FROM guests`).
		WillReturnRows(sqlmock.NewRows([]string{"transfer"}).AddRow("T1").AddRow("T2"))

	set, err := repo.TransferredTickets()
	require.NoError(t, err)
	assert.Len(t, set, 2)
	_, ok := set["T1"]
	assert.True(t, ok)
}
