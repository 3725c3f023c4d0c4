package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomsvc/reservations-backend/internal/models"
)

const queenProduct = "04.1 Bally's - Standard 2 Queen"
const nuggetProduct = "11.1 Nugget - Sunset King"

func TestValidateRejections(t *testing.T) {
	m := newMemStores()
	m.addGuest(models.Guest{Name: "Alice", Ticket: "TAKEN", Email: "alice@example.com"})

	cfg := testConfig()
	cfg.GuestHotels = []string{models.HotelBallys}
	cfg.IgnoredTickets = []string{"NOPE"}

	svc := NewGuestValidationService(m, cfg, testLogger())

	tests := []struct {
		name   string
		record models.TicketRecord
		reason string
	}{
		{
			name:   "missing ticket code",
			record: models.TicketRecord{Product: queenProduct},
			reason: "missing ticket code",
		},
		{
			name:   "missing product",
			record: models.TicketRecord{TicketCode: "T1"},
			reason: "missing product",
		},
		{
			name:   "ignored ticket",
			record: models.TicketRecord{TicketCode: "NOPE", Product: queenProduct},
			reason: "ticket is on the ignore list",
		},
		{
			name:   "already ingested",
			record: models.TicketRecord{TicketCode: "TAKEN", Product: queenProduct},
			reason: "ticket already ingested",
		},
		{
			name:   "not a room product",
			record: models.TicketRecord{TicketCode: "T1", Product: "Parking Pass"},
			reason: "product does not sell a room",
		},
		{
			name:   "hotel not handled",
			record: models.TicketRecord{TicketCode: "T1", Product: nuggetProduct},
			reason: "hotel is not handled here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason, err := svc.Validate(tt.record)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	svc := NewGuestValidationService(newMemStores(), testConfig(), testLogger())

	ok, reason, err := svc.Validate(models.TicketRecord{
		TicketCode: "T1",
		Product:    queenProduct,
		FirstName:  "sam",
		LastName:   "hain",
		Email:      "sam@example.com",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestFilterValidDropsBadRecords(t *testing.T) {
	svc := NewGuestValidationService(newMemStores(), testConfig(), testLogger())

	valid, err := svc.FilterValid([]models.TicketRecord{
		{TicketCode: "T1", Product: queenProduct},
		{TicketCode: "T2", Product: "Tote Bag"},
		{Product: queenProduct},
	})
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, "T1", valid[0].TicketCode)
}
