package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/roomsvc/reservations-backend/internal/models"
)

const guestColumns = `id, created_at, updated_at, name, email, ticket, transfer, jwt,
	   room_number, hotel, onboarding_sent, can_login, last_login`

// GuestRepository handles database operations for the guests table.
type GuestRepository struct {
	db DB
}

// NewGuestRepository creates a new GuestRepository.
func NewGuestRepository(db DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// ByID retrieves a guest by primary key.
func (r *GuestRepository) ByID(id string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE id = $1`, guestColumns)
	return r.one(query, id)
}

// ByTicket retrieves the guest holding the given ticket code. Returns
// ErrMultipleFound when the ticket is shared across rows (corruption).
func (r *GuestRepository) ByTicket(ticket string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE ticket = $1`, guestColumns)
	return r.one(query, ticket)
}

// ByTicketAndEmail retrieves a guest by its (ticket, email) natural key.
func (r *GuestRepository) ByTicketAndEmail(ticket, email string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE ticket = $1 AND email = $2`, guestColumns)
	return r.one(query, ticket, email)
}

// ByEmail retrieves every guest row sharing an email address, oldest first.
func (r *GuestRepository) ByEmail(email string) ([]models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE email = $1 ORDER BY created_at`, guestColumns)

	var guests []models.Guest
	if err := r.db.Select(&guests, query, email); err != nil {
		return nil, fmt.Errorf("failed to list guests by email: %w", err)
	}
	return guests, nil
}

// ByRoom retrieves the guest whose denormalized room pointer names the
// given room.
func (r *GuestRepository) ByRoom(number, hotel string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE room_number = $1 AND hotel = $2`, guestColumns)
	return r.one(query, number, hotel)
}

// ByTransfer retrieves the guest whose transfer field references the given
// ticket code, i.e. the next link forward in a transfer chain.
func (r *GuestRepository) ByTransfer(ticket string) (*models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests WHERE transfer = $1`, guestColumns)
	return r.one(query, ticket)
}

// TransferredTickets returns the set of ticket codes that appear in any
// guest's transfer field, i.e. tickets that were transferred away.
func (r *GuestRepository) TransferredTickets() (map[string]struct{}, error) {
	var tickets []string
	err := r.db.Select(&tickets, `SELECT DISTINCT transfer FROM guests WHERE transfer != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transferred tickets: %w", err)
	}

	set := make(map[string]struct{}, len(tickets))
	for _, t := range tickets {
		set[t] = struct{}{}
	}
	return set, nil
}

// All retrieves every guest row.
func (r *GuestRepository) All() ([]models.Guest, error) {
	query := fmt.Sprintf(`SELECT %s FROM guests ORDER BY created_at`, guestColumns)

	var guests []models.Guest
	if err := r.db.Select(&guests, query); err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

// Save inserts the guest when it has no ID yet, otherwise updates it.
func (r *GuestRepository) Save(guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.New().String()
		query := `
			INSERT INTO guests (
				id, name, email, ticket, transfer, jwt,
				room_number, hotel, onboarding_sent, can_login, last_login
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at, updated_at
		`
		err := r.db.QueryRow(
			query,
			guest.ID, guest.Name, guest.Email, guest.Ticket, guest.Transfer, guest.JWT,
			guest.RoomNumber, guest.Hotel, guest.OnboardingSent, guest.CanLogin, guest.LastLogin,
		).Scan(&guest.CreatedAt, &guest.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create guest: %w", err)
		}
		return nil
	}

	query := `
		UPDATE guests
		SET name = $2, email = $3, ticket = $4, transfer = $5, jwt = $6,
			room_number = $7, hotel = $8, onboarding_sent = $9, can_login = $10,
			last_login = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(
		query,
		guest.ID, guest.Name, guest.Email, guest.Ticket, guest.Transfer, guest.JWT,
		guest.RoomNumber, guest.Hotel, guest.OnboardingSent, guest.CanLogin, guest.LastLogin,
	).Scan(&guest.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	return nil
}

// one runs a query expected to match at most one guest.
func (r *GuestRepository) one(query string, args ...interface{}) (*models.Guest, error) {
	var guests []models.Guest
	if err := r.db.Select(&guests, query, args...); err != nil {
		return nil, fmt.Errorf("guest lookup failed: %w", err)
	}

	switch len(guests) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &guests[0], nil
	default:
		return nil, ErrMultipleFound
	}
}
