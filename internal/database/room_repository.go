package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/roomsvc/reservations-backend/internal/models"
)

const roomColumns = `id, created_at, updated_at, number, room_type, hotel,
	   is_available, is_swappable, is_smoking, is_lakeview, is_mountainview,
	   is_ada, is_hearing_accessible, is_special, is_placed, placed_by_automation,
	   swap_code, swap_code_time, swap_time, check_in, check_out,
	   sp_ticket_id, primary_contact, secondary_contact, guest_id`

// RoomRepository handles database operations for the rooms table.
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Get retrieves a room by its (number, hotel) natural key.
func (r *RoomRepository) Get(number, hotel string) (*models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE number = $1 AND hotel = $2`, roomColumns)
	return r.one(query, number, hotel)
}

// AvailableByType lists rooms eligible for automatic allocation: available,
// not special, matching room type and hotel.
func (r *RoomRepository) AvailableByType(roomType, hotel string) ([]models.Room, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rooms
		WHERE is_available = TRUE
		  AND is_special = FALSE
		  AND room_type = $1
		  AND hotel = $2
	`, roomColumns)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query, roomType, hotel); err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return rooms, nil
}

// PlacedByTicket retrieves a manually pre-placed room: tagged with the
// ticket code but not yet linked to a guest row.
func (r *RoomRepository) PlacedByTicket(ticket string) (*models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE sp_ticket_id = $1 AND guest_id IS NULL`, roomColumns)
	return r.one(query, ticket)
}

// ByGuest lists rooms referencing the given guest.
func (r *RoomRepository) ByGuest(guestID string) ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE guest_id = $1`, roomColumns)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query, guestID); err != nil {
		return nil, fmt.Errorf("failed to list rooms by guest: %w", err)
	}
	return rooms, nil
}

// BySPTicket lists rooms carrying the given external ticket code.
func (r *RoomRepository) BySPTicket(ticket string) ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE sp_ticket_id = $1`, roomColumns)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query, ticket); err != nil {
		return nil, fmt.Errorf("failed to list rooms by ticket: %w", err)
	}
	return rooms, nil
}

// Orphans lists rooms that look occupied but have no guest link: marked
// unavailable with a contact name and ticket code, yet guest_id is null.
func (r *RoomRepository) Orphans() ([]models.Room, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rooms
		WHERE guest_id IS NULL
		  AND is_available = FALSE
		  AND primary_contact != ''
		  AND sp_ticket_id != ''
	`, roomColumns)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list orphan rooms: %w", err)
	}
	return rooms, nil
}

// All retrieves every room row.
func (r *RoomRepository) All() ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms ORDER BY hotel, number`, roomColumns)

	var rooms []models.Room
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// CountAvailable counts available rooms of one type across hotels.
func (r *RoomRepository) CountAvailable(roomType string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM rooms WHERE room_type = $1 AND is_available = TRUE`, roomType)
	if err != nil {
		return 0, fmt.Errorf("failed to count available rooms: %w", err)
	}
	return count, nil
}

// Save inserts the room when it has no ID yet, otherwise updates it.
func (r *RoomRepository) Save(room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
		query := `
			INSERT INTO rooms (
				id, number, room_type, hotel,
				is_available, is_swappable, is_smoking, is_lakeview, is_mountainview,
				is_ada, is_hearing_accessible, is_special, is_placed, placed_by_automation,
				swap_code, swap_code_time, swap_time, check_in, check_out,
				sp_ticket_id, primary_contact, secondary_contact, guest_id
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
			)
			RETURNING created_at, updated_at
		`
		err := r.db.QueryRow(
			query,
			room.ID, room.Number, room.RoomType, room.Hotel,
			room.IsAvailable, room.IsSwappable, room.IsSmoking, room.IsLakeview, room.IsMountainview,
			room.IsADA, room.IsHearingAccessible, room.IsSpecial, room.IsPlaced, room.PlacedByAutomation,
			room.SwapCode, room.SwapCodeTime, room.SwapTime, room.CheckIn, room.CheckOut,
			room.SPTicketID, room.Primary, room.Secondary, room.GuestID,
		).Scan(&room.CreatedAt, &room.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return nil
	}

	query := `
		UPDATE rooms
		SET number = $2, room_type = $3, hotel = $4,
			is_available = $5, is_swappable = $6, is_smoking = $7, is_lakeview = $8,
			is_mountainview = $9, is_ada = $10, is_hearing_accessible = $11,
			is_special = $12, is_placed = $13, placed_by_automation = $14,
			swap_code = $15, swap_code_time = $16, swap_time = $17,
			check_in = $18, check_out = $19, sp_ticket_id = $20,
			primary_contact = $21, secondary_contact = $22, guest_id = $23,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(
		query,
		room.ID, room.Number, room.RoomType, room.Hotel,
		room.IsAvailable, room.IsSwappable, room.IsSmoking, room.IsLakeview,
		room.IsMountainview, room.IsADA, room.IsHearingAccessible,
		room.IsSpecial, room.IsPlaced, room.PlacedByAutomation,
		room.SwapCode, room.SwapCodeTime, room.SwapTime,
		room.CheckIn, room.CheckOut, room.SPTicketID,
		room.Primary, room.Secondary, room.GuestID,
	).Scan(&room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

// one runs a query expected to match at most one room.
func (r *RoomRepository) one(query string, args ...interface{}) (*models.Room, error) {
	var rooms []models.Room
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, fmt.Errorf("room lookup failed: %w", err)
	}

	switch len(rooms) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rooms[0], nil
	default:
		return nil, ErrMultipleFound
	}
}
