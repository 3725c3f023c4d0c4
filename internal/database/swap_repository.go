package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// SwapRepository handles database operations for the swaps audit table.
type SwapRepository struct {
	db DB
}

// NewSwapRepository creates a new SwapRepository.
func NewSwapRepository(db DB) *SwapRepository {
	return &SwapRepository{db: db}
}

// Create records one completed room swap.
func (r *SwapRepository) Create(swap *models.Swap) error {
	if swap.ID == "" {
		swap.ID = uuid.New().String()
	}

	query := `
		INSERT INTO swaps (id, room_one_id, room_two_id, guest_one_id, guest_two_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(
		query,
		swap.ID, swap.RoomOneID, swap.RoomTwoID, swap.GuestOneID, swap.GuestTwoID,
	).Scan(&swap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record swap: %w", err)
	}
	return nil
}
