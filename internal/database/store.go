package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// GuestStore is the guest lookup/persistence surface the services consume.
type GuestStore interface {
	ByID(id string) (*models.Guest, error)
	ByTicket(ticket string) (*models.Guest, error)
	ByTicketAndEmail(ticket, email string) (*models.Guest, error)
	ByEmail(email string) ([]models.Guest, error)
	ByRoom(number, hotel string) (*models.Guest, error)
	ByTransfer(ticket string) (*models.Guest, error)
	TransferredTickets() (map[string]struct{}, error)
	All() ([]models.Guest, error)
	Save(guest *models.Guest) error
}

// RoomStore is the room lookup/persistence surface the services consume.
type RoomStore interface {
	Get(number, hotel string) (*models.Room, error)
	AvailableByType(roomType, hotel string) ([]models.Room, error)
	PlacedByTicket(ticket string) (*models.Room, error)
	ByGuest(guestID string) ([]models.Room, error)
	BySPTicket(ticket string) ([]models.Room, error)
	Orphans() ([]models.Room, error)
	All() ([]models.Room, error)
	CountAvailable(roomType string) (int, error)
	Save(room *models.Room) error
}

// SwapStore records completed room swaps.
type SwapStore interface {
	Create(swap *models.Swap) error
}

// Stores bundles the repositories with a transactional boundary. Transact
// hands the closure a store bound to one transaction; either every write in
// the closure commits or none do.
type Stores interface {
	Guests() GuestStore
	Rooms() RoomStore
	Swaps() SwapStore
	Transact(fn func(Stores) error) error
}

// Store implements Stores on PostgreSQL.
type Store struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	guests *GuestRepository
	rooms  *RoomRepository
	swaps  *SwapRepository
}

// NewStore creates a Store with repositories bound to the connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:     db,
		guests: NewGuestRepository(db),
		rooms:  NewRoomRepository(db),
		swaps:  NewSwapRepository(db),
	}
}

// Guests returns the guest repository.
func (s *Store) Guests() GuestStore { return s.guests }

// Rooms returns the room repository.
func (s *Store) Rooms() RoomStore { return s.rooms }

// Swaps returns the swap repository.
func (s *Store) Swaps() SwapStore { return s.swaps }

// Transact runs fn against transaction-bound repositories. A nested call
// reuses the enclosing transaction rather than opening a second one.
func (s *Store) Transact(fn func(Stores) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Store{
		db:     s.db,
		tx:     tx,
		guests: NewGuestRepository(tx),
		rooms:  NewRoomRepository(tx),
		swaps:  NewSwapRepository(tx),
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
