package services

import (
	"fmt"
	"sort"

	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// RoomTypeCount tallies what happened to one room type during a run.
type RoomTypeCount struct {
	Available int
	Allocated int
	Shortage  int
	Orphan    int
	Transfer  int
}

// RoomCounts tracks per-room-type inventory movement across one
// ingestion run, seeded from current availability.
type RoomCounts struct {
	types map[string]*RoomTypeCount
}

// NewRoomCounts seeds counters with the current available count for
// every room type in the catalog.
func NewRoomCounts(rooms database.RoomStore) (*RoomCounts, error) {
	counts := &RoomCounts{types: make(map[string]*RoomTypeCount)}

	for _, code := range models.RoomTypeCodes() {
		available, err := rooms.CountAvailable(code)
		if err != nil {
			return nil, err
		}
		counts.types[code] = &RoomTypeCount{Available: available}
	}
	return counts, nil
}

// Allocated records a room of the given type handed to a guest.
func (c *RoomCounts) Allocated(code string) {
	t := c.get(code)
	t.Allocated++
	if t.Available > 0 {
		t.Available--
	}
}

// Shortage records a guest who could not get a room of the given type.
func (c *RoomCounts) Shortage(code string) { c.get(code).Shortage++ }

// Orphan records an orphan room of the given type reconciled this run.
func (c *RoomCounts) Orphan(code string) { c.get(code).Orphan++ }

// Transfer records an allocation that resolved a ticket transfer.
func (c *RoomCounts) Transfer(code string) { c.get(code).Transfer++ }

// Get returns the counter for one room type.
func (c *RoomCounts) Get(code string) RoomTypeCount { return *c.get(code) }

// Output renders one summary line per room type, sorted by type code.
func (c *RoomCounts) Output() []string {
	codes := make([]string, 0, len(c.types))
	for code := range c.types {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		t := c.types[code]
		lines = append(lines, fmt.Sprintf(
			"%s: %d allocated (%d transfer), %d shortage, %d orphan, %d remaining",
			code, t.Allocated, t.Transfer, t.Shortage, t.Orphan, t.Available,
		))
	}
	return lines
}

func (c *RoomCounts) get(code string) *RoomTypeCount {
	t, ok := c.types[code]
	if !ok {
		t = &RoomTypeCount{}
		c.types[code] = t
	}
	return t
}
