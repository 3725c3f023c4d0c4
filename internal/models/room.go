package models

import (
	"time"
)

// Room represents one physical hotel room for the duration of the event,
// identified by its number and hotel name.
type Room struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Number   string `db:"number" json:"number"`
	RoomType string `db:"room_type" json:"room_type"`
	Hotel    string `db:"hotel" json:"hotel"`

	IsAvailable         bool `db:"is_available" json:"is_available"`
	IsSwappable         bool `db:"is_swappable" json:"is_swappable"`
	IsSmoking           bool `db:"is_smoking" json:"is_smoking"`
	IsLakeview          bool `db:"is_lakeview" json:"is_lakeview"`
	IsMountainview      bool `db:"is_mountainview" json:"is_mountainview"`
	IsADA               bool `db:"is_ada" json:"is_ada"`
	IsHearingAccessible bool `db:"is_hearing_accessible" json:"is_hearing_accessible"`

	// IsSpecial rooms are unknown to the allocator and never auto-assigned.
	IsSpecial bool `db:"is_special" json:"is_special"`

	// IsPlaced marks rooms assigned manually, outside the automated
	// pipeline. PlacedByAutomation marks the opposite.
	IsPlaced           bool `db:"is_placed" json:"is_placed"`
	PlacedByAutomation bool `db:"placed_by_automation" json:"placed_by_automation"`

	SwapCode     *string    `db:"swap_code" json:"-"`
	SwapCodeTime *time.Time `db:"swap_code_time" json:"-"`
	SwapTime     *time.Time `db:"swap_time" json:"-"`

	CheckIn  *time.Time `db:"check_in" json:"check_in"`
	CheckOut *time.Time `db:"check_out" json:"check_out"`

	// SPTicketID is the external ticket code that justifies this room's
	// occupancy. It may be set before GuestID is resolved, representing a
	// manually pre-placed room awaiting guest-record creation.
	SPTicketID string `db:"sp_ticket_id" json:"sp_ticket_id"`

	// Primary and Secondary are the human names shown on rooming lists.
	// Primary must track the guest's name but is independently stored.
	Primary   string `db:"primary_contact" json:"primary"`
	Secondary string `db:"secondary_contact" json:"secondary"`

	GuestID *string `db:"guest_id" json:"guest_id"`
}

// Swappable reports whether the room may take part in a peer swap.
func (r *Room) Swappable() bool {
	return r.GuestID != nil && r.IsSwappable && !r.IsSpecial
}

// InCooldown reports whether the room swapped too recently to swap again.
func (r *Room) InCooldown(cooldown time.Duration, now time.Time) bool {
	if r.SwapTime == nil {
		return false
	}
	return r.SwapTime.Add(cooldown).After(now)
}

// Release clears occupancy so the room is eligible for allocation again.
func (r *Room) Release() {
	r.GuestID = nil
	r.SPTicketID = ""
	r.Primary = ""
	r.Secondary = ""
	r.IsAvailable = true
	r.PlacedByAutomation = false
}
