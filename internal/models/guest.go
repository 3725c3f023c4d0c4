package models

import (
	"time"
)

// Guest represents one person/ticket-holder record. A guest row is created
// the first time a ticket is ingested, or as a stub when the ticket only
// shows up as an intermediate link in a transfer chain.
type Guest struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Name   string `db:"name" json:"name"`
	Email  string `db:"email" json:"email"`
	Ticket string `db:"ticket" json:"ticket"`

	// Transfer holds the ticket code this guest's ticket was transferred
	// from. Empty for an original purchase. Together with Ticket this forms
	// a singly linked backward chain across guest rows.
	Transfer string `db:"transfer" json:"transfer"`

	// JWT is the guest's one-time login credential. Generated once and
	// included verbatim in onboarding mail, so it is stored as issued.
	JWT string `db:"jwt" json:"-"`

	// RoomNumber/Hotel are a denormalized copy of the guest's room
	// assignment. When non-nil they must agree with exactly one Room whose
	// GuestID points back at this row; the consistency checker enforces
	// this, the storage layer does not.
	RoomNumber *string `db:"room_number" json:"room_number"`
	Hotel      *string `db:"hotel" json:"hotel"`

	OnboardingSent bool       `db:"onboarding_sent" json:"onboarding_sent"`
	CanLogin       bool       `db:"can_login" json:"can_login"`
	LastLogin      *time.Time `db:"last_login" json:"last_login"`
}

// HasRoom reports whether the guest carries a denormalized room assignment.
func (g *Guest) HasRoom() bool {
	return g.RoomNumber != nil && *g.RoomNumber != ""
}

// AssignRoom sets the denormalized room pointer to the given room.
func (g *Guest) AssignRoom(room *Room) {
	number := room.Number
	hotel := room.Hotel
	g.RoomNumber = &number
	g.Hotel = &hotel
}

// ClearRoom drops the denormalized room pointer.
func (g *Guest) ClearRoom() {
	g.RoomNumber = nil
	g.Hotel = nil
}
