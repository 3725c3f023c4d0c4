package models

import (
	"time"
)

// Swap is an audit row recording one completed peer room swap.
type Swap struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	RoomOneID  string `db:"room_one_id" json:"room_one_id"`
	RoomTwoID  string `db:"room_two_id" json:"room_two_id"`
	GuestOneID string `db:"guest_one_id" json:"guest_one_id"`
	GuestTwoID string `db:"guest_two_id" json:"guest_two_id"`
}
