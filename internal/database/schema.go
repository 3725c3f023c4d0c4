package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema creates the tables this system owns. Kept as plain DDL so fresh
// environments can be stood up by cmd binaries without a migration tool.
const Schema = `
CREATE TABLE IF NOT EXISTS guests (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	name VARCHAR(240) NOT NULL DEFAULT '',
	email VARCHAR(254) NOT NULL DEFAULT '',
	ticket VARCHAR(20) NOT NULL DEFAULT '',
	transfer VARCHAR(20) NOT NULL DEFAULT '',
	jwt VARCHAR(240) NOT NULL DEFAULT '',
	room_number VARCHAR(20),
	hotel VARCHAR(50),
	onboarding_sent BOOLEAN NOT NULL DEFAULT FALSE,
	can_login BOOLEAN NOT NULL DEFAULT FALSE,
	last_login TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_guests_ticket ON guests (ticket);
CREATE INDEX IF NOT EXISTS idx_guests_email ON guests (email);
CREATE INDEX IF NOT EXISTS idx_guests_transfer ON guests (transfer);

CREATE TABLE IF NOT EXISTS rooms (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	number VARCHAR(20) NOT NULL,
	room_type VARCHAR(50) NOT NULL,
	hotel VARCHAR(50) NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT FALSE,
	is_swappable BOOLEAN NOT NULL DEFAULT FALSE,
	is_smoking BOOLEAN NOT NULL DEFAULT FALSE,
	is_lakeview BOOLEAN NOT NULL DEFAULT FALSE,
	is_mountainview BOOLEAN NOT NULL DEFAULT FALSE,
	is_ada BOOLEAN NOT NULL DEFAULT FALSE,
	is_hearing_accessible BOOLEAN NOT NULL DEFAULT FALSE,
	is_special BOOLEAN NOT NULL DEFAULT FALSE,
	is_placed BOOLEAN NOT NULL DEFAULT FALSE,
	placed_by_automation BOOLEAN NOT NULL DEFAULT FALSE,
	swap_code VARCHAR(200),
	swap_code_time TIMESTAMPTZ,
	swap_time TIMESTAMPTZ,
	check_in DATE,
	check_out DATE,
	sp_ticket_id VARCHAR(20) NOT NULL DEFAULT '',
	primary_contact VARCHAR(200) NOT NULL DEFAULT '',
	secondary_contact VARCHAR(200) NOT NULL DEFAULT '',
	guest_id UUID REFERENCES guests (id) ON DELETE SET NULL,
	UNIQUE (number, hotel)
);

CREATE INDEX IF NOT EXISTS idx_rooms_sp_ticket_id ON rooms (sp_ticket_id);
CREATE INDEX IF NOT EXISTS idx_rooms_guest_id ON rooms (guest_id);

CREATE TABLE IF NOT EXISTS swaps (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	room_one_id UUID NOT NULL REFERENCES rooms (id),
	room_two_id UUID NOT NULL REFERENCES rooms (id),
	guest_one_id UUID NOT NULL REFERENCES guests (id),
	guest_two_id UUID NOT NULL REFERENCES guests (id)
);
`

// Migrate applies the schema.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
