// Package database implements the guest/room/swap repositories over
// PostgreSQL and the transactional store the reconciliation services run
// against. Sentinel errors let callers distinguish lookup outcomes without
// inspecting driver errors.
package database

import "errors"

// ErrNotFound is returned when a natural-key lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrMultipleFound is returned when a lookup expected to match at most one
// row matches several. This always indicates data corruption; callers must
// surface it, never pick a row.
var ErrMultipleFound = errors.New("multiple rows found")
