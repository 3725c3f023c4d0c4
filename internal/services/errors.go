package services

import "errors"

var (
	// ErrBrokenChain is returned when a transfer chain references a ticket
	// that has no guest row.
	ErrBrokenChain = errors.New("transfer chain is broken")

	// ErrAmbiguousChain is returned when more than one guest row claims the
	// same link of a transfer chain.
	ErrAmbiguousChain = errors.New("transfer chain is ambiguous")

	// ErrCycleDetected is returned when following a transfer chain revisits
	// a ticket. Cycles only arise from corrupted data and walking one would
	// never terminate.
	ErrCycleDetected = errors.New("transfer chain contains a cycle")

	// ErrRoomClaimed is returned when a room selected for assignment was
	// taken by a concurrent writer before the assignment committed.
	ErrRoomClaimed = errors.New("room already claimed by another guest")
)
