package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// TransferChainService resolves ticket transfer chains. Each guest row's
// Transfer field names the ticket its own ticket was transferred from,
// forming a singly linked chain back to the original purchase.
type TransferChainService struct {
	stores database.Stores
	logger *logrus.Logger
}

// NewTransferChainService creates a new TransferChainService.
func NewTransferChainService(stores database.Stores, logger *logrus.Logger) *TransferChainService {
	return &TransferChainService{stores: stores, logger: logger}
}

// Backward walks from the given ticket toward the original purchase.
// The returned slice starts at the given ticket's guest and ends at the
// chain head. Strict: a missing link is ErrBrokenChain, a duplicated
// link is ErrAmbiguousChain, a revisited link is ErrCycleDetected.
func (s *TransferChainService) Backward(ticket string) ([]models.Guest, error) {
	guest, err := s.lookup(ticket)
	if err != nil {
		return nil, err
	}

	chain := []models.Guest{*guest}
	visited := map[string]struct{}{guest.Ticket: {}}

	for guest.Transfer != "" {
		if _, seen := visited[guest.Transfer]; seen {
			return nil, fmt.Errorf("%w: ticket %s revisited", ErrCycleDetected, guest.Transfer)
		}

		guest, err = s.lookup(guest.Transfer)
		if err != nil {
			return nil, err
		}

		visited[guest.Ticket] = struct{}{}
		chain = append(chain, *guest)
	}

	return chain, nil
}

// Forward walks from the given ticket toward the chain tail, following
// guests whose Transfer field points at the current ticket. The returned
// slice excludes the starting guest and ends at the tail.
func (s *TransferChainService) Forward(ticket string) ([]models.Guest, error) {
	var chain []models.Guest
	visited := map[string]struct{}{ticket: {}}

	for {
		next, err := s.stores.Guests().ByTransfer(ticket)
		if errors.Is(err, database.ErrNotFound) {
			return chain, nil
		}
		if errors.Is(err, database.ErrMultipleFound) {
			return nil, fmt.Errorf("%w: multiple guests transferred from ticket %s", ErrAmbiguousChain, ticket)
		}
		if err != nil {
			return nil, err
		}

		if _, seen := visited[next.Ticket]; seen {
			return nil, fmt.Errorf("%w: ticket %s revisited", ErrCycleDetected, next.Ticket)
		}

		visited[next.Ticket] = struct{}{}
		chain = append(chain, *next)
		ticket = next.Ticket
	}
}

// FullChain resolves the complete chain containing the given ticket,
// ordered from the original purchase (head) to the final holder (tail).
func (s *TransferChainService) FullChain(ticket string) (chain []models.Guest, head, tail *models.Guest, err error) {
	backward, err := s.Backward(ticket)
	if err != nil {
		return nil, nil, nil, err
	}

	// Backward runs current-to-head; reverse it into head-first order.
	for i := len(backward) - 1; i >= 0; i-- {
		chain = append(chain, backward[i])
	}

	forward, err := s.Forward(ticket)
	if err != nil {
		return nil, nil, nil, err
	}
	chain = append(chain, forward...)

	return chain, &chain[0], &chain[len(chain)-1], nil
}

// ChainFromRecords walks a transfer chain inside one ingestion batch,
// without touching the database. Tolerant: the walk stops quietly at the
// first link the batch does not contain, so the result may be a partial
// chain. Ordered from the given ticket back toward the head.
func (s *TransferChainService) ChainFromRecords(ticket string, records []models.TicketRecord) []models.TicketRecord {
	byCode := make(map[string]models.TicketRecord, len(records))
	for _, r := range records {
		byCode[r.TicketCode] = r
	}

	var chain []models.TicketRecord
	visited := make(map[string]struct{})

	for ticket != "" {
		if _, seen := visited[ticket]; seen {
			s.logger.WithField("ticket", ticket).Warn("Transfer chain cycle in ingestion batch, truncating")
			break
		}
		record, ok := byCode[ticket]
		if !ok {
			break
		}

		visited[ticket] = struct{}{}
		chain = append(chain, record)
		ticket = record.TransferredFromCode
	}

	return chain
}

func (s *TransferChainService) lookup(ticket string) (*models.Guest, error) {
	guest, err := s.stores.Guests().ByTicket(ticket)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: no guest holds ticket %s", ErrBrokenChain, ticket)
	}
	if errors.Is(err, database.ErrMultipleFound) {
		return nil, fmt.Errorf("%w: multiple guests hold ticket %s", ErrAmbiguousChain, ticket)
	}
	if err != nil {
		return nil, err
	}
	return guest, nil
}
