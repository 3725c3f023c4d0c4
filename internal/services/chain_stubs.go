package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/pkg/passphrase"
)

// createChainStubs creates roomless guest rows for transfer chain links
// seen only in this batch, so later runs can resolve the full chain from
// the database. A stub whose own parent is unknown gets an empty
// transfer so backward walks terminate cleanly.
func createChainStubs(stores database.Stores, chains *TransferChainService, logger *logrus.Logger, record models.TicketRecord, batch []models.TicketRecord) error {
	chain := chains.ChainFromRecords(record.TicketCode, batch)
	if len(chain) == 0 {
		return nil
	}

	byCode := make(map[string]models.TicketRecord, len(batch))
	for _, r := range batch {
		byCode[r.TicketCode] = r
	}

	for _, ancestor := range chain[1:] {
		_, err := stores.Guests().ByTicket(ancestor.TicketCode)
		if err == nil || errors.Is(err, database.ErrMultipleFound) {
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return err
		}

		transfer := ancestor.TransferredFromCode
		if transfer != "" {
			if _, inBatch := byCode[transfer]; !inBatch {
				if _, dbErr := stores.Guests().ByTicket(transfer); errors.Is(dbErr, database.ErrNotFound) {
					transfer = ""
				}
			}
		}

		stub := &models.Guest{
			Name:     titleName(ancestor.FullName()),
			Email:    ancestor.Email,
			Ticket:   ancestor.TicketCode,
			Transfer: transfer,
			JWT:      passphrase.New(),
		}
		if err := stores.Guests().Save(stub); err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"ticket": stub.Ticket,
			"name":   stub.Name,
		}).Debug("Created chain stub guest")
	}

	return nil
}
