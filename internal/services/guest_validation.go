package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
)

// GuestValidationService decides which ticket records are worth
// processing. Ticket exports include merch, parking, and other
// non-room products, plus rows staff have asked to ignore.
type GuestValidationService struct {
	stores database.Stores
	cfg    *config.Config
	logger *logrus.Logger
}

// NewGuestValidationService creates a new GuestValidationService.
func NewGuestValidationService(stores database.Stores, cfg *config.Config, logger *logrus.Logger) *GuestValidationService {
	return &GuestValidationService{stores: stores, cfg: cfg, logger: logger}
}

// Validate checks one record. The returned reason is empty when the
// record is valid. An error means the check itself failed, not that the
// record is invalid.
func (s *GuestValidationService) Validate(record models.TicketRecord) (bool, string, error) {
	if record.TicketCode == "" {
		return false, "missing ticket code", nil
	}

	if record.Product == "" {
		return false, "missing product", nil
	}

	for _, ignored := range s.cfg.IgnoredTickets {
		if record.TicketCode == ignored {
			return false, "ticket is on the ignore list", nil
		}
	}

	_, err := s.stores.Guests().ByTicket(record.TicketCode)
	if err == nil || errors.Is(err, database.ErrMultipleFound) {
		return false, "ticket already ingested", nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return false, "", err
	}

	if _, err := models.ShortProductCode(record.Product); err != nil {
		return false, "product does not sell a room", nil
	}

	hotel, err := models.DeriveHotel(record.Product)
	if err != nil {
		return false, "product names no known hotel", nil
	}
	if !s.cfg.GuestHotel(hotel) {
		return false, "hotel is not handled here", nil
	}

	return true, "", nil
}

// FilterValid returns the records that pass validation, logging each
// rejection with its reason.
func (s *GuestValidationService) FilterValid(records []models.TicketRecord) ([]models.TicketRecord, error) {
	var valid []models.TicketRecord
	for _, record := range records {
		ok, reason, err := s.Validate(record)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"ticket": record.TicketCode,
				"reason": reason,
			}).Debug("Skipping ticket record")
			continue
		}
		valid = append(valid, record)
	}

	s.logger.WithFields(logrus.Fields{
		"total": len(records),
		"valid": len(valid),
	}).Info("Validated ticket records")

	return valid, nil
}
