package checks

import (
	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

// TicketExporter fetches ticket records from the external ticket source.
type TicketExporter interface {
	ExportTickets(opts ticketsource.ExportOptions) ([]models.TicketRecord, error)
}

// Runner executes every check suite against the current tables.
type Runner struct {
	stores   database.Stores
	cfg      *config.Config
	logger   *logrus.Logger
	exporter TicketExporter
}

// NewRunner creates a Runner. exporter may be nil, which skips the
// ticket source cross-checks.
func NewRunner(stores database.Stores, cfg *config.Config, logger *logrus.Logger, exporter TicketExporter) *Runner {
	return &Runner{stores: stores, cfg: cfg, logger: logger, exporter: exporter}
}

// Run executes all checks and returns the combined findings.
func (r *Runner) Run() ([]Finding, error) {
	guests, err := r.stores.Guests().All()
	if err != nil {
		return nil, err
	}
	rooms, err := r.stores.Rooms().All()
	if err != nil {
		return nil, err
	}

	var findings []Finding

	guestFindings, err := r.guestChecks(guests)
	if err != nil {
		return nil, err
	}
	findings = append(findings, guestFindings...)

	roomFindings, err := r.roomChecks(rooms, guests)
	if err != nil {
		return nil, err
	}
	findings = append(findings, roomFindings...)

	sourceFindings, err := r.sourceChecks(rooms, guests)
	if err != nil {
		return nil, err
	}
	findings = append(findings, sourceFindings...)

	r.logger.WithFields(logrus.Fields{
		"guests":   len(guests),
		"rooms":    len(rooms),
		"findings": len(findings),
	}).Info("Consistency checks complete")

	return findings, nil
}
