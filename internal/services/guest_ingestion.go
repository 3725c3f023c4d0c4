package services

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomsvc/reservations-backend/internal/config"
	"github.com/roomsvc/reservations-backend/internal/database"
	"github.com/roomsvc/reservations-backend/internal/ingest"
	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

// TicketExporter fetches ticket records from the external ticket source.
type TicketExporter interface {
	ExportTickets(opts ticketsource.ExportOptions) ([]models.TicketRecord, error)
}

// IngestReport summarizes one ingestion run for the operator.
type IngestReport struct {
	Source        string
	Timestamp     time.Time
	OrphanTickets []string
	CountLines    []string
}

// GuestIngestionService runs complete ingestion passes: fetch, validate,
// reconcile orphan rooms, then process the batch.
type GuestIngestionService struct {
	stores     database.Stores
	cfg        *config.Config
	logger     *logrus.Logger
	exporter   TicketExporter
	validator  *GuestValidationService
	orphans    *OrphanReconciliationService
	processing *GuestProcessingService
}

// NewGuestIngestionService creates a new GuestIngestionService.
func NewGuestIngestionService(
	stores database.Stores,
	cfg *config.Config,
	logger *logrus.Logger,
	exporter TicketExporter,
	validator *GuestValidationService,
	orphans *OrphanReconciliationService,
	processing *GuestProcessingService,
) *GuestIngestionService {
	return &GuestIngestionService{
		stores:     stores,
		cfg:        cfg,
		logger:     logger,
		exporter:   exporter,
		validator:  validator,
		orphans:    orphans,
		processing: processing,
	}
}

// IngestFromTicketSource pulls a fresh export and processes it.
func (s *GuestIngestionService) IngestFromTicketSource(forceRefresh bool) (*IngestReport, error) {
	records, err := s.exporter.ExportTickets(ticketsource.ExportOptions{
		Order:        "created_at",
		ForceRefresh: forceRefresh,
	})
	if err != nil {
		return nil, err
	}
	return s.run(records, "ticket source")
}

// IngestFromCSV processes a hand-supplied ticket export CSV.
func (s *GuestIngestionService) IngestFromCSV(r io.Reader) (*IngestReport, error) {
	records, err := ingest.ReadTicketsCSV(r)
	if err != nil {
		return nil, err
	}
	return s.run(records, "csv")
}

func (s *GuestIngestionService) run(records []models.TicketRecord, source string) (*IngestReport, error) {
	s.logger.WithFields(logrus.Fields{
		"source":  source,
		"records": len(records),
	}).Info("Starting ingestion run")

	valid, err := s.validator.FilterValid(records)
	if err != nil {
		return nil, err
	}

	counts, err := NewRoomCounts(s.stores.Rooms())
	if err != nil {
		return nil, err
	}

	orphanTickets, err := s.orphans.Reconcile(valid, counts)
	if err != nil {
		return nil, err
	}

	orphanSet := make(map[string]struct{}, len(orphanTickets))
	for _, t := range orphanTickets {
		orphanSet[t] = struct{}{}
	}

	if err := s.processing.ProcessRecords(valid, counts, orphanSet); err != nil {
		return nil, err
	}

	report := &IngestReport{
		Source:        source,
		Timestamp:     time.Now(),
		OrphanTickets: orphanTickets,
		CountLines:    counts.Output(),
	}

	for _, line := range report.CountLines {
		s.logger.Info(line)
	}
	return report, nil
}
