package checks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/internal/ticketsource"
)

// sourceChecks cross-references the database against the ticket source
// in both directions: every assigned room must sit on a live source
// ticket, and every live room-selling ticket must resolve to exactly
// one housed guest. Missing credentials or a failed export degrade to
// an Info finding rather than sinking the whole run.
func (r *Runner) sourceChecks(rooms []models.Room, guests []models.Guest) ([]Finding, error) {
	if !r.cfg.TicketSource.SystemChecks {
		return []Finding{{
			Level:   LevelInfo,
			Message: "ticket source cross-checks disabled by configuration",
		}}, nil
	}
	if r.exporter == nil || r.cfg.TicketSource.APIKey == "" {
		return []Finding{{
			Level:   LevelInfo,
			Message: "ticket source cross-checks skipped, no API key configured",
		}}, nil
	}

	records, err := r.exporter.ExportTickets(ticketsource.ExportOptions{Order: "created_at"})
	if errors.Is(err, ticketsource.ErrAuth) {
		return []Finding{{
			Level:   LevelWarning,
			Message: "ticket source rejected the API key, cross-checks skipped",
		}}, nil
	}
	if err != nil {
		return []Finding{{
			Level:   LevelWarning,
			Message: fmt.Sprintf("ticket source export failed, cross-checks skipped: %v", err),
		}}, nil
	}

	status := make(map[string]string, len(records))
	for _, record := range records {
		status[record.TicketCode] = record.Status
	}

	var findings []Finding
	for _, room := range rooms {
		if room.GuestID == nil || room.SPTicketID == "" {
			continue
		}
		label := fmt.Sprintf("room %s at %s", room.Number, room.Hotel)

		st, known := status[room.SPTicketID]
		if !known {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%s is held on ticket %s, which the ticket source does not know", label, room.SPTicketID),
			})
			continue
		}

		if strings.EqualFold(st, "refunded") {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("%s is held on refunded ticket %s", label, room.SPTicketID),
				Hint:    "run guestfix on the ticket",
			})
		}
	}

	transferredAway := make(map[string]struct{})
	for _, record := range records {
		if record.TransferredFromCode != "" {
			transferredAway[record.TransferredFromCode] = struct{}{}
		}
	}

	guestsByTicket := make(map[string][]models.Guest, len(guests))
	for _, g := range guests {
		guestsByTicket[g.Ticket] = append(guestsByTicket[g.Ticket], g)
	}
	roomKeys := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		roomKeys[room.Hotel+"/"+room.Number] = struct{}{}
	}

	for _, record := range records {
		if _, gone := transferredAway[record.TicketCode]; gone {
			continue
		}
		if strings.EqualFold(record.Status, "refunded") {
			continue
		}
		if _, err := models.ShortProductCode(record.Product); err != nil {
			continue
		}

		holders := guestsByTicket[record.TicketCode]
		switch {
		case len(holders) == 0:
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("source ticket %s sells a room but has no guest row", record.TicketCode),
				Hint:    "run ingest",
			})
		case len(holders) > 1:
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("source ticket %s is held by %d guest rows", record.TicketCode, len(holders)),
			})
		default:
			guest := holders[0]
			if !guest.HasRoom() || guest.Hotel == nil {
				findings = append(findings, Finding{
					Level:   LevelError,
					Message: fmt.Sprintf("guest %s holds live source ticket %s but has no room", guest.Name, record.TicketCode),
				})
			} else if _, ok := roomKeys[*guest.Hotel+"/"+*guest.RoomNumber]; !ok {
				findings = append(findings, Finding{
					Level:   LevelError,
					Message: fmt.Sprintf("guest %s points at room %s at %s, which does not exist", guest.Name, *guest.RoomNumber, *guest.Hotel),
				})
			}
		}
	}

	return findings, nil
}
