package checks

import (
	"fmt"

	"github.com/roomsvc/reservations-backend/internal/models"
	"github.com/roomsvc/reservations-backend/pkg/fuzzy"
)

// roomChecks inspects room rows and their links back to guests.
func (r *Runner) roomChecks(rooms []models.Room, guests []models.Guest) ([]Finding, error) {
	var findings []Finding

	guestsByID := make(map[string]models.Guest, len(guests))
	guestsByTicket := make(map[string][]models.Guest)
	for _, g := range guests {
		guestsByID[g.ID] = g
		guestsByTicket[g.Ticket] = append(guestsByTicket[g.Ticket], g)
	}

	roomsByTicket := make(map[string][]models.Room)
	for _, room := range rooms {
		if room.SPTicketID != "" {
			roomsByTicket[room.SPTicketID] = append(roomsByTicket[room.SPTicketID], room)
		}
	}

	for ticket, tagged := range roomsByTicket {
		if len(tagged) > 1 {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("ticket %s is tagged on %d rooms", ticket, len(tagged)),
				Hint:    "run fixchain on the ticket",
			})
		}
	}

	for _, room := range rooms {
		label := fmt.Sprintf("room %s at %s", room.Number, room.Hotel)

		if room.GuestID == nil {
			if room.SPTicketID != "" && len(guestsByTicket[room.SPTicketID]) == 0 && !room.IsAvailable {
				findings = append(findings, Finding{
					Level:   LevelWarning,
					Message: fmt.Sprintf("%s is tagged with ticket %s but no guest holds it", label, room.SPTicketID),
					Hint:    "orphan reconciliation may pick it up on the next ingest",
				})
			}
			continue
		}

		guest, ok := guestsByID[*room.GuestID]
		if !ok {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("%s points at a guest row that does not exist", label),
			})
			continue
		}

		if room.SPTicketID != "" && len(guestsByTicket[room.SPTicketID]) == 0 {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("%s is tagged with ticket %s but no guest holds it", label, room.SPTicketID),
			})
		}

		if !guest.HasRoom() || *guest.RoomNumber != room.Number || guest.Hotel == nil || *guest.Hotel != room.Hotel {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("%s is linked to %s but the guest's room pointer disagrees", label, guest.Name),
			})
		}

		if room.Primary != "" {
			primary := fuzzy.Ratio(guest.Name, room.Primary)
			secondary := fuzzy.Ratio(guest.Name, room.Secondary)
			if primary < r.cfg.NameFuzzFactor && secondary < r.cfg.NameFuzzFactor {
				findings = append(findings, Finding{
					Level:   LevelWarning,
					Message: fmt.Sprintf("%s lists contact %q but is linked to guest %q", label, room.Primary, guest.Name),
				})
			}
		}

		if room.SPTicketID == "" {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%s is occupied by %s but carries no ticket code", label, guest.Name),
			})
		}

		if room.CheckIn == nil || room.CheckOut == nil {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%s is occupied but missing check-in or check-out dates", label),
			})
		}
	}

	return findings, nil
}
