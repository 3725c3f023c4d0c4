package checks

import (
	"fmt"

	"github.com/roomsvc/reservations-backend/internal/models"
)

// guestChecks inspects guest rows against each other and their rooms.
func (r *Runner) guestChecks(guests []models.Guest) ([]Finding, error) {
	var findings []Finding

	byTicket := make(map[string][]models.Guest)
	transferred := make(map[string]struct{})
	for _, g := range guests {
		byTicket[g.Ticket] = append(byTicket[g.Ticket], g)
		if g.Transfer != "" {
			transferred[g.Transfer] = struct{}{}
		}
	}

	for ticket, holders := range byTicket {
		if len(holders) > 1 {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("ticket %s is held by %d guest rows", ticket, len(holders)),
			})
		}
	}

	for _, guest := range guests {
		if guest.JWT == "" && guest.CanLogin {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf("guest %s (%s) has no login credential", guest.Name, guest.Ticket),
			})
		}

		if guest.HasRoom() && guest.Hotel != nil && r.cfg.VisibleHotel(*guest.Hotel) && !guest.CanLogin {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf("guest %s has a room at %s but cannot log in", guest.Name, *guest.Hotel),
			})
		}

		rooms, err := r.stores.Rooms().ByGuest(guest.ID)
		if err != nil {
			return nil, err
		}
		if len(rooms) > 1 {
			findings = append(findings, Finding{
				Level:   LevelError,
				Message: fmt.Sprintf("guest %s (%s) is linked to %d rooms", guest.Name, guest.Ticket, len(rooms)),
				Hint:    "run fixchain on the ticket",
			})
		}

		// An intermediate chain link must never keep a room; the room
		// belongs to whoever holds the tail ticket.
		if _, wasTransferred := transferred[guest.Ticket]; wasTransferred {
			if guest.HasRoom() || len(rooms) > 0 {
				findings = append(findings, Finding{
					Level:   LevelError,
					Message: fmt.Sprintf("guest %s transferred ticket %s away but still holds a room", guest.Name, guest.Ticket),
					Hint:    "run fixchain on the ticket",
				})
			}
		}
	}

	return findings, nil
}
