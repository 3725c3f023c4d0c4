package ingest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roomsvc/reservations-backend/internal/models"
)

// Date layouts seen in hotel placement spreadsheets.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

// ReadRoomsCSV parses a room placement CSV into room rows ready to be
// inserted. A room with a placed_by entry is special and excluded from
// automatic allocation; a room with a primary contact is pre-placed and
// starts unavailable.
func ReadRoomsCSV(r io.Reader) ([]models.Room, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	for i, row := range rows {
		get := fieldGetter(header, row)

		number := get("number")
		if number == "" {
			return nil, fmt.Errorf("row %d: room number is required", i+2)
		}

		roomType := get("room_type")
		if _, ok := models.RoomProducts[roomType]; !ok {
			return nil, fmt.Errorf("row %d: %w", i+2, &models.UnknownProductError{Product: roomType})
		}

		hotel := get("hotel")
		if hotel == "" {
			hotel = models.RoomProducts[roomType].Hotel
		}

		room := models.Room{
			Number:   number,
			RoomType: roomType,
			Hotel:    hotel,

			Primary:    get("primary"),
			Secondary:  get("secondary"),
			SPTicketID: get("ticket"),
		}

		features := strings.ToLower(get("features"))
		room.IsSmoking = strings.Contains(features, "smoking")
		room.IsLakeview = strings.Contains(features, "lakeview")
		room.IsMountainview = strings.Contains(features, "mountainview")
		room.IsADA = strings.Contains(features, "ada")
		room.IsHearingAccessible = strings.Contains(features, "hearing")

		room.IsSpecial = get("placed_by") != ""
		room.IsPlaced = room.Primary != ""
		room.IsAvailable = !room.IsSpecial && !room.IsPlaced
		room.IsSwappable = !room.IsSpecial

		if room.CheckIn, err = parseDate(get("check_in")); err != nil {
			return nil, fmt.Errorf("row %d: bad check_in: %w", i+2, err)
		}
		if room.CheckOut, err = parseDate(get("check_out")); err != nil {
			return nil, fmt.Errorf("row %d: bad check_out: %w", i+2, err)
		}

		rooms = append(rooms, room)
	}
	return rooms, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", value)
}
