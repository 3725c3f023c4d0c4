// Package ingest parses external ticket and room data into the models
// this system works with. It accepts both the ticket source API's JSON
// shape and hand-maintained CSV exports.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roomsvc/reservations-backend/internal/models"
)

// FromJSON builds a TicketRecord from one decoded ticket object. The
// ticket source nests product and transfer references as sub-objects,
// but older exports flatten them to plain strings; both are accepted.
func FromJSON(raw map[string]interface{}) models.TicketRecord {
	record := models.TicketRecord{
		TicketCode: stringField(raw, "ticket_code"),
		FirstName:  stringField(raw, "first_name"),
		LastName:   stringField(raw, "last_name"),
		Email:      stringField(raw, "email"),
		Status:     stringField(raw, "status"),
	}

	switch product := raw["product"].(type) {
	case string:
		record.Product = product
	case map[string]interface{}:
		record.Product = stringField(product, "name")
	}

	switch transfer := raw["transferred_from"].(type) {
	case string:
		record.TransferredFromCode = transfer
	case map[string]interface{}:
		record.TransferredFromCode = stringField(transfer, "code")
	}
	if record.TransferredFromCode == "" {
		record.TransferredFromCode = stringField(raw, "transferred_from_code")
	}

	return record
}

// ParseTicketsJSON decodes a ticket source export body, which wraps the
// ticket list in a "tickets" field.
func ParseTicketsJSON(data []byte) ([]models.TicketRecord, error) {
	var envelope struct {
		Tickets []map[string]interface{} `json:"tickets"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode ticket export: %w", err)
	}

	records := make([]models.TicketRecord, 0, len(envelope.Tickets))
	for _, raw := range envelope.Tickets {
		records = append(records, FromJSON(raw))
	}
	return records, nil
}

// ReadTicketsCSV parses a ticket export CSV. The first row is a header;
// blank lines and lines starting with '#' are skipped.
func ReadTicketsCSV(r io.Reader) ([]models.TicketRecord, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	var records []models.TicketRecord
	for _, row := range rows {
		get := fieldGetter(header, row)
		records = append(records, models.TicketRecord{
			TicketCode:          get("ticket_code"),
			FirstName:           get("first_name"),
			LastName:            get("last_name"),
			Email:               get("email"),
			Product:             get("product"),
			TransferredFromCode: get("transferred_from_code"),
			Status:              get("status"),
		})
	}
	return records, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// readCSV reads all data rows plus a normalized header index.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("csv is empty")
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[normalizeHeader(name)] = i
	}

	var rows [][]string
	for _, row := range all[1:] {
		if blankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func fieldGetter(header map[string]int, row []string) func(string) string {
	return func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
}
