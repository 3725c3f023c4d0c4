package models

// TicketRecord is the normalized representation of one external ticket,
// regardless of whether it arrived via the ticket source API or a CSV
// export. Parsing from either source lives in internal/ingest.
type TicketRecord struct {
	TicketCode          string `json:"ticket_code"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Product             string `json:"product"`
	TransferredFromCode string `json:"transferred_from_code"`
	Status              string `json:"status"`
}

// FullName returns the record's display name, "First Last".
func (t TicketRecord) FullName() string {
	if t.FirstName == "" {
		return t.LastName
	}
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// IsTransfer reports whether this record arrived via a ticket transfer.
func (t TicketRecord) IsTransfer() bool {
	return t.TransferredFromCode != ""
}
