package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONNestedObjects(t *testing.T) {
	record := FromJSON(map[string]interface{}{
		"ticket_code": "T1",
		"first_name":  "Sam",
		"last_name":   "Hain",
		"email":       "sam@example.com",
		"status":      "completed",
		"product":     map[string]interface{}{"name": "04.1 Bally's - Standard 2 Queen"},
		"transferred_from": map[string]interface{}{"code": "T0"},
	})

	assert.Equal(t, "T1", record.TicketCode)
	assert.Equal(t, "04.1 Bally's - Standard 2 Queen", record.Product)
	assert.Equal(t, "T0", record.TransferredFromCode)
	assert.True(t, record.IsTransfer())
}

func TestFromJSONFlatFields(t *testing.T) {
	record := FromJSON(map[string]interface{}{
		"ticket_code":           "T1",
		"product":               "04.1 Bally's - Standard 2 Queen",
		"transferred_from_code": "T0",
	})

	assert.Equal(t, "04.1 Bally's - Standard 2 Queen", record.Product)
	assert.Equal(t, "T0", record.TransferredFromCode)
}

func TestParseTicketsJSON(t *testing.T) {
	body := `{"tickets": [
		{"ticket_code": "T1", "product": {"name": "01.1 Bally's - Standard King"}},
		{"ticket_code": "T2", "product": "Tote Bag"}
	]}`

	records, err := ParseTicketsJSON([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01.1 Bally's - Standard King", records[0].Product)
	assert.Equal(t, "Tote Bag", records[1].Product)
}

func TestParseTicketsJSONBadBody(t *testing.T) {
	_, err := ParseTicketsJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestReadTicketsCSV(t *testing.T) {
	csv := strings.Join([]string{
		"ticket_code,first_name,last_name,email,product,transferred_from_code,status",
		"# staff notes live here",
		"T1,Sam,Hain,sam@example.com,01.1 Bally's - Standard King,,completed",
		"",
		"T2,New,Holder,new@example.com,01.1 Bally's - Standard King,T1,completed",
	}, "\n")

	records, err := ReadTicketsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "T1", records[0].TicketCode)
	assert.Equal(t, "Sam Hain", records[0].FullName())
	assert.False(t, records[0].IsTransfer())

	assert.Equal(t, "T1", records[1].TransferredFromCode)
	assert.True(t, records[1].IsTransfer())
}

func TestReadTicketsCSVHeaderCaseInsensitive(t *testing.T) {
	csv := strings.Join([]string{
		"Ticket Code,First Name,Last Name,Email,Product,Transferred From Code,Status",
		"T1,Sam,Hain,sam@example.com,Tote Bag,,completed",
	}, "\n")

	records, err := ReadTicketsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "T1", records[0].TicketCode)
}

func TestReadTicketsCSVEmpty(t *testing.T) {
	_, err := ReadTicketsCSV(strings.NewReader(""))
	assert.Error(t, err)
}
