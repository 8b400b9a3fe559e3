package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		ID:   "p-1001",
		Team: "Team Molly Kelley",
		Attributes: []Attribute{
			{Key: "contract_status", Label: "Contract Status", Value: "CTC - Pending"},
			{Key: "closing_date", Label: "Closing", Value: "2025-03-14"},
			{Key: "ctc_started_with_empower", Label: "CTC Started with Empower", Value: "2025-01-02"},
		},
	}
}

func TestExtract(t *testing.T) {
	r := sampleRecord()

	v, ok := r.Extract("contract_status")
	require.True(t, ok)
	assert.Equal(t, "CTC - Pending", v)

	// Display labels match too.
	v, ok = r.Extract("Closing")
	require.True(t, ok)
	assert.Equal(t, "2025-03-14", v)

	_, ok = r.Extract("no_such_field")
	assert.False(t, ok)
}

func TestExtractLastOccurrenceWins(t *testing.T) {
	r := Record{Attributes: []Attribute{
		{Key: "closing_date", Value: "2025-01-01"},
		{Key: "contract_status", Value: "CTC - Pending"},
		{Key: "closing_date", Value: "2025-02-02"},
	}}

	v, ok := r.Extract("closing_date")
	require.True(t, ok)
	assert.Equal(t, "2025-02-02", v)

	// Batch extraction must agree with single-field extraction.
	proj := r.ExtractBatch([]string{"closing_date", "contract_status"})
	got, _ := proj.Get("closing_date")
	assert.Equal(t, "2025-02-02", got)
}

func TestExtractBatch(t *testing.T) {
	r := sampleRecord()
	schema := []string{"contract_status", "closing_date", "listing_paid_date"}

	proj := r.ExtractBatch(schema)

	for _, field := range schema {
		single, okSingle := r.Extract(field)
		batch, okBatch := proj.Get(field)
		assert.Equal(t, okSingle, okBatch, field)
		assert.Equal(t, single, batch, field)
	}

	_, ok := proj.Get("listing_paid_date")
	assert.False(t, ok)
}

func TestParseAttributes(t *testing.T) {
	raw := []byte(`[{"id":1,"key":"contract_status","label":"Contract Status","value":"CTC - Closed - PAID"},
		{"id":2,"key":"closing_date","label":"Closing","value":"2025-02-10"}]`)

	attrs := ParseAttributes(raw)
	require.Len(t, attrs, 2)
	assert.Equal(t, "CTC - Closed - PAID", attrs[0].Value)

	// Malformed payloads are swallowed: every field reads as absent.
	assert.Nil(t, ParseAttributes([]byte(`{"not":"a list"`)))
	assert.Nil(t, ParseAttributes(nil))

	r := Record{Attributes: ParseAttributes([]byte(`broken`))}
	proj := r.ExtractBatch([]string{"contract_status", "closing_date"})
	for _, field := range []string{"contract_status", "closing_date"} {
		_, ok := proj.Get(field)
		assert.False(t, ok, field)
	}
}

func TestEncodeAttributesRoundTrip(t *testing.T) {
	attrs := sampleRecord().Attributes
	again := ParseAttributes(EncodeAttributes(attrs))
	assert.Equal(t, attrs, again)
	assert.Equal(t, []byte("[]"), EncodeAttributes(nil))
}

func TestCollectionTeams(t *testing.T) {
	c := Collection{
		{ID: "1", Team: "Team Kimberly Lewis"},
		{ID: "2", Team: "Team Molly Kelley"},
		{ID: "3", Team: "Team Kimberly Lewis"},
	}
	assert.Equal(t, []string{"Team Kimberly Lewis", "Team Molly Kelley"}, c.Teams())
}
