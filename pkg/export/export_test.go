package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{Headers: []string{"Name", "Class", "Balance"}}
	data.AddRow("Ama", "Grade 5", "$300.00")
	data.AddRow("Kofi, Jr.", "N/A", "$0.00")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Name,Class,Balance\nAma,Grade 5,$300.00\n\"Kofi, Jr.\",N/A,$0.00\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"A", "B"}, Rows: [][]string{{"only"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := Dataset{Headers: []string{"Metric", "Value"}}
	table.AddRow("Total Students", "2")

	out, err := NewPDFExporter().Render(Document{
		Title: "Summary",
		Sections: []Section{
			{Table: &table},
			{NewPage: true, Heading: "Receipt", Fields: []Field{{Label: "Amount Paid", Value: "$20.00"}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRejectsBadTable(t *testing.T) {
	_, err := NewPDFExporter().Render(Document{Sections: []Section{{Table: &Dataset{}}}})
	assert.Error(t, err)
}
