package importer

import (
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTables struct {
	tables [][][]string
	err    error
}

func (s stubTables) Tables([]byte) ([][][]string, error) {
	return s.tables, s.err
}

type panickyTables struct{}

func (panickyTables) Tables([]byte) ([][][]string, error) {
	panic("corrupt xref table")
}

func TestPDFParseValidTable(t *testing.T) {
	imp := NewPDFImporter(stubTables{tables: [][][]string{{
		{"Fecha", "Entrada", "Salida", "Observaciones"},
		{"2025-03-10", "09:00", "17:00", "Normal day"},
	}}}, false)

	result := imp.Parse([]byte("%PDF"))

	require.Empty(t, result.Errors)
	require.Len(t, result.Records, 1)
	assert.Equal(t, TimeEntryRecord{
		Date:        "2025-03-10",
		EntryTime:   "09:00",
		ExitTime:    "17:00",
		Observation: "Normal day",
		IsValid:     true,
	}, result.Records[0])
}

func TestPDFTableWithoutHeader(t *testing.T) {
	imp := NewPDFImporter(stubTables{tables: [][][]string{{
		{"Name", "Value"},
		{"2025-03-10", "09:00"},
	}}}, false)

	result := imp.Parse(nil)

	assert.Empty(t, result.Records)
	assert.Empty(t, result.Errors)
}

func TestPDFRowPolicy(t *testing.T) {
	imp := NewPDFImporter(stubTables{tables: [][][]string{
		{
			{"Monthly attendance report"},
			{"Fecha", "Entrada", "Salida", "Observaciones"},
			{"15/03/2025", "9:30", "17:00", ""},
			{"2025-03-11", "09:00"},
			{"", "09:00", "17:00", "no date"},
			{"2025-03-12", "nine", "17:00", "lenient"},
			{"2025-13-01", "09:00", "17:00", ""},
		},
		{
			{"Date", "In", "Out"},
			{"2025-03-20", "08:00", "16:00"},
		},
	}}, false)

	result := imp.Parse(nil)

	require.Len(t, result.Records, 4)

	assert.Equal(t, "2025-03-15", result.Records[0].Date)
	assert.Equal(t, "09:30", result.Records[0].EntryTime)
	assert.True(t, result.Records[0].IsValid)

	// malformed times are treated as missing
	assert.True(t, result.Records[1].IsValid)
	assert.Empty(t, result.Records[1].EntryTime)
	assert.Equal(t, "17:00", result.Records[1].ExitTime)

	assert.False(t, result.Records[2].IsValid)
	assert.Equal(t, "Invalid date format: 2025-13-01", result.Records[2].ErrorMessage)

	// second table follows the first
	assert.Equal(t, "2025-03-20", result.Records[3].Date)
	assert.Equal(t, 3, result.ValidRecords)
}

func TestPDFStrictTimes(t *testing.T) {
	imp := NewPDFImporter(stubTables{tables: [][][]string{{
		{"Fecha", "Entrada", "Salida"},
		{"2025-03-12", "nine", "17:00"},
		{"2025-03-13", "09:00", "5pm"},
		{"2025-03-14", "", ""},
	}}}, true)

	result := imp.Parse(nil)

	require.Len(t, result.Records, 3)
	assert.False(t, result.Records[0].IsValid)
	assert.Equal(t, "Invalid entry time: nine", result.Records[0].ErrorMessage)
	assert.False(t, result.Records[1].IsValid)
	assert.Equal(t, "Invalid exit time: 5pm", result.Records[1].ErrorMessage)
	assert.True(t, result.Records[2].IsValid)
}

func TestPDFExtractionFailures(t *testing.T) {
	result := NewPDFImporter(stubTables{err: errors.New("encrypted")}, false).Parse(nil)
	assert.Empty(t, result.Records)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Error parsing PDF")

	result = NewPDFImporter(panickyTables{}, false).Parse(nil)
	assert.Empty(t, result.Records)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "corrupt xref table")

	result = NewPDFImporter(nil, false).Parse([]byte("not a pdf"))
	assert.Empty(t, result.Records)
	assert.NotEmpty(t, result.Errors)
}

func TestNormalizePDFValues(t *testing.T) {
	assert.Equal(t, "2025-03-15", normalizePDFDate(" 15/03/2025 "))
	assert.Equal(t, "2025-03-15", normalizePDFDate("2025-03-15"))
	assert.Equal(t, "March 15", normalizePDFDate("March 15"))

	got, ok := normalizePDFTime("9:30")
	assert.Equal(t, "09:30", got)
	assert.True(t, ok)

	got, ok = normalizePDFTime(" 09:30 ")
	assert.Equal(t, "09:30", got)
	assert.True(t, ok)

	got, ok = normalizePDFTime("invalid")
	assert.Empty(t, got)
	assert.False(t, ok)
}

func TestSplitCells(t *testing.T) {
	row := pdf.TextHorizontal{
		{S: "Observaciones", X: 300},
		{S: "Fecha", X: 40},
		{S: "Entrada", X: 120},
		{S: "Sal", X: 200},
		{S: "ida", X: 216.5},
		{S: " ", X: 280},
	}

	cells := TextTableExtractor{}.splitCells(row)

	assert.Equal(t, []string{"Fecha", "Entrada", "Salida", "Observaciones"}, cells)
}

func TestTextTableKeepsBlankCells(t *testing.T) {
	header := pdf.TextHorizontal{
		{S: "Fecha", X: 40},
		{S: "Entrada", X: 120},
		{S: "Salida", X: 200},
		{S: "Observaciones", X: 300},
	}
	lines := []pdf.TextHorizontal{
		{{S: "Registro de asistencia", X: 40}},
		header,
		{{S: "2025-03-10", X: 40}, {S: "17:00", X: 200}, {S: "olvido", X: 300}},
		{{S: "2025-03-11", X: 40}, {S: "09:00", X: 120}, {S: "sin", X: 300}, {S: "salida", X: 330}},
		{{S: "2025-03-12", X: 40}, {S: "09:00", X: 121}, {S: "17:00", X: 199}},
	}

	table := TextTableExtractor{}.table(lines)

	require.Len(t, table, 5)
	assert.Equal(t, []string{"Registro de asistencia"}, table[0])
	assert.Equal(t, []string{"Fecha", "Entrada", "Salida", "Observaciones"}, table[1])
	assert.Equal(t, []string{"2025-03-10", "", "17:00", "olvido"}, table[2])
	assert.Equal(t, []string{"2025-03-11", "09:00", "", "sin salida"}, table[3])
	assert.Equal(t, []string{"2025-03-12", "09:00", "17:00", ""}, table[4])

	result := NewPDFImporter(stubTables{tables: [][][]string{table}}, false).Parse(nil)

	require.Len(t, result.Records, 3)
	assert.Equal(t, 3, result.ValidRecords)
	assert.Equal(t, TimeEntryRecord{Date: "2025-03-10", ExitTime: "17:00", Observation: "olvido", IsValid: true}, result.Records[0])
	assert.Equal(t, TimeEntryRecord{Date: "2025-03-11", EntryTime: "09:00", Observation: "sin salida", IsValid: true}, result.Records[1])
	assert.Equal(t, TimeEntryRecord{Date: "2025-03-12", EntryTime: "09:00", ExitTime: "17:00", IsValid: true}, result.Records[2])
}

func TestTextTableHeaderOnEachPage(t *testing.T) {
	lines := []pdf.TextHorizontal{
		{{S: "2025-03-10", X: 40}, {S: "09:00", X: 120}},
		{{S: "Date", X: 10}, {S: "In", X: 100}, {S: "Out", X: 160}},
		{{S: "2025-03-10", X: 10}, {S: "18:00", X: 160}},
	}

	table := TextTableExtractor{}.table(lines)

	require.Len(t, table, 3)
	// rows above the header keep the gap split
	assert.Equal(t, []string{"2025-03-10", "09:00"}, table[0])
	assert.Equal(t, []string{"2025-03-10", "", "18:00"}, table[2])
}
