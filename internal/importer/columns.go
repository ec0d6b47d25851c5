package importer

import (
	"fmt"
	"strings"

	"timetrack/pkg/worktime"
)

type field int

const (
	fieldDate field = iota
	fieldEntry
	fieldExit
	fieldObservation
)

// Header synonyms, checked in this order. A header takes the first field it
// matches, so "fecha de entrada" is a date column.
var headerSynonyms = []struct {
	field field
	words []string
}{
	{fieldDate, []string{"fecha", "date"}},
	{fieldEntry, []string{"entrada", "in"}},
	{fieldExit, []string{"salida", "out"}},
	{fieldObservation, []string{"observ", "note"}},
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func matchHeader(header string) (field, bool) {
	h := normalizeHeader(header)
	if h == "" {
		return 0, false
	}
	for _, syn := range headerSynonyms {
		for _, w := range syn.words {
			if strings.Contains(h, w) {
				return syn.field, true
			}
		}
	}
	return 0, false
}

// columnMap maps a field to its column index. When several headers match the
// same field the rightmost one wins.
type columnMap map[field]int

func mapColumns(headers []string) columnMap {
	cols := columnMap{}
	for idx, h := range headers {
		if f, ok := matchHeader(h); ok {
			cols[f] = idx
		}
	}
	return cols
}

func (c columnMap) has(f field) bool {
	_, ok := c[f]
	return ok
}

func (c columnMap) maxIndex() int {
	highest := -1
	for _, idx := range c {
		if idx > highest {
			highest = idx
		}
	}
	return highest
}

// cell returns the value of field f in row, or "" when the column is not
// mapped or the row is too short.
func (c columnMap) cell(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// validate runs the date, entry and exit checks in that order; the first
// failure names the field and the raw value.
func validate(date, entry, exit string, rawDate, rawEntry, rawExit string) (bool, string) {
	switch {
	case !worktime.IsValidDate(date):
		return false, fmt.Sprintf("Invalid date format: %s", rawDate)
	case entry != "" && !worktime.IsValidTime(entry):
		return false, fmt.Sprintf("Invalid entry time: %s", rawEntry)
	case exit != "" && !worktime.IsValidTime(exit):
		return false, fmt.Sprintf("Invalid exit time: %s", rawExit)
	}
	return true, ""
}
