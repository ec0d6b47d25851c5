package importer

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"timetrack/internal/logging"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

var (
	pdfDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	pdfTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// TableExtractor returns the tables of a document, one slice of rows per table,
// in page order.
type TableExtractor interface {
	Tables(raw []byte) ([][][]string, error)
}

type PDFImporter struct {
	tables      TableExtractor
	strictTimes bool
	logger      *logrus.Logger
}

// NewPDFImporter uses the text-layout extractor when tables is nil.
func NewPDFImporter(tables TableExtractor, strictTimes bool) *PDFImporter {
	if tables == nil {
		tables = TextTableExtractor{}
	}
	return &PDFImporter{
		tables:      tables,
		strictTimes: strictTimes,
		logger:      logging.New(),
	}
}

func (p *PDFImporter) Parse(raw []byte) (result ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("PDF parser panicked")
			result = newResult(nil, []string{fmt.Sprintf("Error parsing PDF: %v", r)})
		}
	}()

	tables, err := p.tables.Tables(raw)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to extract PDF tables")
		return newResult(nil, []string{fmt.Sprintf("Error parsing PDF: %v", err)})
	}

	var records []TimeEntryRecord
	for _, table := range tables {
		records = append(records, p.processTable(table)...)
	}

	p.logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"records": len(records),
	}).Debug("PDF parsed")

	return newResult(records, nil)
}

// processTable finds the header row, the first one with a cell that is
// exactly "fecha" or "date", and reads the rows below it.
func (p *PDFImporter) processTable(table [][]string) []TimeEntryRecord {
	var cols columnMap
	start := -1
	for idx, row := range table {
		if isHeaderRow(row) {
			cols = mapColumns(row)
			start = idx + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var records []TimeEntryRecord
	for _, row := range table[start:] {
		if len(row) <= cols.maxIndex() {
			continue
		}
		rawDate := cols.cell(row, fieldDate)
		if strings.TrimSpace(rawDate) == "" {
			continue
		}

		rawEntry := cols.cell(row, fieldEntry)
		rawExit := cols.cell(row, fieldExit)

		date := normalizePDFDate(rawDate)
		entry, entryOK := normalizePDFTime(rawEntry)
		exit, exitOK := normalizePDFTime(rawExit)

		ok, msg := validate(date, entry, exit, rawDate, rawEntry, rawExit)
		if ok && p.strictTimes {
			switch {
			case !entryOK:
				ok, msg = false, fmt.Sprintf("Invalid entry time: %s", rawEntry)
			case !exitOK:
				ok, msg = false, fmt.Sprintf("Invalid exit time: %s", rawExit)
			}
		}

		records = append(records, TimeEntryRecord{
			Date:         date,
			EntryTime:    entry,
			ExitTime:     exit,
			Observation:  cols.cell(row, fieldObservation),
			IsValid:      ok,
			ErrorMessage: msg,
		})
	}
	return records
}

func isHeaderRow(row []string) bool {
	for _, c := range row {
		if h := normalizeHeader(c); h == "fecha" || h == "date" {
			return true
		}
	}
	return false
}

// normalizePDFDate converts DD/MM/YYYY to YYYY-MM-DD and leaves anything
// else alone.
func normalizePDFDate(s string) string {
	s = strings.TrimSpace(s)
	if m := pdfDatePattern.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return s
}

// normalizePDFTime zero-pads H:MM. Unrecognized text becomes "" with ok set
// to false; an empty cell is "" with ok true.
func normalizePDFTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if !pdfTimePattern.MatchString(s) {
		return "", false
	}
	if len(s) == 4 {
		return "0" + s, true
	}
	return s, true
}

// TextTableExtractor rebuilds tables from the text layout: every page is one
// table and every text line is a row. Lines above the header are split into
// cells on horizontal gaps. Once a header row is seen, each text run goes to
// the header column whose left edge is nearest, so blank cells stay "".
type TextTableExtractor struct {
	// CellGap is the minimum horizontal distance in points between two cells.
	CellGap float64
	// CharWidth estimates the advance of one character in points.
	CharWidth float64
}

const (
	defaultCellGap   = 6.0
	defaultCharWidth = 5.5
)

// segment is a run of text with the X of its left edge.
type segment struct {
	text string
	x    float64
}

func (e TextTableExtractor) Tables(raw []byte) ([][][]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}

	var tables [][][]string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		lines := make([]pdf.TextHorizontal, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, row.Content)
		}
		if table := e.table(lines); len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

// table turns the text lines of one page into rows of cells.
func (e TextTableExtractor) table(lines []pdf.TextHorizontal) [][]string {
	var (
		table   [][]string
		columns []float64
	)
	for _, line := range lines {
		segments := e.segments(line)
		if len(segments) == 0 {
			continue
		}

		cells := segmentTexts(segments)
		switch {
		case isHeaderRow(cells):
			columns = make([]float64, len(segments))
			for i, seg := range segments {
				columns[i] = seg.x
			}
		case columns != nil:
			cells = alignCells(segments, columns)
		}
		table = append(table, cells)
	}
	return table
}

func (e TextTableExtractor) splitCells(texts pdf.TextHorizontal) []string {
	return segmentTexts(e.segments(texts))
}

// segments merges text fragments into runs separated by at least CellGap.
func (e TextTableExtractor) segments(texts pdf.TextHorizontal) []segment {
	gap := e.CellGap
	if gap <= 0 {
		gap = defaultCellGap
	}
	charWidth := e.CharWidth
	if charWidth <= 0 {
		charWidth = defaultCharWidth
	}

	fragments := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			fragments = append(fragments, t)
		}
	}
	sort.SliceStable(fragments, func(i, j int) bool { return fragments[i].X < fragments[j].X })

	var segments []segment
	var current strings.Builder
	start, end := 0.0, 0.0
	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			segments = append(segments, segment{text: text, x: start})
		}
		current.Reset()
	}
	for i, t := range fragments {
		width := t.W
		if width <= 0 {
			width = float64(utf8.RuneCountInString(t.S)) * charWidth
		}
		if i == 0 {
			start = t.X
		} else if t.X-end >= gap {
			flush()
			start = t.X
		}
		current.WriteString(t.S)
		end = t.X + width
	}
	flush()
	return segments
}

func segmentTexts(segments []segment) []string {
	cells := make([]string, len(segments))
	for i, seg := range segments {
		cells[i] = seg.text
	}
	return cells
}

// alignCells places every segment under the nearest header column. Runs that
// land in the same column are joined with a space.
func alignCells(segments []segment, columns []float64) []string {
	cells := make([]string, len(columns))
	for _, seg := range segments {
		idx := nearestColumn(columns, seg.x)
		if cells[idx] != "" {
			cells[idx] += " "
		}
		cells[idx] += seg.text
	}
	return cells
}

func nearestColumn(columns []float64, x float64) int {
	best := 0
	for i, col := range columns {
		if math.Abs(col-x) < math.Abs(columns[best]-x) {
			best = i
		}
	}
	return best
}
