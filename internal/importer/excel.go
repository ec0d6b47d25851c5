package importer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"timetrack/internal/logging"
	"timetrack/pkg/worktime"

	"github.com/extrame/xls"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Legacy .xls files are OLE2 compound documents.
var ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Serial numbers outside this range are not treated as dates; a bare year
// such as 2025 stays a year.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// BIFF8 sheets have at most 256 columns.
const xlsMaxCols = 256

var clockWithSeconds = regexp.MustCompile(`^(\d{2}:\d{2}):\d{2}$`)

type ExcelImporter struct {
	logger *logrus.Logger
}

func NewExcelImporter() *ExcelImporter {
	return &ExcelImporter{logger: logging.New()}
}

// Parse reads the first worksheet. The first row is the header.
func (e *ExcelImporter) Parse(raw []byte) (result ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("panic", r).Error("Excel parser panicked")
			result = newResult(nil, []string{fmt.Sprintf("Error parsing Excel: %v", r)})
		}
	}()

	rows, err := readSpreadsheet(raw)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to read spreadsheet")
		return newResult(nil, []string{fmt.Sprintf("Error parsing Excel: %v", err)})
	}

	if len(rows) == 0 {
		return newResult(nil, []string{"Could not find 'Fecha' or 'Date' column"})
	}

	cols := mapColumns(rows[0])
	if !cols.has(fieldDate) {
		return newResult(nil, []string{"Could not find 'Fecha' or 'Date' column"})
	}

	var records []TimeEntryRecord
	for _, row := range rows[1:] {
		rawDate := strings.TrimSpace(cols.cell(row, fieldDate))
		if rawDate == "" {
			continue
		}

		date := excelDate(rawDate)
		entry := excelTime(cols.cell(row, fieldEntry))
		exit := excelTime(cols.cell(row, fieldExit))

		ok, msg := validate(date, entry, exit, date, entry, exit)
		records = append(records, TimeEntryRecord{
			Date:         date,
			EntryTime:    entry,
			ExitTime:     exit,
			Observation:  strings.TrimSpace(cols.cell(row, fieldObservation)),
			IsValid:      ok,
			ErrorMessage: msg,
		})
	}

	e.logger.WithFields(logrus.Fields{
		"records": len(records),
	}).Debug("Excel parsed")

	return newResult(records, nil)
}

func readSpreadsheet(raw []byte) ([][]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty file")
	}

	if bytes.HasPrefix(raw, ole2Magic) {
		workbook, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, errors.New("no worksheet found")
		}
		sheet := workbook.GetSheet(0)
		if sheet == nil {
			return nil, errors.New("no worksheet found")
		}
		return xlsRows(sheet), nil
	}

	file, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}

	// raw values keep date and time cells as serial numbers
	return file.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

// xlsRows reads one sheet only. Rows without cells come back empty.
func xlsRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		// cells added without a ROW record leave LastCol at zero
		width := row.LastCol()
		if width <= 0 {
			width = xlsMaxCols
		}

		cells := make([]string, width)
		for c := row.FirstCol(); c < width; c++ {
			cells[c] = row.Col(c)
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		rows = append(rows, cells)
	}
	return rows
}

// xlsRow returns nil for a missing row; WorkSheet.Row panics on those.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// excelDate turns a serial or timestamp cell into YYYY-MM-DD and passes any
// other text through for validation.
func excelDate(s string) string {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= minDateSerial && serial <= maxDateSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return worktime.FormatDate(t)
			}
		}
		return s
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return worktime.FormatDate(t)
	}
	if len(s) > len(worktime.DateLayout) && worktime.IsValidDate(s[:len(worktime.DateLayout)]) {
		if _, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return s[:len(worktime.DateLayout)]
		}
	}
	return s
}

// excelTime turns a day fraction, serial or timestamp cell into HH:MM. Other
// text is passed through trimmed so that validation can flag it.
func excelTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		// a zero fraction is midnight; other whole numbers below the date
		// range are not clock values
		if v == 0 {
			return "00:00"
		}
		if v == math.Trunc(v) && v < minDateSerial {
			return s
		}
		return clockFromFraction(v)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(worktime.TimeLayout)
	}
	if m := clockWithSeconds.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func clockFromFraction(v float64) string {
	_, frac := math.Modf(v)
	if frac < 0 {
		frac += 1
	}
	minutes := int(math.Round(frac * 24 * 60))
	// a fraction just short of a whole day rounds up to 24:00
	if minutes >= 24*60 {
		minutes = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
