package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedExtension is returned before any parsing when the file name
// does not map to a known document kind.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// TimeEntryRecord is one parsed row. Empty EntryTime, ExitTime or Observation
// means the value was not provided. Invalid records are still emitted so that
// a preview can show them.
type TimeEntryRecord struct {
	Date         string `json:"date"`
	EntryTime    string `json:"entry_time,omitempty"`
	ExitTime     string `json:"exit_time,omitempty"`
	Observation  string `json:"observation,omitempty"`
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// HasTimes reports whether both clock times are present.
func (r TimeEntryRecord) HasTimes() bool {
	return r.EntryTime != "" && r.ExitTime != ""
}

type ImportResult struct {
	Records      []TimeEntryRecord `json:"records"`
	TotalRecords int               `json:"total_records"`
	ValidRecords int               `json:"valid_records"`
	Errors       []string          `json:"errors"`
}

func newResult(records []TimeEntryRecord, errs []string) ImportResult {
	if records == nil {
		records = []TimeEntryRecord{}
	}
	if errs == nil {
		errs = []string{}
	}

	valid := 0
	for _, r := range records {
		if r.IsValid {
			valid++
		}
	}

	return ImportResult{
		Records:      records,
		TotalRecords: len(records),
		ValidRecords: valid,
		Errors:       errs,
	}
}

// Importer turns raw document bytes into records. Implementations never
// fail: problems end up in ImportResult.Errors.
type Importer interface {
	Parse(raw []byte) ImportResult
}

type Kind int

const (
	KindExcel Kind = iota + 1
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindExcel:
		return "excel"
	case KindPDF:
		return "pdf"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var extensions = map[string]Kind{
	"xlsx": KindExcel,
	"xls":  KindExcel,
	"pdf":  KindPDF,
}

// KindFromFilename selects the document kind from the file extension,
// case-insensitively.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	kind, ok := extensions[ext]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return kind, nil
}

type Options struct {
	// StrictPDFTimes flags malformed PDF times as invalid records instead of
	// dropping them silently.
	StrictPDFTimes bool
	// Tables overrides PDF table extraction.
	Tables TableExtractor
}

func New(kind Kind, opts Options) (Importer, error) {
	switch kind {
	case KindExcel:
		return NewExcelImporter(), nil
	case KindPDF:
		return NewPDFImporter(opts.Tables, opts.StrictPDFTimes), nil
	default:
		return nil, fmt.Errorf("unknown importer kind %v", kind)
	}
}

// ForFilename picks the importer for a file name.
func ForFilename(name string, opts Options) (Importer, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return nil, err
	}
	return New(kind, opts)
}
