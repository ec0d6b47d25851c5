package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"timetrack/internal/importer"
	"timetrack/internal/logging"
	"timetrack/internal/models"
	"timetrack/internal/repository"
	"timetrack/pkg/worktime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ImportService struct {
	db        *gorm.DB
	dayRepo   repository.DayRecordRepository
	options   importer.Options
	uploadDir string
	logger    *logrus.Logger
}

func NewImportService(db *gorm.DB, dayRepo repository.DayRecordRepository, options importer.Options, uploadDir string) *ImportService {
	return &ImportService{
		db:        db,
		dayRepo:   dayRepo,
		options:   options,
		uploadDir: uploadDir,
		logger:    logging.New(),
	}
}

type ConfirmResult struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	// Problems explains records that were valid on import but could not be stored.
	Problems []string `json:"problems,omitempty"`
}

// Preview rejects unsupported extensions and otherwise parses the document.
// Parse problems are part of the result, not the error.
func (s *ImportService) Preview(filename string, raw []byte) (importer.ImportResult, error) {
	imp, err := importer.ForFilename(filename, s.options)
	if err != nil {
		return importer.ImportResult{}, err
	}

	result := imp.Parse(raw)

	s.logger.WithFields(logrus.Fields{
		"file":   filepath.Base(filename),
		"total":  result.TotalRecords,
		"valid":  result.ValidRecords,
		"errors": len(result.Errors),
	}).Info("Import previewed")

	return result, nil
}

// Confirm writes every valid record of result for the employee in one
// transaction. Existing days are overwritten, clock data clears a previous
// absence, and any storage failure rolls the whole batch back.
func (s *ImportService) Confirm(ctx context.Context, employeeID uint, result importer.ImportResult) (*ConfirmResult, error) {
	confirm := &ConfirmResult{BatchID: uuid.New()}
	log := s.logger.WithFields(logrus.Fields{
		"batch_id":    confirm.BatchID,
		"employee_id": employeeID,
	})

	err := repository.Transaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		repo := s.dayRepo.WithTx(tx)

		for _, rec := range result.Records {
			if !rec.IsValid {
				confirm.Skipped++
				continue
			}

			if err := worktime.ValidateDate(rec.Date); err != nil {
				confirm.Skipped++
				confirm.Problems = append(confirm.Problems, err.Error())
				continue
			}

			intervals := []worktime.TimeInterval{}
			if rec.HasTimes() {
				intervals = append(intervals, worktime.TimeInterval{Entry: rec.EntryTime, Exit: rec.ExitTime})
				if err := worktime.ValidateIntervals(intervals); err != nil {
					confirm.Skipped++
					confirm.Problems = append(confirm.Problems, fmt.Sprintf("%s: %v", rec.Date, err))
					continue
				}
			}

			record, err := repo.GetByEmployeeAndDate(employeeID, rec.Date)
			if err != nil {
				return err
			}
			if record == nil {
				record = &models.DayRecord{EmployeeID: employeeID, Date: rec.Date}
			}

			record.Intervals = intervals
			record.Observation = rec.Observation
			if len(intervals) > 0 {
				record.AbsenceCode = nil
			}

			if err := repo.Upsert(record); err != nil {
				return fmt.Errorf("save %s: %w", rec.Date, err)
			}
			confirm.Imported++
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Import rolled back")
		return nil, fmt.Errorf("import rolled back: %w", err)
	}

	log.WithFields(logrus.Fields{
		"imported": confirm.Imported,
		"skipped":  confirm.Skipped,
	}).Info("Import confirmed")

	return confirm, nil
}

// Stage stores an uploaded document under a fresh id so that it can be
// previewed and confirmed later.
func (s *ImportService) Stage(filename string, raw []byte) (string, error) {
	if _, err := importer.KindFromFilename(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.uploadDir, id+ext)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"upload_id": id,
		"file":      filepath.Base(filename),
	}).Info("Upload staged")

	return id, nil
}

func (s *ImportService) PreviewUpload(uploadID string) (importer.ImportResult, error) {
	path, err := s.uploadPath(uploadID)
	if err != nil {
		return importer.ImportResult{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return importer.ImportResult{}, fmt.Errorf("read upload: %w", err)
	}
	return s.Preview(path, raw)
}

// ConfirmUpload re-parses the staged file, confirms it and removes it.
func (s *ImportService) ConfirmUpload(ctx context.Context, employeeID uint, uploadID string) (*ConfirmResult, error) {
	path, err := s.uploadPath(uploadID)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	result, err := s.Preview(path, raw)
	if err != nil {
		return nil, err
	}

	confirm, err := s.Confirm(ctx, employeeID, result)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(path); err != nil {
		s.logger.WithError(err).WithField("upload_id", uploadID).Warn("Failed to remove confirmed upload")
	}
	return confirm, nil
}

// Cancel discards a staged upload without importing it.
func (s *ImportService) Cancel(uploadID string) error {
	path, err := s.uploadPath(uploadID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove upload: %w", err)
	}

	s.logger.WithField("upload_id", uploadID).Info("Upload cancelled")
	return nil
}

func (s *ImportService) uploadPath(uploadID string) (string, error) {
	id, err := uuid.Parse(uploadID)
	if err != nil {
		return "", ErrUploadNotFound
	}
	matches, err := filepath.Glob(filepath.Join(s.uploadDir, id.String()+".*"))
	if err != nil || len(matches) == 0 {
		return "", ErrUploadNotFound
	}
	return matches[0], nil
}
