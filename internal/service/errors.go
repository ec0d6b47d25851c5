package service

import (
	"errors"
	"fmt"

	"timetrack/internal/repository"
)

var (
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrUnknownAbsenceCode is a not-found outcome for day types that are
	// not registered absence codes.
	ErrUnknownAbsenceCode = fmt.Errorf("%w: unknown absence code", repository.ErrNotFound)

	// ErrInvalidDayType rejects day types that only the calendar assigns.
	ErrInvalidDayType = errors.New("invalid day type")

	ErrUploadNotFound = fmt.Errorf("%w: upload not found or expired", repository.ErrNotFound)
)
