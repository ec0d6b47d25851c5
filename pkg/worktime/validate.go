package worktime

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalid is the parent of every structural validation failure.
var ErrInvalid = errors.New("invalid input")

type Reason string

const (
	ReasonEmpty       Reason = "EMPTY"
	ReasonMissingTime Reason = "MISSING_TIME"
	ReasonBadFormat   Reason = "BAD_FORMAT"
	ReasonOrder       Reason = "ORDER"
	ReasonBadDate     Reason = "BAD_DATE"
)

// ValidationError carries a machine-readable reason and a message that can be
// shown to the user as is.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ValidateDate accepts only YYYY-MM-DD naming an existing calendar day.
func ValidateDate(s string) error {
	if !datePattern.MatchString(s) {
		return &ValidationError{Reason: ReasonBadDate, Message: fmt.Sprintf("invalid date format: %q (use YYYY-MM-DD)", s)}
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &ValidationError{Reason: ReasonBadDate, Message: fmt.Sprintf("invalid date: %q", s)}
	}
	return nil
}

// ValidateTime accepts only zero-padded HH:MM with hours 00-23 and minutes 00-59.
func ValidateTime(s string) error {
	if !timePattern.MatchString(s) {
		return &ValidationError{Reason: ReasonBadFormat, Message: fmt.Sprintf("invalid time format: %q (use HH:MM)", s)}
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return &ValidationError{Reason: ReasonBadFormat, Message: fmt.Sprintf("invalid time: %q", s)}
	}
	return nil
}

func IsValidDate(s string) bool { return ValidateDate(s) == nil }

func IsValidTime(s string) bool { return ValidateTime(s) == nil }

// ValidateIntervals checks a day's intervals and stops at the first bad one.
func ValidateIntervals(intervals []TimeInterval) error {
	if len(intervals) == 0 {
		return &ValidationError{Reason: ReasonEmpty, Message: "no entries provided"}
	}

	for _, interval := range intervals {
		if interval.Entry == "" || interval.Exit == "" {
			return &ValidationError{Reason: ReasonMissingTime, Message: "entry and exit times are required"}
		}
		if !IsValidTime(interval.Entry) || !IsValidTime(interval.Exit) {
			return &ValidationError{Reason: ReasonBadFormat, Message: "invalid time format (use HH:MM)"}
		}
		// zero-padded HH:MM compares correctly as text
		if interval.Exit <= interval.Entry {
			return &ValidationError{Reason: ReasonOrder, Message: "exit time must be after entry time"}
		}
	}

	return nil
}
