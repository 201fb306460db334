package booking

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"courtly/internal/pkg/apperr"
)

var (
	ErrOverlap            = errors.New("slot overlap")
	ErrInvalidRange       = errors.New("invalid time range")
	ErrCancellationWindow = errors.New("inside cancellation window")
	ErrAlreadyTerminal    = errors.New("booking already terminal")
)

func init() {
	apperr.Register(ErrOverlap)
	apperr.Register(ErrInvalidRange)
	apperr.Register(ErrCancellationWindow)
	apperr.Register(ErrAlreadyTerminal)
}

// OverlapError describes the booked slot a request collided with.
type OverlapError struct {
	SlotID   uuid.UUID
	Date     string
	Time     string
	BookedBy string
}

func (e *OverlapError) Error() string { return "Overlap found with existing booking" }
func (e *OverlapError) Unwrap() error { return ErrOverlap }
func (e *OverlapError) HTTPStatus() int { return http.StatusBadRequest }
func (e *OverlapError) Code() string { return "OVERLAP" }

func (e *OverlapError) Details() any {
	if e.Date == "" {
		return nil
	}
	return map[string]string{
		"date":     e.Date,
		"time":     e.Time,
		"bookedBy": e.BookedBy,
	}
}

// InvalidRangeError is a daily window whose start is not before its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string { return "Start time must be before end time" }
func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }
func (e *InvalidRangeError) HTTPStatus() int { return http.StatusBadRequest }
func (e *InvalidRangeError) Code() string { return "INVALID_RANGE" }

type CancellationWindowError struct {
	Cutoff time.Duration
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("Cancellations are not allowed within %d minutes of start time", int(e.Cutoff.Minutes()))
}

func (e *CancellationWindowError) Unwrap() error { return ErrCancellationWindow }
func (e *CancellationWindowError) HTTPStatus() int { return http.StatusBadRequest }
func (e *CancellationWindowError) Code() string { return "CANCELLATION_WINDOW" }

type TerminalStatusError struct {
	Status Status
}

func (e *TerminalStatusError) Error() string { return fmt.Sprintf("Booking is already %s", e.Status) }
func (e *TerminalStatusError) Unwrap() error { return ErrAlreadyTerminal }
func (e *TerminalStatusError) HTTPStatus() int { return http.StatusBadRequest }
func (e *TerminalStatusError) Code() string { return "INVALID_STATUS" }

// checkRange rejects zero-length and inverted windows.
func checkRange(start, end time.Time) error {
	if !start.Before(end) {
		return &InvalidRangeError{Start: start, End: end}
	}
	return nil
}
