// Package services defines the business logic for the service catalog,
// appointment scheduling, the cash-register ledger, dashboard statistics,
// and settings. This file centralizes service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer, usually through KindOf.
package services

import (
	"errors"
	"fmt"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"
)

// Not-found errors.
var (
	// ErrServiceNotFound indicates that a referenced catalog entry does not exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrAppointmentNotFound indicates that the requested appointment does not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrTransactionNotFound indicates that the requested ledger entry does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ErrSlotTaken is the sentinel wrapped by every SlotConflictError.
var ErrSlotTaken = errors.New("slot already booked")

// SlotConflictError reports that (Date, Time) is held by another
// non-cancelled appointment.
type SlotConflictError struct {
	Date string
	Time string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("an appointment already exists on %s at %s", e.Date, e.Time)
}

// Unwrap lets errors.Is(err, ErrSlotTaken) match.
func (e *SlotConflictError) Unwrap() error { return ErrSlotTaken }

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// Kind classifies service errors for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// KindOf returns the Kind of err. Unknown errors, including nil, are
// KindInternal.
func KindOf(err error) Kind {
	var (
		ve *ValidationError
		ce *SlotConflictError
	)
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrServiceNotFound),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return KindNotFound
	case errors.As(err, &ce), errors.Is(err, ErrSlotTaken):
		return KindConflict
	case errors.As(err, &ve), errors.Is(err, domain.ErrInvalidStatus):
		return KindValidation
	default:
		return KindInternal
	}
}

// notFound maps repo.ErrNotFound to the given service sentinel and passes
// any other error through.
func notFound(err, sentinel error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return sentinel
	}
	return err
}
