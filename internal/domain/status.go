package domain

import (
	"errors"
	"strings"
)

// AppointmentStatus is the closed set of lifecycle states of an Appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ErrInvalidStatus is returned by ParseStatus for labels outside the closed set.
var ErrInvalidStatus = errors.New("invalid appointment status")

// legacyLabels maps the labels stored by the previous frontend to the closed set.
var legacyLabels = map[string]AppointmentStatus{
	"Bekliyor":   StatusPending,
	"Tamamlandı": StatusCompleted,
	"İptal":      StatusCancelled,
}

// ParseStatus maps a boundary label to an AppointmentStatus. English values
// are matched case-insensitively; the legacy Turkish labels are matched as
// written.
func ParseStatus(s string) (AppointmentStatus, error) {
	s = strings.TrimSpace(s)
	if st, ok := legacyLabels[s]; ok {
		return st, nil
	}
	switch st := AppointmentStatus(strings.ToLower(s)); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether st is one of the known states.
func (st AppointmentStatus) Valid() bool {
	switch st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OccupiesSlot reports whether an appointment in this state blocks its
// (date, time) slot for other bookings.
func (st AppointmentStatus) OccupiesSlot() bool { return st != StatusCancelled }
