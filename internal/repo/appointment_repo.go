// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Appointment model.
//
// The helpers are thin: no business rules, only persistence and query
// composition. Callers performing a check-then-write sequence (conflict
// check followed by insert or update) must pass the same transactional
// *gorm.DB to every call.
//
// Error semantics:
//   - Missing appointments return gorm.ErrRecordNotFound (ErrNotFound).
//   - A write that collides with the active-slot unique index returns an
//     error for which IsDuplicate reports true.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// AppointmentQuery narrows ListAppointments. Zero values disable a filter.
type AppointmentQuery struct {
	Date   string
	Status domain.AppointmentStatus
	Phone  string
}

// CreateAppointment inserts a. ID and CreatedAt are assigned when empty.
func CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(a).Error
}

// GetAppointment fetches an appointment by ID, or ErrNotFound.
func GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAppointment overwrites every mutable column of an existing row.
// ID and CreatedAt are never rewritten. Returns ErrNotFound if no row matched.
func SaveAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	res := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAppointment removes an appointment. Ledger rows are not touched.
func DeleteAppointment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveInSlot returns a non-cancelled appointment occupying (date, hhmm),
// ignoring excludeID. It returns ErrNotFound when the slot is free.
func FindActiveInSlot(ctx context.Context, db *gorm.DB, date, hhmm, excludeID string) (*domain.Appointment, error) {
	q := db.WithContext(ctx).
		Where("appointment_date = ? AND appointment_time = ? AND status <> ?", date, hhmm, domain.StatusCancelled)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var a domain.Appointment
	if err := q.First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns appointments matching q, newest date first and,
// within a date, latest slot first.
func ListAppointments(ctx context.Context, db *gorm.DB, q AppointmentQuery) ([]domain.Appointment, error) {
	tx := db.WithContext(ctx).Model(&domain.Appointment{})
	if q.Date != "" {
		tx = tx.Where("appointment_date = ?", q.Date)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Phone != "" {
		tx = tx.Where("phone = ?", q.Phone)
	}
	var out []domain.Appointment
	err := tx.Order("appointment_date DESC, appointment_time DESC, created_at DESC").Find(&out).Error
	return out, err
}

// ActiveTimesOn returns the slot labels occupied on date by non-cancelled
// appointments.
func ActiveTimesOn(ctx context.Context, db *gorm.DB, date string) ([]string, error) {
	var times []string
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("appointment_date = ? AND status <> ?", date, domain.StatusCancelled).
		Order("appointment_time ASC").
		Pluck("appointment_time", &times).Error
	return times, err
}
