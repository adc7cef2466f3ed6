// Package services – SettingsService
//
// SettingsService reads and replaces the business-hours singleton used to
// generate booking slots. The record is created with defaults on first read.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	minInterval = 15
	maxInterval = 120
)

// SettingsService manages domain.Settings.
type SettingsService struct {
	DB *gorm.DB
}

// Get returns the current settings, creating the defaults if absent.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	ctx, span := otel.Tracer("services/SettingsService").Start(ctx, "Get")
	defer span.End()

	return repo.GetSettings(ctx, s.DB)
}

// Update validates and stores the whole record. An end hour below the
// start hour is allowed and means the working day crosses midnight.
func (s *SettingsService) Update(ctx context.Context, in domain.Settings) (*domain.Settings, error) {
	ctx, span := otel.Tracer("services/SettingsService").Start(ctx, "Update",
		trace.WithAttributes(
			attribute.Int("settings.start", in.WorkStartHour),
			attribute.Int("settings.end", in.WorkEndHour),
			attribute.Int("settings.interval", in.AppointmentInterval),
		),
	)
	defer span.End()

	if in.WorkStartHour < 0 || in.WorkStartHour > 23 {
		return nil, invalid("work_start_hour", "must be between 0 and 23")
	}
	if in.WorkEndHour < 0 || in.WorkEndHour > 23 {
		return nil, invalid("work_end_hour", "must be between 0 and 23")
	}
	if in.AppointmentInterval < minInterval || in.AppointmentInterval > maxInterval {
		return nil, invalid("appointment_interval", "must be between 15 and 120 minutes")
	}
	if err := repo.SaveSettings(ctx, s.DB, &in); err != nil {
		return nil, err
	}
	return &in, nil
}
