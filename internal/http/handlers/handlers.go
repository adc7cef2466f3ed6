// Package handlers exposes the REST API for the service catalog,
// appointments, the cash register, dashboard statistics and settings.
//
// Handlers are transport-thin: they decode and validate input, call the
// application services through the interfaces below, and translate results
// into HTTP responses. Business rules live in package services.
package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/services"
)

//
// Service contracts (context-aware)
//

// CatalogService manages the list of offered cleaning services.
type CatalogService interface {
	Create(ctx context.Context, name string, price decimal.Decimal) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	Update(ctx context.Context, id string, p services.ServicePatch) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentService books, edits and tracks appointments.
type AppointmentService interface {
	Book(ctx context.Context, req services.BookRequest) (*domain.Appointment, error)
	Update(ctx context.Context, id string, p services.AppointmentPatch) (*domain.Appointment, error)
	ChangeStatus(ctx context.Context, id string, st domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, f services.AppointmentFilter) ([]domain.Appointment, error)
	CustomerHistory(ctx context.Context, phone string) (*services.CustomerHistory, error)
	AvailableSlots(ctx context.Context, date string) ([]services.Slot, error)
}

// LedgerService reads and corrects cash-register entries.
type LedgerService interface {
	UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, r services.DateRange) ([]domain.Transaction, error)
}

// DashboardService computes the dashboard summary.
type DashboardService interface {
	Stats(ctx context.Context) (*services.DashboardStats, error)
}

// SettingsService reads and replaces the business-hours settings.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, in domain.Settings) (*domain.Settings, error)
}

//
// Handler wiring
//

// Handlers groups every endpoint of the API.
type Handlers struct {
	catalog  CatalogService
	appts    AppointmentService
	ledger   LedgerService
	stats    DashboardService
	settings SettingsService

	strictJSON bool
	idemTTL    time.Duration
}

// Option customizes Handlers.
type Option func(*Handlers)

// WithStrictJSON rejects request bodies carrying unknown fields. By default
// unknown fields are ignored.
func WithStrictJSON(on bool) Option { return func(h *Handlers) { h.strictJSON = on } }

// WithIdempotencyTTL sets how long an Idempotency-Key result is replayed.
func WithIdempotencyTTL(d time.Duration) Option {
	return func(h *Handlers) {
		if d > 0 {
			h.idemTTL = d
		}
	}
}

// New constructs Handlers bound to the given services.
func New(catalog CatalogService, appts AppointmentService, ledger LedgerService, stats DashboardService, settings SettingsService, opts ...Option) *Handlers {
	h := &Handlers{
		catalog:  catalog,
		appts:    appts,
		ledger:   ledger,
		stats:    stats,
		settings: settings,
		idemTTL:  24 * time.Hour,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// bindJSON decodes the request body into dst and runs binding validation.
// In strict mode unknown fields are an error.
func (h *Handlers) bindJSON(c *gin.Context, dst any) error {
	if !h.strictJSON {
		return c.ShouldBindJSON(dst)
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(dst)
}
