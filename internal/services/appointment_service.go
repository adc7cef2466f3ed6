// Package services – AppointmentService
//
// This file implements the appointment scheduler: booking, editing and
// rescheduling, status changes, deletion, listing with search, customer
// history and slot availability.
//
// A slot is a (date, time) pair that holds at most one non-cancelled
// appointment. Every write that can occupy a slot runs inside one database
// transaction that performs the conflict check and the write together; the
// partial unique index ux_appointments_active_slot backs the check when two
// writers race. Completing an appointment records its ledger entry in the
// same transaction as the status write.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"
	"github.com/fatihsenyuz/Randevu/internal/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	bookedSMS    = "Sayın %s, %s %s tarihli %s randevunuz oluşturulmuştur."
	completedSMS = "Sayın %s, %s hizmetimizi tercih ettiğiniz için teşekkür ederiz."
)

// Notifier sends best-effort customer messages. Implementations never
// report errors. Sends run off the request path.
type Notifier interface {
	Send(ctx context.Context, phone, text string) bool
}

// BookRequest holds the fields of a new appointment.
type BookRequest struct {
	CustomerName string
	Phone        string
	Address      string
	ServiceID    string
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Notes        string
}

// AppointmentPatch carries an edit. Nil fields are left unchanged.
type AppointmentPatch struct {
	CustomerName *string
	Phone        *string
	Address      *string
	ServiceID    *string
	Date         *string
	Time         *string
	Notes        *string
	Status       *domain.AppointmentStatus
}

// AppointmentFilter narrows List. Zero values disable a filter.
type AppointmentFilter struct {
	Date   string
	Status domain.AppointmentStatus
	Search string // substring of customer name or phone, case-insensitive
}

// CustomerHistory is every appointment booked under one phone number.
type CustomerHistory struct {
	Phone                 string               `json:"phone"`
	TotalAppointments     int                  `json:"total_appointments"`
	CompletedAppointments int                  `json:"completed_appointments"`
	Appointments          []domain.Appointment `json:"appointments"`
}

// Slot is one bookable time label on a given date.
type Slot struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

// AppointmentService coordinates appointment persistence, the slot rule and
// the completion side effect.
type AppointmentService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Notifier Notifier // optional

	// Now returns the current instant; defaults to time.Now.
	Now func() time.Time

	sends sync.WaitGroup
}

// NewAppointmentService wires a scheduler with its ledger and notifier.
func NewAppointmentService(db *gorm.DB, ledger *LedgerService, n Notifier) *AppointmentService {
	if ledger == nil {
		ledger = &LedgerService{DB: db}
	}
	return &AppointmentService{DB: db, Ledger: ledger, Notifier: n, Now: time.Now}
}

// Book validates req, resolves the service, checks the slot and inserts a
// pending appointment with the service name and price snapshotted.
func (s *AppointmentService) Book(ctx context.Context, req BookRequest) (*domain.Appointment, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "Book",
		trace.WithAttributes(
			attribute.String("service.id", req.ServiceID),
			attribute.String("slot.date", req.Date),
			attribute.String("slot.time", req.Time),
		),
	)
	defer span.End()

	req, err := normalizeBooking(req)
	if err != nil {
		return nil, err
	}

	var out *domain.Appointment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		svc, err := repo.GetService(ctx, tx, req.ServiceID)
		if err != nil {
			return notFound(err, ErrServiceNotFound)
		}
		if err := ensureSlotFree(ctx, tx, req.Date, req.Time, ""); err != nil {
			return err
		}
		a := &domain.Appointment{
			CustomerName:    req.CustomerName,
			Phone:           req.Phone,
			Address:         req.Address,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			ServicePrice:    svc.Price,
			AppointmentDate: req.Date,
			AppointmentTime: req.Time,
			Notes:           req.Notes,
			Status:          domain.StatusPending,
			CreatedAt:       s.now(),
		}
		if err := repo.CreateAppointment(ctx, tx, a); err != nil {
			return slotWriteErr(err, req.Date, req.Time)
		}
		out = a
		return nil
	})
	if err != nil {
		countConflict(err)
		return nil, err
	}

	appointmentsBooked.Inc()
	s.notify(ctx, out.Phone, fmt.Sprintf(bookedSMS, out.CustomerName, out.AppointmentDate, out.AppointmentTime, out.ServiceName))
	return out, nil
}

// Update applies p to an appointment.
//
// A change of date or time, or a move out of cancelled, re-runs the slot
// check excluding the appointment itself. An unknown service id leaves the
// service fields unchanged. Entering completed records the ledger entry in
// the same transaction.
func (s *AppointmentService) Update(ctx context.Context, id string, p AppointmentPatch) (*domain.Appointment, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	p, err := normalizePatch(p)
	if err != nil {
		return nil, err
	}

	var (
		out       *domain.Appointment
		completed bool
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := repo.GetAppointment(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrAppointmentNotFound)
		}
		next := *cur
		applyPatch(&next, p)

		reoccupies := !cur.Status.OccupiesSlot() && next.Status.OccupiesSlot()
		if p.Date != nil || p.Time != nil || reoccupies {
			if err := ensureSlotFree(ctx, tx, next.AppointmentDate, next.AppointmentTime, id); err != nil {
				return err
			}
		}

		if p.ServiceID != nil && *p.ServiceID != cur.ServiceID {
			svc, err := repo.GetService(ctx, tx, *p.ServiceID)
			switch {
			case err == nil:
				next.ServiceID, next.ServiceName, next.ServicePrice = svc.ID, svc.Name, svc.Price
			case !errors.Is(err, repo.ErrNotFound):
				return err
			}
		}

		if next.Status == domain.StatusCompleted && cur.Status != domain.StatusCompleted {
			if next.CompletedAt == nil {
				now := s.now()
				next.CompletedAt = &now
			}
			if _, err := s.ledger().RecordCompletion(ctx, tx, &next); err != nil && !errors.Is(err, ErrAlreadyRecorded) {
				return err
			}
			completed = true
		}

		if err := repo.SaveAppointment(ctx, tx, &next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return slotWriteErr(err, next.AppointmentDate, next.AppointmentTime)
		}
		out = &next
		return nil
	})
	if err != nil {
		countConflict(err)
		return nil, err
	}

	if completed {
		s.notify(ctx, out.Phone, fmt.Sprintf(completedSMS, out.CustomerName, out.ServiceName))
	}
	return out, nil
}

// ChangeStatus is Update restricted to the status field.
func (s *AppointmentService) ChangeStatus(ctx context.Context, id string, st domain.AppointmentStatus) (*domain.Appointment, error) {
	return s.Update(ctx, id, AppointmentPatch{Status: &st})
}

// Delete removes an appointment. Its ledger entry, if any, is kept.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	return notFound(repo.DeleteAppointment(ctx, s.DB, id), ErrAppointmentNotFound)
}

// Get returns one appointment or ErrAppointmentNotFound.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	a, err := repo.GetAppointment(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrAppointmentNotFound)
	}
	return a, nil
}

// List returns appointments matching f, most recent date first.
func (s *AppointmentService) List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("filter.date", f.Date),
			attribute.String("filter.status", string(f.Status)),
		),
	)
	defer span.End()

	f.Date = strings.TrimSpace(f.Date)
	if f.Date != "" {
		if err := checkDate("date", f.Date); err != nil {
			return nil, err
		}
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "must be one of pending, completed, cancelled")
	}

	rows, err := repo.ListAppointments(ctx, s.DB, repo.AppointmentQuery{Date: f.Date, Status: f.Status})
	if err != nil {
		return nil, err
	}

	m := search.NewMatcher(f.Search)
	out := make([]domain.Appointment, 0, len(rows))
	for _, a := range rows {
		if m.Match(a.CustomerName) || m.MatchPhone(a.Phone) {
			out = append(out, a)
		}
	}
	return out, nil
}

// CustomerHistory returns every appointment booked under phone, newest
// first, with totals.
func (s *AppointmentService) CustomerHistory(ctx context.Context, phone string) (*CustomerHistory, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "CustomerHistory")
	defer span.End()

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, invalid("phone", "is required")
	}
	rows, err := repo.ListAppointments(ctx, s.DB, repo.AppointmentQuery{Phone: phone})
	if err != nil {
		return nil, err
	}
	h := &CustomerHistory{Phone: phone, Appointments: rows, TotalAppointments: len(rows)}
	if h.Appointments == nil {
		h.Appointments = []domain.Appointment{}
	}
	for _, a := range rows {
		if a.Status == domain.StatusCompleted {
			h.CompletedAppointments++
		}
	}
	return h, nil
}

// AvailableSlots lists the slot labels of date derived from the business
// hours in Settings, flagging the ones held by a non-cancelled appointment.
func (s *AppointmentService) AvailableSlots(ctx context.Context, date string) ([]Slot, error) {
	ctx, span := otel.Tracer("services/AppointmentService").Start(ctx, "AvailableSlots",
		trace.WithAttributes(attribute.String("slot.date", date)),
	)
	defer span.End()

	if err := checkDate("date", date); err != nil {
		return nil, err
	}
	st, err := repo.GetSettings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	taken, err := repo.ActiveTimesOn(ctx, s.DB, date)
	if err != nil {
		return nil, err
	}
	held := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		held[t] = struct{}{}
	}

	labels := SlotLabels(st.WorkStartHour, st.WorkEndHour, st.AppointmentInterval)
	out := make([]Slot, 0, len(labels))
	for _, l := range labels {
		_, booked := held[l]
		out = append(out, Slot{Time: l, Booked: booked})
	}
	return out, nil
}

// SlotLabels generates HH:MM labels from startHour:00 through endHour:00
// inclusive, every interval minutes. An end hour below the start hour means
// the working day runs past midnight.
func SlotLabels(startHour, endHour, interval int) []string {
	if interval <= 0 {
		return nil
	}
	start, end := startHour*60, endHour*60
	if endHour < startHour {
		end += 24 * 60
	}
	out := make([]string, 0, (end-start)/interval+1)
	for m := start; m <= end; m += interval {
		out = append(out, fmt.Sprintf("%02d:%02d", (m/60)%24, m%60))
	}
	return out
}

// --- helpers ---

func (s *AppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AppointmentService) ledger() *LedgerService {
	if s.Ledger != nil {
		return s.Ledger
	}
	return &LedgerService{DB: s.DB}
}

// notify dispatches an SMS in the background. The send keeps the request's
// values (logger, trace) but not its cancellation; the sender applies its
// own deadline.
func (s *AppointmentService) notify(ctx context.Context, phone, text string) {
	if s.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.sends.Add(1)
	go func() {
		defer s.sends.Done()
		s.Notifier.Send(ctx, phone, text)
	}()
}

// WaitNotifications blocks until every dispatched SMS has finished.
func (s *AppointmentService) WaitNotifications() {
	s.sends.Wait()
}

// ensureSlotFree returns a *SlotConflictError when another non-cancelled
// appointment holds (date, hhmm).
func ensureSlotFree(ctx context.Context, tx *gorm.DB, date, hhmm, excludeID string) error {
	_, err := repo.FindActiveInSlot(ctx, tx, date, hhmm, excludeID)
	switch {
	case err == nil:
		return &SlotConflictError{Date: date, Time: hhmm}
	case errors.Is(err, repo.ErrNotFound):
		return nil
	default:
		return err
	}
}

// slotWriteErr maps an active-slot unique violation to a conflict.
func slotWriteErr(err error, date, hhmm string) error {
	if repo.IsDuplicate(err) {
		return &SlotConflictError{Date: date, Time: hhmm}
	}
	return err
}

func countConflict(err error) {
	if errors.Is(err, ErrSlotTaken) {
		slotConflicts.Inc()
	}
}

func applyPatch(a *domain.Appointment, p AppointmentPatch) {
	if p.CustomerName != nil {
		a.CustomerName = *p.CustomerName
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.Date != nil {
		a.AppointmentDate = *p.Date
	}
	if p.Time != nil {
		a.AppointmentTime = *p.Time
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

func normalizeBooking(r BookRequest) (BookRequest, error) {
	r.CustomerName = cleanText(r.CustomerName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.Notes = strings.TrimSpace(r.Notes)

	if err := checkRequired("customer_name", r.CustomerName, maxNameRunes); err != nil {
		return r, err
	}
	if err := checkRequired("phone", r.Phone, maxPhoneRunes); err != nil {
		return r, err
	}
	if r.ServiceID == "" {
		return r, invalid("service_id", "is required")
	}
	if err := checkDate("appointment_date", r.Date); err != nil {
		return r, err
	}
	if err := checkTime("appointment_time", r.Time); err != nil {
		return r, err
	}
	return r, nil
}

func normalizePatch(p AppointmentPatch) (AppointmentPatch, error) {
	trim := func(v *string, clean func(string) string) *string {
		if v == nil {
			return nil
		}
		s := clean(*v)
		return &s
	}
	p.CustomerName = trim(p.CustomerName, cleanText)
	p.Phone = trim(p.Phone, strings.TrimSpace)
	p.Address = trim(p.Address, strings.TrimSpace)
	p.ServiceID = trim(p.ServiceID, strings.TrimSpace)
	p.Date = trim(p.Date, strings.TrimSpace)
	p.Time = trim(p.Time, strings.TrimSpace)
	p.Notes = trim(p.Notes, strings.TrimSpace)

	if p.CustomerName != nil {
		if err := checkRequired("customer_name", *p.CustomerName, maxNameRunes); err != nil {
			return p, err
		}
	}
	if p.Phone != nil {
		if err := checkRequired("phone", *p.Phone, maxPhoneRunes); err != nil {
			return p, err
		}
	}
	if p.ServiceID != nil && *p.ServiceID == "" {
		p.ServiceID = nil
	}
	if p.Date != nil {
		if err := checkDate("appointment_date", *p.Date); err != nil {
			return p, err
		}
	}
	if p.Time != nil {
		if err := checkTime("appointment_time", *p.Time); err != nil {
			return p, err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return p, invalid("status", "must be one of pending, completed, cancelled")
	}
	return p, nil
}
