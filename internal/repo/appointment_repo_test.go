package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

func newAppt(date, hhmm string, st domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		CustomerName:    "Ayşe Yılmaz",
		Phone:           "5551112233",
		ServiceID:       "s1",
		ServiceName:     "Wash",
		ServicePrice:    decimal.NewFromInt(500),
		AppointmentDate: date,
		AppointmentTime: hhmm,
		Status:          st,
	}
}

func TestCreateAndGetAppointment(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a := newAppt("2024-06-01", "10:00", domain.StatusPending)
	if err := CreateAppointment(ctx, db, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("expected ID and CreatedAt to be assigned: %+v", a)
	}

	got, err := GetAppointment(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.CustomerName != "Ayşe Yılmaz" || !got.ServicePrice.Equal(decimal.NewFromInt(500)) || got.Status != domain.StatusPending {
		t.Fatalf("unexpected row: %+v", got)
	}

	if _, err := GetAppointment(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAppointment_WritesZeroValues_AndNotFound(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a := newAppt("2024-06-01", "10:00", domain.StatusPending)
	a.Notes = "ring twice"
	if err := CreateAppointment(ctx, db, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	now := time.Now().UTC()
	a.Notes = ""
	a.Status = domain.StatusCompleted
	a.CompletedAt = &now
	if err := SaveAppointment(ctx, db, a); err != nil {
		t.Fatalf("SaveAppointment: %v", err)
	}
	got, _ := GetAppointment(ctx, db, a.ID)
	if got.Notes != "" || got.Status != domain.StatusCompleted || got.CompletedAt == nil {
		t.Fatalf("expected notes cleared and completion persisted, got %+v", got)
	}

	ghost := newAppt("2024-06-02", "11:00", domain.StatusPending)
	ghost.ID = "ghost"
	if err := SaveAppointment(ctx, db, ghost); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindActiveInSlot(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	cancelled := newAppt("2024-06-01", "10:00", domain.StatusCancelled)
	if err := CreateAppointment(ctx, db, cancelled); err != nil {
		t.Fatalf("create cancelled: %v", err)
	}
	if _, err := FindActiveInSlot(ctx, db, "2024-06-01", "10:00", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancelled appointment must not occupy the slot, got %v", err)
	}

	active := newAppt("2024-06-01", "10:00", domain.StatusPending)
	if err := CreateAppointment(ctx, db, active); err != nil {
		t.Fatalf("create active: %v", err)
	}
	got, err := FindActiveInSlot(ctx, db, "2024-06-01", "10:00", "")
	if err != nil || got.ID != active.ID {
		t.Fatalf("expected %s in slot, got %+v err=%v", active.ID, got, err)
	}
	if _, err := FindActiveInSlot(ctx, db, "2024-06-01", "10:00", active.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("excluded id must not conflict with itself, got %v", err)
	}
	if _, err := FindActiveInSlot(ctx, db, "2024-06-01", "10:30", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("different time must be free, got %v", err)
	}
}

func TestListAppointments_FiltersAndOrder(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for _, a := range []*domain.Appointment{
		newAppt("2024-06-01", "09:00", domain.StatusPending),
		newAppt("2024-06-01", "14:00", domain.StatusCompleted),
		newAppt("2024-06-03", "10:00", domain.StatusPending),
		newAppt("2024-05-30", "10:00", domain.StatusCancelled),
	} {
		if err := CreateAppointment(ctx, db, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := ListAppointments(ctx, db, AppointmentQuery{})
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(all))
	}
	if all[0].AppointmentDate != "2024-06-03" || all[1].AppointmentTime != "14:00" || all[3].AppointmentDate != "2024-05-30" {
		t.Fatalf("unexpected order: %+v", all)
	}

	day, _ := ListAppointments(ctx, db, AppointmentQuery{Date: "2024-06-01"})
	if len(day) != 2 {
		t.Fatalf("expected 2 rows on 2024-06-01, got %d", len(day))
	}
	pending, _ := ListAppointments(ctx, db, AppointmentQuery{Status: domain.StatusPending})
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}
	both, _ := ListAppointments(ctx, db, AppointmentQuery{Date: "2024-06-01", Status: domain.StatusCompleted})
	if len(both) != 1 || both[0].AppointmentTime != "14:00" {
		t.Fatalf("expected the completed 14:00 row, got %+v", both)
	}
}

func TestActiveTimesOn_AndDelete(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	a1 := newAppt("2024-06-01", "11:00", domain.StatusPending)
	a2 := newAppt("2024-06-01", "09:30", domain.StatusCompleted)
	a3 := newAppt("2024-06-01", "10:00", domain.StatusCancelled)
	for _, a := range []*domain.Appointment{a1, a2, a3} {
		if err := CreateAppointment(ctx, db, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	times, err := ActiveTimesOn(ctx, db, "2024-06-01")
	if err != nil {
		t.Fatalf("ActiveTimesOn: %v", err)
	}
	if len(times) != 2 || times[0] != "09:30" || times[1] != "11:00" {
		t.Fatalf("unexpected times: %v", times)
	}

	if err := DeleteAppointment(ctx, db, a1.ID); err != nil {
		t.Fatalf("DeleteAppointment: %v", err)
	}
	if err := DeleteAppointment(ctx, db, a1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
