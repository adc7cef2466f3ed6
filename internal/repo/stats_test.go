package repo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

func TestDayCounts(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	total, completed, err := DayCounts(ctx, db, "2024-06-01")
	if err != nil || total != 0 || completed != 0 {
		t.Fatalf("empty day: total=%d completed=%d err=%v", total, completed, err)
	}

	for _, a := range []*domain.Appointment{
		newAppt("2024-06-01", "09:00", domain.StatusPending),
		newAppt("2024-06-01", "10:00", domain.StatusCompleted),
		newAppt("2024-06-01", "11:00", domain.StatusCancelled),
		newAppt("2024-06-02", "10:00", domain.StatusCompleted),
	} {
		if err := CreateAppointment(ctx, db, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	total, completed, err = DayCounts(ctx, db, "2024-06-01")
	if err != nil {
		t.Fatalf("DayCounts: %v", err)
	}
	if total != 3 || completed != 1 {
		t.Fatalf("total=%d completed=%d; want 3 and 1", total, completed)
	}
}

func TestSumAmounts(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	sum, err := SumAmounts(ctx, db, "2024-01-01", "")
	if err != nil || !sum.IsZero() {
		t.Fatalf("empty ledger: sum=%s err=%v", sum, err)
	}

	rows := []*domain.Transaction{
		newTx("a1", "2024-05-31", 100),
		newTx("a2", "2024-06-01", 250),
		newTx("a3", "2024-06-02", 300),
	}
	rows[1].Amount = decimal.RequireFromString("250.75")
	for _, tr := range rows {
		if err := CreateTransaction(ctx, db, tr); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sum, err = SumAmounts(ctx, db, "2024-06-01", "")
	if err != nil {
		t.Fatalf("SumAmounts: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("550.75")) {
		t.Fatalf("open-ended sum = %s; want 550.75", sum)
	}
	sum, _ = SumAmounts(ctx, db, "2024-06-01", "2024-06-01")
	if !sum.Equal(decimal.RequireFromString("250.75")) {
		t.Fatalf("single-day sum = %s; want 250.75", sum)
	}
}
