package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"
)

func seedTx(t *testing.T, db *gorm.DB, apptID, date string, amount int64) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		AppointmentID: apptID,
		CustomerName:  "C",
		ServiceName:   "Wash",
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
	}
	if err := repo.CreateTransaction(context.Background(), db, tx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tx
}

func TestLedgerService_RecordCompletion_Duplicate(t *testing.T) {
	db := newSvcDB(t)
	s := &LedgerService{DB: db}
	appt := &domain.Appointment{ID: "a1", CustomerName: "C", ServiceName: "Wash", ServicePrice: decimal.NewFromInt(500), AppointmentDate: "2024-06-01"}

	got, err := s.RecordCompletion(context.Background(), db, appt)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got.Date != "2024-06-01" || !got.Amount.Equal(decimal.NewFromInt(500)) || got.CustomerName != "C" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if _, err := s.RecordCompletion(context.Background(), db, appt); !errors.Is(err, ErrAlreadyRecorded) {
		t.Fatalf("want ErrAlreadyRecorded, got %v", err)
	}
}

func TestLedgerService_UpdateAmount(t *testing.T) {
	db := newSvcDB(t)
	s := &LedgerService{DB: db}
	tx := seedTx(t, db, "a1", "2024-06-01", 500)
	ctx := context.Background()

	got, err := s.UpdateAmount(ctx, tx.ID, decimal.RequireFromString("450.50"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Amount.String() != "450.5" || got.AppointmentID != "a1" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if _, err := s.UpdateAmount(ctx, tx.ID, decimal.NewFromInt(-1)); KindOf(err) != KindValidation {
		t.Fatalf("want validation, got %v", err)
	}
	if _, err := s.UpdateAmount(ctx, "missing", decimal.NewFromInt(1)); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("want ErrTransactionNotFound, got %v", err)
	}
}

func TestLedgerService_Delete(t *testing.T) {
	db := newSvcDB(t)
	s := &LedgerService{DB: db}
	tx := seedTx(t, db, "a1", "2024-06-01", 500)

	if err := s.Delete(context.Background(), tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("want ErrTransactionNotFound, got %v", err)
	}
}

func TestLedgerService_Query_Ranges(t *testing.T) {
	db := newSvcDB(t)
	s := &LedgerService{DB: db}
	seedTx(t, db, "a1", "2024-05-30", 100)
	seedTx(t, db, "a2", "2024-06-01", 200)
	seedTx(t, db, "a3", "2024-06-03", 300)
	ctx := context.Background()

	cases := []struct {
		name string
		r    DateRange
		want []string
	}{
		{"all", DateRange{}, []string{"2024-06-03", "2024-06-01", "2024-05-30"}},
		{"start only", DateRange{Start: "2024-06-01"}, []string{"2024-06-03", "2024-06-01"}},
		{"end only", DateRange{End: "2024-06-01"}, []string{"2024-06-01", "2024-05-30"}},
		{"both", DateRange{Start: "2024-06-01", End: "2024-06-01"}, []string{"2024-06-01"}},
		{"empty", DateRange{Start: "2025-01-01"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Query(ctx, tc.r)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if got == nil || len(got) != len(tc.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tc.want))
			}
			for i, d := range tc.want {
				if got[i].Date != d {
					t.Fatalf("entry %d date %s, want %s", i, got[i].Date, d)
				}
			}
		})
	}

	if _, err := s.Query(ctx, DateRange{Start: "06/01/2024"}); KindOf(err) != KindValidation {
		t.Fatalf("want validation, got %v", err)
	}
}
