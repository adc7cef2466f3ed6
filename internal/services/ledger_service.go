// Package services – LedgerService
//
// This file implements the cash-register ledger. Entries are created only by
// AppointmentService when an appointment is completed (RecordCompletion runs
// inside the scheduler's database transaction). Operators may correct an
// entry's amount or delete it; neither touches the originating appointment.
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrAlreadyRecorded is returned by RecordCompletion when the appointment
// already has its ledger entry.
var ErrAlreadyRecorded = errors.New("transaction already recorded for appointment")

// DateRange is an inclusive filter on transaction dates (YYYY-MM-DD). Either
// bound may be empty.
type DateRange struct {
	Start string
	End   string
}

// LedgerService manages Transaction records.
type LedgerService struct {
	DB *gorm.DB
}

// RecordCompletion creates the ledger entry for a completed appointment,
// snapshotting its price, customer name, service name and appointment date.
// tx must be the caller's open database transaction.
func (s *LedgerService) RecordCompletion(ctx context.Context, tx *gorm.DB, appt *domain.Appointment) (*domain.Transaction, error) {
	ctx, span := otel.Tracer("services/LedgerService").Start(ctx, "RecordCompletion",
		trace.WithAttributes(attribute.String("appointment.id", appt.ID)),
	)
	defer span.End()

	n, err := repo.CountTransactionsForAppointment(ctx, tx, appt.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyRecorded
	}

	t := &domain.Transaction{
		AppointmentID: appt.ID,
		CustomerName:  appt.CustomerName,
		ServiceName:   appt.ServiceName,
		Amount:        appt.ServicePrice,
		Date:          appt.AppointmentDate,
	}
	if err := repo.CreateTransaction(ctx, tx, t); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyRecorded
		}
		return nil, err
	}
	transactionsRecorded.Inc()
	return t, nil
}

// UpdateAmount replaces the amount of an entry and returns the updated row.
func (s *LedgerService) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) (*domain.Transaction, error) {
	ctx, span := otel.Tracer("services/LedgerService").Start(ctx, "UpdateAmount",
		trace.WithAttributes(attribute.String("transaction.id", id)),
	)
	defer span.End()

	if amount.IsNegative() {
		return nil, invalid("amount", "must not be negative")
	}

	var out *domain.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateTransactionAmount(ctx, tx, id, amount); err != nil {
			return err
		}
		t, err := repo.GetTransaction(ctx, tx, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return out, nil
}

// Delete removes an entry.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/LedgerService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("transaction.id", id)),
	)
	defer span.End()

	return notFound(repo.DeleteTransaction(ctx, s.DB, id), ErrTransactionNotFound)
}

// Query lists entries within r, newest date first.
func (s *LedgerService) Query(ctx context.Context, r DateRange) ([]domain.Transaction, error) {
	ctx, span := otel.Tracer("services/LedgerService").Start(ctx, "Query",
		trace.WithAttributes(
			attribute.String("range.start", r.Start),
			attribute.String("range.end", r.End),
		),
	)
	defer span.End()

	if r.Start != "" {
		if err := checkDate("start_date", r.Start); err != nil {
			return nil, err
		}
	}
	if r.End != "" {
		if err := checkDate("end_date", r.End); err != nil {
			return nil, err
		}
	}
	out, err := repo.ListTransactions(ctx, s.DB, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Transaction{}
	}
	return out, nil
}
