// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// cash-register ledger (Transaction model).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// CreateTransaction inserts t. ID and CreatedAt are assigned when empty.
// A second row for the same appointment returns ErrDuplicate.
func CreateTransaction(ctx context.Context, db *gorm.DB, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetTransaction fetches a ledger row by ID, or ErrNotFound.
func GetTransaction(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CountTransactionsForAppointment returns how many ledger rows reference
// appointmentID (zero or one while the unique index holds).
func CountTransactionsForAppointment(ctx context.Context, db *gorm.DB, appointmentID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("appointment_id = ?", appointmentID).
		Count(&n).Error
	return n, err
}

// UpdateTransactionAmount corrects the amount of a ledger row.
// Returns ErrNotFound if no row matched.
func UpdateTransactionAmount(ctx context.Context, db *gorm.DB, id string, amount decimal.Decimal) error {
	res := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ?", id).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a ledger row. The originating appointment is
// left untouched.
func DeleteTransaction(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactions returns ledger rows whose date lies in [start, end], newest
// date first. An empty bound is open.
func ListTransactions(ctx context.Context, db *gorm.DB, start, end string) ([]domain.Transaction, error) {
	q := db.WithContext(ctx).Model(&domain.Transaction{})
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}
	var out []domain.Transaction
	err := q.Order("date DESC, created_at DESC").Find(&out).Error
	return out, err
}
