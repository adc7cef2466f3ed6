// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used by the
// dashboard. Each function is context-aware and safe to call from services.
package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// DayCounts returns the number of appointments scheduled on date (any
// status) and how many of those are completed.
//
// Return values:
//   - total:     appointments on date
//   - completed: appointments on date with status completed
//   - err:       database error, if any
func DayCounts(ctx context.Context, db *gorm.DB, date string) (total, completed int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Appointment{}).Where("appointment_date = ?", date)
	if err = q.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}
	err = db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("appointment_date = ? AND status = ?", date, domain.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// SumAmounts returns the total of ledger amounts with from <= date and, when
// to is non-empty, date <= to. The sum is zero when no rows match.
func SumAmounts(ctx context.Context, db *gorm.DB, from, to string) (decimal.Decimal, error) {
	q := db.WithContext(ctx).Model(&domain.Transaction{}).Where("date >= ?", from)
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	// Sum in Go: SUM() over NUMERIC comes back as float in SQLite.
	var rows []struct {
		Amount decimal.Decimal
	}
	if err := q.Select("amount").Scan(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total, nil
}
