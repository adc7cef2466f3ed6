// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and constraint-error helpers.
package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that an insert or update violated a unique index.
var ErrDuplicate = errors.New("duplicate")

// activeSlotIndex backs the one-active-appointment-per-slot rule. GORM tags
// cannot express a partial index, so it is created with raw DDL.
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_slot
	ON appointments (appointment_date, appointment_time)
	WHERE status <> 'cancelled'`

// sqlitePragmas are applied by the driver to every pooled connection.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// registers the OpenTelemetry tracing plugin so every query becomes a span.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path+sqlitePragmas), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates every table and the partial unique index
// on active appointment slots.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Service{},
		&domain.Appointment{},
		&domain.Transaction{},
		&domain.Settings{},
		&domain.Idempotency{},
	); err != nil {
		return err
	}
	return db.Exec(activeSlotIndex).Error
}

// IsDuplicate reports whether err is a unique-constraint violation.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations, so the
// message is inspected in addition to gorm.ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
