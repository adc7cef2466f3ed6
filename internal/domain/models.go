// Package domain defines the persistence models for the service catalog,
// appointments, the cash-register ledger, and the settings singleton. These
// types are mapped with GORM and shared by the repository, service and HTTP
// layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is an entry in the catalog of cleaning services offered to
// customers. Appointments copy Name and Price at booking time, so editing or
// deleting a Service never rewrites existing bookings.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name: display name shown on bookings and receipts.
//   - Price: non-negative list price.
//   - CreatedAt: creation timestamp (UTC).
type Service struct {
	ID        string          `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string          `json:"name"       gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price"      gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for Service.
func (Service) TableName() string { return "services" }

// Appointment is a single booked slot for a customer. ServiceName and
// ServicePrice are snapshots of the catalog entry taken when the appointment
// was booked (or when its service was changed).
//
// At most one non-cancelled appointment may exist for a given
// (AppointmentDate, AppointmentTime) pair; the partial unique index created by
// repo.AutoMigrate enforces this at the storage layer.
//
// Fields:
//   - AppointmentDate: calendar day in ISO form (YYYY-MM-DD).
//   - AppointmentTime: slot label (HH:MM).
//   - Status: pending, completed or cancelled.
//   - CompletedAt: set once, on the first transition into completed.
type Appointment struct {
	ID              string            `json:"id"               gorm:"type:char(36);primaryKey"`
	CustomerName    string            `json:"customer_name"    gorm:"type:varchar(255);not null"`
	Phone           string            `json:"phone"            gorm:"type:varchar(32);not null;index:idx_appointments_phone"`
	Address         string            `json:"address"          gorm:"type:text;not null;default:''"`
	ServiceID       string            `json:"service_id"       gorm:"type:char(36);not null"`
	ServiceName     string            `json:"service_name"     gorm:"type:varchar(255);not null"`
	ServicePrice    decimal.Decimal   `json:"service_price"    gorm:"type:decimal(12,2);not null"`
	AppointmentDate string            `json:"appointment_date" gorm:"type:char(10);not null;index:idx_appointments_date_time,priority:1"`
	AppointmentTime string            `json:"appointment_time" gorm:"type:char(5);not null;index:idx_appointments_date_time,priority:2"`
	Notes           string            `json:"notes"            gorm:"type:text;not null;default:''"`
	Status          AppointmentStatus `json:"status"           gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','completed','cancelled')"`
	CreatedAt       time.Time         `json:"created_at"       gorm:"not null"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// Transaction is a cash-register entry derived from a completed appointment.
// Only Amount may change after creation. Date is inherited from the
// appointment date, not from the completion instant.
type Transaction struct {
	ID            string          `json:"id"             gorm:"type:char(36);primaryKey"`
	AppointmentID string          `json:"appointment_id" gorm:"type:char(36);not null;uniqueIndex:ux_transactions_appointment"`
	CustomerName  string          `json:"customer_name"  gorm:"type:varchar(255);not null"`
	ServiceName   string          `json:"service_name"   gorm:"type:varchar(255);not null"`
	Amount        decimal.Decimal `json:"amount"         gorm:"type:decimal(12,2);not null"`
	Date          string          `json:"date"           gorm:"type:char(10);not null;index:idx_transactions_date"`
	CreatedAt     time.Time       `json:"created_at"     gorm:"not null"`
}

// TableName returns the database table name for Transaction.
func (Transaction) TableName() string { return "transactions" }

// SettingsID is the fixed primary key of the settings singleton.
const SettingsID = "app_settings"

// Settings holds business hours and the default slot interval. The values are
// display and validation hints; the scheduler's conflict check ignores them.
// WorkEndHour may be numerically smaller than WorkStartHour to denote a
// working day that ends past midnight.
type Settings struct {
	ID                  string `json:"id"                   gorm:"type:varchar(32);primaryKey"`
	WorkStartHour       int    `json:"work_start_hour"      gorm:"not null"`
	WorkEndHour         int    `json:"work_end_hour"        gorm:"not null"`
	AppointmentInterval int    `json:"appointment_interval" gorm:"not null"`
}

// TableName returns the database table name for Settings.
func (Settings) TableName() string { return "settings" }

// DefaultSettings returns the record created on first read.
func DefaultSettings() Settings {
	return Settings{
		ID:                  SettingsID,
		WorkStartHour:       7,
		WorkEndHour:         3,
		AppointmentInterval: 30,
	}
}
