package domain

import "time"

// Idempotency records the outcome of a previously processed unsafe request,
// keyed by (scope, key). Scope names the operation (for example
// "appointments.book") so the same client key can be reused across endpoints.
// ResourceID points at the record created by the original request, which is
// what a retried request replays.
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Scope      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:2"`
	ResourceID string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
