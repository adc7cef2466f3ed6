// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides accessors for the Settings singleton.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// GetSettings returns the singleton, inserting domain.DefaultSettings on
// first read. Concurrent first reads race on the insert; the loser's insert
// is a no-op and both read the same row back.
func GetSettings(ctx context.Context, db *gorm.DB) (*domain.Settings, error) {
	def := domain.DefaultSettings()
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&def).Error; err != nil {
		return nil, err
	}
	var s domain.Settings
	if err := db.WithContext(ctx).First(&s, "id = ?", domain.SettingsID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings upserts the whole singleton record. The ID is forced to
// domain.SettingsID.
func SaveSettings(ctx context.Context, db *gorm.DB, s *domain.Settings) error {
	s.ID = domain.SettingsID
	return db.WithContext(ctx).Save(s).Error
}
