// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Service
// catalog.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Missing rows surface as ErrNotFound.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"
)

// CreateService inserts a catalog entry with a fresh UUID and UTC timestamp.
func CreateService(ctx context.Context, db *gorm.DB, name string, price decimal.Decimal) (*domain.Service, error) {
	s := &domain.Service{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListServices returns the catalog ordered newest first.
func ListServices(ctx context.Context, db *gorm.DB) ([]domain.Service, error) {
	var out []domain.Service
	err := db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// GetService fetches a catalog entry by ID, or ErrNotFound.
func GetService(ctx context.Context, db *gorm.DB, id string) (*domain.Service, error) {
	var s domain.Service
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateService writes name and price of an existing entry.
// Returns ErrNotFound if no row matched.
func UpdateService(ctx context.Context, db *gorm.DB, id, name string, price decimal.Decimal) error {
	res := db.WithContext(ctx).
		Model(&domain.Service{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "price": price})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteService removes a catalog entry. Appointments keep their snapshots.
func DeleteService(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Service{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
