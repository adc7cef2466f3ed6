// Package services – CatalogService
//
// This file implements CatalogService, which manages the list of cleaning
// services offered to customers. Names are normalized and prices must be
// non-negative. Appointments snapshot name and price when they are booked,
// so edits and deletions here never rewrite existing appointments.
package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CatalogRepo defines the repository contract required by CatalogService.
type CatalogRepo interface {
	// CreateService inserts a new catalog entry.
	CreateService(ctx context.Context, db *gorm.DB, name string, price decimal.Decimal) (*domain.Service, error)

	// ListServices returns every entry, newest first.
	ListServices(ctx context.Context, db *gorm.DB) ([]domain.Service, error)

	// GetService fetches an entry by ID.
	GetService(ctx context.Context, db *gorm.DB, id string) (*domain.Service, error)

	// UpdateService overwrites name and price of an entry.
	UpdateService(ctx context.Context, db *gorm.DB, id, name string, price decimal.Decimal) error

	// DeleteService removes an entry.
	DeleteService(ctx context.Context, db *gorm.DB, id string) error
}

// ServicePatch carries the fields of a catalog update. Nil fields are left
// unchanged.
type ServicePatch struct {
	Name  *string
	Price *decimal.Decimal
}

// CatalogService provides catalog CRUD with input validation.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// Create validates and inserts a catalog entry.
func (s *CatalogService) Create(ctx context.Context, name string, price decimal.Decimal) (*domain.Service, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Create")
	defer span.End()

	name, err := validateServiceName(name)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}
	return s.Repo.CreateService(ctx, s.DB, name, price)
}

// List returns the whole catalog, newest first.
func (s *CatalogService) List(ctx context.Context) ([]domain.Service, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "List")
	defer span.End()

	out, err := s.Repo.ListServices(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Service{}
	}
	return out, nil
}

// Get returns one entry or ErrServiceNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("service.id", id)),
	)
	defer span.End()

	svc, err := s.Repo.GetService(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrServiceNotFound)
	}
	return svc, nil
}

// Update applies p to an entry and returns the stored result.
func (s *CatalogService) Update(ctx context.Context, id string, p ServicePatch) (*domain.Service, error) {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("service.id", id)),
	)
	defer span.End()

	cur, err := s.Repo.GetService(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrServiceNotFound)
	}
	if p.Name != nil {
		name, err := validateServiceName(*p.Name)
		if err != nil {
			return nil, err
		}
		cur.Name = name
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return nil, invalid("price", "must not be negative")
		}
		cur.Price = *p.Price
	}
	if err := s.Repo.UpdateService(ctx, s.DB, id, cur.Name, cur.Price); err != nil {
		return nil, notFound(err, ErrServiceNotFound)
	}
	return cur, nil
}

// Delete removes an entry. Appointments that reference it keep their
// snapshotted name and price.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/CatalogService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("service.id", id)),
	)
	defer span.End()

	return notFound(s.Repo.DeleteService(ctx, s.DB, id), ErrServiceNotFound)
}

func validateServiceName(name string) (string, error) {
	name = cleanText(name)
	if err := checkRequired("name", name, maxNameRunes); err != nil {
		return "", err
	}
	return name, nil
}
