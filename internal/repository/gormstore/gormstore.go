// Package gormstore contains the GORM-backed repository implementations.
// The scheduling service depends only on the domain repository interfaces,
// so these can be swapped for the in-memory versions in tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/domain/roster"
)

type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) Create(ctx context.Context, p *pet.Pet) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PetRepository) GetByID(ctx context.Context, id uuid.UUID) (*pet.Pet, error) {
	var p pet.Pet
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pet.ErrPetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading pet: %w", err)
	}
	return &p, nil
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*pet.Pet, error) {
	var pets []*pet.Pet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&pets).Error
	if err != nil {
		return nil, fmt.Errorf("listing pets: %w", err)
	}
	return pets, nil
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Create(ctx context.Context, s *catalog.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var s catalog.Service
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading service: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepository) List(ctx context.Context, activeOnly bool) ([]*catalog.Service, error) {
	tx := r.db.WithContext(ctx).Model(&catalog.Service{})
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}
	var services []*catalog.Service
	if err := tx.Order("name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	return services, nil
}

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) CreateWorkingHours(ctx context.Context, wh *roster.WorkingHours) error {
	if wh.ID == uuid.Nil {
		wh.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(wh).Error
}

func (r *RosterRepository) DeleteWorkingHours(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&roster.WorkingHours{}, "id = ?", id).Error
}

func (r *RosterRepository) ListByProviderWeekday(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) ([]*roster.WorkingHours, error) {
	var rows []*roster.WorkingHours
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND weekday = ?", providerID, weekday).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing working hours: %w", err)
	}
	return rows, nil
}

func (r *RosterRepository) CreateOverride(ctx context.Context, o *roster.Override) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *RosterRepository) GetOverride(ctx context.Context, providerID uuid.UUID, date time.Time) (*roster.Override, error) {
	var o roster.Override
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date = ?", providerID, date).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading roster override: %w", err)
	}
	return &o, nil
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
