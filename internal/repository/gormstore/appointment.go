package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsuite/petflow/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":              a.Status,
			"cancelled_at":        a.CancelledAt,
			"cancellation_reason": a.CancellationReason,
			"cancelled_by":        a.CancelledBy,
			"completed_at":        a.CompletedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("updating appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) UpdateSlot(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"starts_at": a.StartsAt,
			"ends_at":   a.EndsAt,
		})
	if res.Error != nil {
		return fmt.Errorf("updating appointment slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&appointment.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{})

	if q.ProviderID != nil {
		tx = tx.Where("provider_id = ?", *q.ProviderID)
	}
	if q.CustomerID != nil {
		tx = tx.Where("customer_id = ?", *q.CustomerID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("starts_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("starts_at < ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}

	var appts []*appointment.Appointment
	err := tx.Order("starts_at ASC, id ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepository) ListActiveByProviderDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("status IN ?", []appointment.Status{appointment.StatusPending, appointment.StatusConfirmed}).
		Where("starts_at >= ? AND starts_at < ?", date, date.AddDate(0, 0, 1)).
		Order("starts_at ASC, id ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("listing provider day: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("status IN ?", []appointment.Status{appointment.StatusPending, appointment.StatusConfirmed}).
		Where("starts_at >= ? AND starts_at <= ?", from, to).
		Order("starts_at ASC, id ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("listing upcoming appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at ASC, id ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments by date range: %w", err)
	}
	return appts, nil
}
