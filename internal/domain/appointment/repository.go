package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for appointments. List operations
// return rows ordered by (starts_at, id) ascending so pagination and tests
// are reproducible.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListQuery) (*PagedAppointments, error)

	// UpdateStatus persists a status change together with its
	// cancellation/completion bookkeeping fields.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// UpdateSlot persists a reschedule (starts_at/ends_at) for an
	// existing appointment.
	UpdateSlot(ctx context.Context, a *Appointment) error

	// Delete removes the row unconditionally. Administrative correction
	// only; normal cancellation is a status change.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActiveByProviderDate returns the pending/confirmed appointments
	// occupying a provider's calendar day, ordered by start time.
	ListActiveByProviderDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error)

	// ListStartingBetween returns active appointments with starts_at in
	// [from, to], ordered by start time. Used for reminder feeds.
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Appointment, error)

	// ListByDateRange returns appointments of any status with starts_at in
	// [from, to), ordered by (starts_at, id). Used for calendar views.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Appointment, error)
}
