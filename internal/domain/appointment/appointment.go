package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// State transitions possibilities:
//
//	pending → confirmed → completed
//	pending → cancelled
//	confirmed → cancelled
//
// Completed and cancelled are terminal. Transitioning to the current status
// is rejected as well, to catch caller bugs.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	PetID      uuid.UUID `gorm:"column:pet_id;type:uuid;not null;index"`
	// ProviderID is nil while the appointment is unassigned. Assignment is
	// required before the appointment can be confirmed.
	ProviderID *uuid.UUID `gorm:"column:provider_id;type:uuid;index"`
	BranchID   uuid.UUID  `gorm:"column:branch_id;type:uuid;not null;index"`
	ServiceID  uuid.UUID  `gorm:"column:service_id;type:uuid;not null;index"`

	StartsAt time.Time `gorm:"column:starts_at;not null;index"`
	EndsAt   time.Time `gorm:"column:ends_at;not null"`

	Note   string `gorm:"column:note;type:text"`
	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`

	// Cancellation tracking
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Slot returns the appointment's booked interval.
func (a *Appointment) Slot() timegrid.Slot {
	return timegrid.Slot{Start: a.StartsAt, End: a.EndsAt}
}

// Date returns midnight of the appointment's calendar day.
func (a *Appointment) Date() time.Time {
	return timegrid.DateOf(a.StartsAt)
}

// Active reports whether the appointment still occupies its slot.
// Cancelled appointments free the time; completed ones are history.
func (a *Appointment) Active() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	for _, s := range transitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID, now time.Time) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	return nil
}

func (a *Appointment) Complete(now time.Time) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	a.CompletedAt = &now
	return nil
}

func (a *Appointment) Confirm() error {
	if !a.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidStatusTransition
	}
	if a.ProviderID == nil {
		return ErrProviderUnassigned
	}
	a.Status = StatusConfirmed
	return nil
}

type ReserveCommand struct {
	CustomerID uuid.UUID
	PetID      uuid.UUID
	ProviderID *uuid.UUID
	BranchID   uuid.UUID
	ServiceID  uuid.UUID
	StartsAt   time.Time
	// DurationMins overrides the service catalog duration when positive.
	DurationMins int
	Note         string
	// WalkIn marks a staff-entered booking that starts out confirmed
	// instead of pending.
	WalkIn    bool
	CreatedBy uuid.UUID
}

type CancelCommand struct {
	Reason      string
	CancelledBy uuid.UUID
}

type RescheduleCommand struct {
	StartsAt     time.Time
	DurationMins int
	UpdatedBy    uuid.UUID
}

type ListQuery struct {
	ProviderID *uuid.UUID
	CustomerID *uuid.UUID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
