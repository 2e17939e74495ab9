package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/domain/schedule"
	"github.com/pawsuite/petflow/internal/domain/timegrid"
	"github.com/pawsuite/petflow/pkg/clock"
)

// SchedulingService is the authoritative ledger of appointments: it computes
// availability, performs the atomic check-then-reserve, runs the lifecycle
// state machine, and serves the reminder and calendar read paths.
type SchedulingService struct {
	repo        appointment.Repository
	petRepo     pet.Repository
	catalogRepo catalog.Repository
	source      schedule.Source
	auditSvc    *AuditService
	clock       clock.Clock
	log         *zap.Logger

	locks *slotLocks

	defaultSlot       time.Duration
	reminderLookahead time.Duration
	weekStart         time.Weekday
}

type SchedulingOptions struct {
	DefaultSlot       time.Duration
	ReminderLookahead time.Duration
	WeekStart         time.Weekday
}

func NewSchedulingService(
	repo appointment.Repository,
	petRepo pet.Repository,
	catalogRepo catalog.Repository,
	source schedule.Source,
	auditSvc *AuditService,
	clk clock.Clock,
	log *zap.Logger,
	opts SchedulingOptions,
) *SchedulingService {
	if opts.DefaultSlot <= 0 {
		opts.DefaultSlot = 20 * time.Minute
	}
	if opts.ReminderLookahead <= 0 {
		opts.ReminderLookahead = appointment.DefaultLookahead
	}
	return &SchedulingService{
		repo:              repo,
		petRepo:           petRepo,
		catalogRepo:       catalogRepo,
		source:            source,
		auditSvc:          auditSvc,
		clock:             clk,
		log:               log,
		locks:             newSlotLocks(),
		defaultSlot:       opts.DefaultSlot,
		reminderLookahead: opts.ReminderLookahead,
		weekStart:         opts.WeekStart,
	}
}

// FreeSlots returns the provider's bookable slots of the given duration on
// date, in chronological order. A non-positive duration falls back to the
// configured default. Read-only; for display the result may be stale by the
// time a booking lands, which Reserve handles by re-checking.
func (s *SchedulingService) FreeSlots(ctx context.Context, providerID uuid.UUID, date time.Time, slotDuration time.Duration) ([]timegrid.Slot, error) {
	if slotDuration <= 0 {
		slotDuration = s.defaultSlot
	}
	return s.freeSlotsLocked(ctx, providerID, date, slotDuration, nil)
}

// freeSlotsLocked computes availability without taking the slot lock; in
// write paths the caller holds the (provider, date) lock already.
// excludeID drops one appointment from the busy set, for reschedules.
func (s *SchedulingService) freeSlotsLocked(ctx context.Context, providerID uuid.UUID, date time.Time, slotDuration time.Duration, excludeID *uuid.UUID) ([]timegrid.Slot, error) {
	windows, err := s.source.WindowsOn(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("loading working windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, nil
	}

	active, err := s.repo.ListActiveByProviderDate(ctx, providerID, timegrid.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("loading booked appointments: %w", err)
	}

	busy := make([]timegrid.Slot, 0, len(active))
	for _, a := range active {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		busy = append(busy, a.Slot())
	}

	return schedule.FreeSlots(windows, busy, slotDuration), nil
}

// Reserve validates the requested slot against current availability and
// persists the appointment, atomically per (provider, date). Concurrent
// requests for the same slot resolve to exactly one winner; the loser gets
// ErrSlotUnavailable and should re-query FreeSlots.
func (s *SchedulingService) Reserve(ctx context.Context, cmd *appointment.ReserveCommand) (*appointment.Appointment, error) {
	svc, err := s.catalogRepo.GetByID(ctx, cmd.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("verifying service: %w", err)
	}
	if !svc.Active {
		return nil, catalog.ErrServiceInactive
	}

	if cmd.DurationMins < 0 {
		return nil, appointment.ErrInvalidDuration
	}
	duration := svc.Duration()
	if cmd.DurationMins > 0 {
		duration = time.Duration(cmd.DurationMins) * time.Minute
	}
	if duration <= 0 {
		duration = s.defaultSlot
	}

	slot, err := timegrid.NewSlot(cmd.StartsAt, cmd.StartsAt.Add(duration))
	if err != nil {
		return nil, err
	}

	p, err := s.petRepo.GetByID(ctx, cmd.PetID)
	if err != nil {
		return nil, fmt.Errorf("verifying pet: %w", err)
	}
	if !p.IsActive() {
		return nil, pet.ErrPetInactive
	}

	status := appointment.StatusPending
	if cmd.WalkIn {
		if cmd.ProviderID == nil {
			return nil, appointment.ErrProviderUnassigned
		}
		status = appointment.StatusConfirmed
	}

	a := &appointment.Appointment{
		CustomerID: cmd.CustomerID,
		PetID:      cmd.PetID,
		ProviderID: cmd.ProviderID,
		BranchID:   cmd.BranchID,
		ServiceID:  cmd.ServiceID,
		StartsAt:   slot.Start,
		EndsAt:     slot.End,
		Note:       cmd.Note,
		Status:     status,
		CreatedBy:  cmd.CreatedBy,
	}

	if cmd.ProviderID != nil {
		// The check-then-insert below is the one sequence that must be
		// atomic: serialize it per (provider, date).
		release := s.locks.acquire(*cmd.ProviderID, slot.Date())
		defer release()

		free, err := s.freeSlotsLocked(ctx, *cmd.ProviderID, slot.Date(), duration, nil)
		if err != nil {
			return nil, err
		}
		if !containsSlot(free, slot) {
			return nil, appointment.ErrSlotUnavailable
		}

		if err := s.repo.Create(ctx, a); err != nil {
			s.log.Error("failed to create appointment", zap.Error(err))
			return nil, fmt.Errorf("creating appointment: %w", err)
		}
	} else {
		// Unassigned booking: no provider calendar to conflict with yet.
		if err := s.repo.Create(ctx, a); err != nil {
			s.log.Error("failed to create appointment", zap.Error(err))
			return nil, fmt.Errorf("creating appointment: %w", err)
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CreatedBy,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return a, nil
}

// Transition applies one edge of the lifecycle state machine. Disallowed
// edges, including a transition to the current status, fail with
// ErrInvalidStatusTransition and leave the appointment unchanged.
func (s *SchedulingService) Transition(ctx context.Context, id uuid.UUID, target appointment.Status, actorID uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	switch target {
	case appointment.StatusConfirmed:
		err = a.Confirm()
	case appointment.StatusCancelled:
		err = a.Cancel("", actorID, now)
	case appointment.StatusCompleted:
		err = a.Complete(now)
	default:
		err = appointment.ErrInvalidStatusTransition
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actorID,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"status":%q}`, target),
	})

	return a, nil
}

// Confirm moves a pending appointment to confirmed.
func (s *SchedulingService) Confirm(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*appointment.Appointment, error) {
	return s.Transition(ctx, id, appointment.StatusConfirmed, actorID)
}

// Cancel moves a pending or confirmed appointment to cancelled, freeing
// its slot. Cancellation is a status change, never a row removal.
func (s *SchedulingService) Cancel(ctx context.Context, id uuid.UUID, cmd *appointment.CancelCommand) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Cancel(cmd.Reason, cmd.CancelledBy, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CancelledBy,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"status":"cancelled","reason":%q}`, cmd.Reason),
	})

	return a, nil
}

// Complete closes out a confirmed appointment.
func (s *SchedulingService) Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*appointment.Appointment, error) {
	return s.Transition(ctx, id, appointment.StatusCompleted, actorID)
}

// Reschedule moves a pending or confirmed appointment to a new slot,
// re-validating availability with the appointment itself excluded from the
// conflict check. Terminal appointments cannot move.
func (s *SchedulingService) Reschedule(ctx context.Context, id uuid.UUID, cmd *appointment.RescheduleCommand) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return nil, appointment.ErrInvalidStatusTransition
	}

	if cmd.DurationMins < 0 {
		return nil, appointment.ErrInvalidDuration
	}
	duration := a.Slot().Duration()
	if cmd.DurationMins > 0 {
		duration = time.Duration(cmd.DurationMins) * time.Minute
	}

	slot, err := timegrid.NewSlot(cmd.StartsAt, cmd.StartsAt.Add(duration))
	if err != nil {
		return nil, err
	}

	if a.ProviderID != nil {
		release := s.locks.acquire(*a.ProviderID, slot.Date())
		defer release()

		free, err := s.freeSlotsLocked(ctx, *a.ProviderID, slot.Date(), duration, &a.ID)
		if err != nil {
			return nil, err
		}
		if !containsSlot(free, slot) {
			return nil, appointment.ErrSlotUnavailable
		}

		a.StartsAt = slot.Start
		a.EndsAt = slot.End
		if err := s.repo.UpdateSlot(ctx, a); err != nil {
			return nil, fmt.Errorf("rescheduling appointment: %w", err)
		}
	} else {
		a.StartsAt = slot.Start
		a.EndsAt = slot.End
		if err := s.repo.UpdateSlot(ctx, a); err != nil {
			return nil, fmt.Errorf("rescheduling appointment: %w", err)
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.UpdatedBy,
		Action:       "update",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		Changes:      fmt.Sprintf(`{"starts_at":%q}`, slot.Start.Format(time.RFC3339)),
	})

	return a, nil
}

// HardDelete removes the row unconditionally, bypassing the state machine.
// Administrative correction only.
func (s *SchedulingService) HardDelete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actorID,
		Action:       "delete",
		ResourceType: "appointment",
		ResourceID:   id.String(),
	})
	return nil
}

// GetAppointment fetches a single appointment by id.
func (s *SchedulingService) GetAppointment(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAppointments is the filtered query surface (by provider, customer,
// status, date range), ordered by (date, start, id).
func (s *SchedulingService) ListAppointments(ctx context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// TaggedAppointment is an appointment with its derived urgency.
type TaggedAppointment struct {
	*appointment.Appointment
	Urgency appointment.UrgencyTag
}

// Upcoming is the reminder feed: active appointments starting within
// lookahead of now, tagged and ordered by start time ascending. A
// non-positive lookahead falls back to the configured default.
func (s *SchedulingService) Upcoming(ctx context.Context, lookahead time.Duration) ([]TaggedAppointment, error) {
	if lookahead <= 0 {
		lookahead = s.reminderLookahead
	}
	now := s.clock.Now()

	appts, err := s.repo.ListStartingBetween(ctx, now, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("loading upcoming appointments: %w", err)
	}

	tagged := make([]TaggedAppointment, 0, len(appts))
	for _, a := range appts {
		tagged = append(tagged, TaggedAppointment{
			Appointment: a,
			Urgency:     appointment.Classify(a, now, lookahead),
		})
	}
	return tagged, nil
}

// MonthView builds the 42-cell calendar grid for the given month from the
// ledger's current state.
func (s *SchedulingService) MonthView(ctx context.Context, year int, month time.Month) ([]schedule.CalendarDay, error) {
	now := s.clock.Now()
	from, to := schedule.GridRange(year, month, s.weekStart, now.Location())

	appts, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading appointments for calendar: %w", err)
	}

	return schedule.BuildMonth(year, month, appts, now, s.weekStart), nil
}

func containsSlot(slots []timegrid.Slot, want timegrid.Slot) bool {
	for _, s := range slots {
		if s.Start.Equal(want.Start) && s.End.Equal(want.End) {
			return true
		}
	}
	return false
}
