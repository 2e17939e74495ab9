package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/domain/roster"
	"github.com/pawsuite/petflow/internal/domain/timegrid"
	"github.com/pawsuite/petflow/internal/repository/memstore"
	"github.com/pawsuite/petflow/pkg/clock"
)

// Monday 2026-03-09, with the provider rostered 09:00-17:00 and a
// 12:00-13:00 break.
var (
	testDay = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc        *SchedulingService
	appts      *memstore.AppointmentRepository
	providerID uuid.UUID
	petID      uuid.UUID
	serviceID  uuid.UUID
	customerID uuid.UUID
	staffID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	apptRepo := memstore.NewAppointmentRepository()
	petRepo := memstore.NewPetRepository()
	catalogRepo := memstore.NewCatalogRepository()
	rosterRepo := memstore.NewRosterRepository()

	auditSvc := NewAuditService(memstore.NewAuditRepository(), zap.NewNop(), nil)
	t.Cleanup(auditSvc.Shutdown)

	providerID := uuid.New()
	bs, be := "12:00", "13:00"
	if err := rosterRepo.CreateWorkingHours(ctx, &roster.WorkingHours{
		ProviderID: providerID,
		Weekday:    time.Monday,
		StartTime:  "09:00",
		EndTime:    "17:00",
		BreakStart: &bs,
		BreakEnd:   &be,
	}); err != nil {
		t.Fatalf("seeding roster: %v", err)
	}

	p := &pet.Pet{OwnerID: uuid.New(), Name: "Biscuit", Species: "dog", Status: pet.StatusActive}
	if err := petRepo.Create(ctx, p); err != nil {
		t.Fatalf("seeding pet: %v", err)
	}

	svcEntry := &catalog.Service{Name: "Checkup", DurationMins: 20, Active: true}
	if err := catalogRepo.Create(ctx, svcEntry); err != nil {
		t.Fatalf("seeding catalog: %v", err)
	}

	svc := NewSchedulingService(
		apptRepo, petRepo, catalogRepo,
		roster.NewScheduleSource(rosterRepo),
		auditSvc,
		clock.Fixed(testNow),
		zap.NewNop(),
		SchedulingOptions{},
	)

	return &fixture{
		svc:        svc,
		appts:      apptRepo,
		providerID: providerID,
		petID:      p.ID,
		serviceID:  svcEntry.ID,
		customerID: uuid.New(),
		staffID:    uuid.New(),
	}
}

func (f *fixture) reserveAt(t *testing.T, hour, min int) *appointment.Appointment {
	t.Helper()
	a, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, hour, min),
		CreatedBy:  f.staffID,
	})
	if err != nil {
		t.Fatalf("Reserve(%02d:%02d): %v", hour, min, err)
	}
	return a
}

func TestReserve(t *testing.T) {
	f := newFixture(t)

	a := f.reserveAt(t, 9, 0)
	if a.Status != appointment.StatusPending {
		t.Errorf("Status = %s, want pending", a.Status)
	}
	if !a.EndsAt.Equal(timegrid.At(testDay, 9, 20)) {
		t.Errorf("EndsAt = %v, want 09:20 from the 20-minute catalog duration", a.EndsAt)
	}
	if a.ID == uuid.Nil {
		t.Error("Reserve left ID unset")
	}
}

func TestReserveConflict(t *testing.T) {
	f := newFixture(t)
	f.reserveAt(t, 9, 0)

	_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: uuid.New(),
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 9, 0),
		CreatedBy:  f.staffID,
	})
	if !errors.Is(err, appointment.ErrSlotUnavailable) {
		t.Fatalf("Reserve() error = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveOffGridSlotRejected(t *testing.T) {
	f := newFixture(t)

	// 09:10 is not on the 20-minute grid walked from the window start.
	_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 9, 10),
		CreatedBy:  f.staffID,
	})
	if !errors.Is(err, appointment.ErrSlotUnavailable) {
		t.Fatalf("Reserve() error = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveDuringBreakRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 12, 0),
		CreatedBy:  f.staffID,
	})
	if !errors.Is(err, appointment.ErrSlotUnavailable) {
		t.Fatalf("Reserve() during break error = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveUnrosteredDayRejected(t *testing.T) {
	f := newFixture(t)

	tuesday := testDay.AddDate(0, 0, 1)
	_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(tuesday, 9, 0),
		CreatedBy:  f.staffID,
	})
	if !errors.Is(err, appointment.ErrSlotUnavailable) {
		t.Fatalf("Reserve() on unrostered day error = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveWalkInStartsConfirmed(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		ProviderID: &f.providerID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 9, 0),
		WalkIn:     true,
		CreatedBy:  f.staffID,
	})
	if err != nil {
		t.Fatalf("Reserve() walk-in: %v", err)
	}
	if a.Status != appointment.StatusConfirmed {
		t.Errorf("walk-in Status = %s, want confirmed", a.Status)
	}
}

func TestReserveWalkInNeedsProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 9, 0),
		WalkIn:     true,
		CreatedBy:  f.staffID,
	})
	if !errors.Is(err, appointment.ErrProviderUnassigned) {
		t.Fatalf("Reserve() walk-in without provider error = %v, want ErrProviderUnassigned", err)
	}
}

func TestReserveUnassignedSkipsConflictCheck(t *testing.T) {
	f := newFixture(t)
	f.reserveAt(t, 9, 0)

	// No provider yet: nothing to conflict with, even at an occupied time.
	a, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
		CustomerID: f.customerID,
		PetID:      f.petID,
		BranchID:   uuid.New(),
		ServiceID:  f.serviceID,
		StartsAt:   timegrid.At(testDay, 9, 0),
		CreatedBy:  f.staffID,
	})
	if err != nil {
		t.Fatalf("Reserve() unassigned: %v", err)
	}
	if a.ProviderID != nil {
		t.Error("ProviderID set on unassigned booking")
	}
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.reserveAt(t, 9, 0)
	if _, err := f.svc.Cancel(ctx, a.ID, &appointment.CancelCommand{
		Reason:      "owner request",
		CancelledBy: f.staffID,
	}); err != nil {
		t.Fatalf("Cancel(): %v", err)
	}

	// The slot is immediately bookable again.
	f.reserveAt(t, 9, 0)
}

func TestConfirmAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.reserveAt(t, 9, 0)

	confirmed, err := f.svc.Confirm(ctx, a.ID, f.staffID)
	if err != nil {
		t.Fatalf("Confirm(): %v", err)
	}
	if confirmed.Status != appointment.StatusConfirmed {
		t.Errorf("Status = %s, want confirmed", confirmed.Status)
	}

	completed, err := f.svc.Complete(ctx, a.ID, f.staffID)
	if err != nil {
		t.Fatalf("Complete(): %v", err)
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt = %v, want fixture now", completed.CompletedAt)
	}

	// Completed appointments no longer block the grid.
	f.reserveAt(t, 9, 0)
}

func TestInvalidTransitionLeavesStatusUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.reserveAt(t, 9, 0)
	if _, err := f.svc.Complete(ctx, a.ID, f.staffID); !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Fatalf("Complete() on pending error = %v, want ErrInvalidStatusTransition", err)
	}

	stored, err := f.svc.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment(): %v", err)
	}
	if stored.Status != appointment.StatusPending {
		t.Errorf("Status = %s after failed transition, want pending", stored.Status)
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.reserveAt(t, 9, 0)
	moved, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{
		StartsAt:  timegrid.At(testDay, 10, 0),
		UpdatedBy: f.staffID,
	})
	if err != nil {
		t.Fatalf("Reschedule(): %v", err)
	}
	if !moved.StartsAt.Equal(timegrid.At(testDay, 10, 0)) {
		t.Errorf("StartsAt = %v, want 10:00", moved.StartsAt)
	}

	// The old slot is free again.
	f.reserveAt(t, 9, 0)
}

func TestRescheduleOntoOwnSlot(t *testing.T) {
	f := newFixture(t)

	// Moving onto its own current slot must not self-conflict.
	a := f.reserveAt(t, 9, 0)
	if _, err := f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
		StartsAt:  timegrid.At(testDay, 9, 0),
		UpdatedBy: f.staffID,
	}); err != nil {
		t.Fatalf("Reschedule() onto own slot: %v", err)
	}
}

func TestRescheduleConflict(t *testing.T) {
	f := newFixture(t)

	f.reserveAt(t, 9, 0)
	b := f.reserveAt(t, 10, 0)

	_, err := f.svc.Reschedule(context.Background(), b.ID, &appointment.RescheduleCommand{
		StartsAt:  timegrid.At(testDay, 9, 0),
		UpdatedBy: f.staffID,
	})
	if !errors.Is(err, appointment.ErrSlotUnavailable) {
		t.Fatalf("Reschedule() error = %v, want ErrSlotUnavailable", err)
	}
}

func TestRescheduleTerminalRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.reserveAt(t, 9, 0)
	if _, err := f.svc.Cancel(ctx, a.ID, &appointment.CancelCommand{CancelledBy: f.staffID}); err != nil {
		t.Fatalf("Cancel(): %v", err)
	}

	_, err := f.svc.Reschedule(ctx, a.ID, &appointment.RescheduleCommand{
		StartsAt:  timegrid.At(testDay, 10, 0),
		UpdatedBy: f.staffID,
	})
	if !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Fatalf("Reschedule() cancelled error = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestConcurrentReserveOneWinner(t *testing.T) {
	f := newFixture(t)

	const contenders = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Reserve(context.Background(), &appointment.ReserveCommand{
				CustomerID: uuid.New(),
				PetID:      f.petID,
				ProviderID: &f.providerID,
				BranchID:   uuid.New(),
				ServiceID:  f.serviceID,
				StartsAt:   timegrid.At(testDay, 9, 0),
				CreatedBy:  f.staffID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, appointment.ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("Reserve(): unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d reservations won, want exactly 1", wins)
	}
	if conflicts != contenders-1 {
		t.Errorf("%d conflicts, want %d", conflicts, contenders-1)
	}
}

func TestFreeSlotsRespectsRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.svc.FreeSlots(ctx, f.providerID, testDay, 0)
	if err != nil {
		t.Fatalf("FreeSlots(): %v", err)
	}
	// 09:00-12:00 and 13:00-17:00 at 20 minutes: 9 + 12 slots.
	if len(slots) != 21 {
		t.Fatalf("FreeSlots() = %d slots, want 21", len(slots))
	}
	for _, s := range slots {
		if s.Overlaps(timegrid.MustSlot(timegrid.At(testDay, 12, 0), timegrid.At(testDay, 13, 0))) {
			t.Errorf("slot %v lands in the break", s)
		}
	}
}

func TestUpcomingTagsUrgency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// testNow is 08:00; 09:00 is beyond the 60-minute default lookahead
	// window used by Upcoming, so ask with a wider one.
	f.reserveAt(t, 8, 40)
	f.reserveAt(t, 10, 0)

	tagged, err := f.svc.Upcoming(ctx, 0)
	if err != nil {
		t.Fatalf("Upcoming(): %v", err)
	}
	if len(tagged) != 1 {
		t.Fatalf("Upcoming() with default lookahead = %d appointments, want 1", len(tagged))
	}
	if tagged[0].Urgency != appointment.UrgencyDueSoon {
		t.Errorf("Urgency = %s, want dueSoon", tagged[0].Urgency)
	}

	tagged, err = f.svc.Upcoming(ctx, 4*time.Hour)
	if err != nil {
		t.Fatalf("Upcoming(4h): %v", err)
	}
	if len(tagged) != 2 {
		t.Fatalf("Upcoming(4h) = %d appointments, want 2", len(tagged))
	}
	// Ordered by start time ascending.
	if !tagged[0].StartsAt.Before(tagged[1].StartsAt) {
		t.Error("Upcoming() not ordered by start time")
	}
}

func TestMonthViewGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.reserveAt(t, 9, 0)

	days, err := f.svc.MonthView(ctx, 2026, time.March)
	if err != nil {
		t.Fatalf("MonthView(): %v", err)
	}
	if len(days) != 42 {
		t.Fatalf("MonthView() = %d cells, want 42", len(days))
	}

	var placed, todays int
	for _, d := range days {
		placed += len(d.Appointments)
		if d.Today {
			todays++
		}
	}
	if placed != 1 {
		t.Errorf("MonthView() placed %d appointments, want 1", placed)
	}
	if todays != 1 {
		t.Errorf("MonthView() flagged %d todays, want 1", todays)
	}
}

func TestHardDeleteUnknownID(t *testing.T) {
	f := newFixture(t)

	err := f.svc.HardDelete(context.Background(), uuid.New(), f.staffID)
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		t.Fatalf("HardDelete() error = %v, want ErrAppointmentNotFound", err)
	}
}
