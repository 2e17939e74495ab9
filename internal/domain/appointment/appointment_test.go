package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		// Self-transitions are rejected too.
		{StatusPending, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			if got := a.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s) from %s = %v, want %v", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestConfirmRequiresProvider(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	if err := a.Confirm(); !errors.Is(err, ErrProviderUnassigned) {
		t.Fatalf("Confirm() error = %v, want ErrProviderUnassigned", err)
	}
	if a.Status != StatusPending {
		t.Errorf("failed confirm mutated status to %s", a.Status)
	}

	providerID := uuid.New()
	a.ProviderID = &providerID
	if err := a.Confirm(); err != nil {
		t.Fatalf("Confirm() unexpected error: %v", err)
	}
	if a.Status != StatusConfirmed {
		t.Errorf("Status = %s, want confirmed", a.Status)
	}
}

func TestCancelRecordsMetadata(t *testing.T) {
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	by := uuid.New()

	a := &Appointment{Status: StatusConfirmed}
	if err := a.Cancel("owner request", by, now); err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if a.Status != StatusCancelled {
		t.Errorf("Status = %s, want cancelled", a.Status)
	}
	if a.CancelledAt == nil || !a.CancelledAt.Equal(now) {
		t.Errorf("CancelledAt = %v, want %v", a.CancelledAt, now)
	}
	if a.CancellationReason != "owner request" {
		t.Errorf("CancellationReason = %q", a.CancellationReason)
	}
	if a.CancelledBy == nil || *a.CancelledBy != by {
		t.Errorf("CancelledBy = %v, want %v", a.CancelledBy, by)
	}
}

func TestCancelTerminalFails(t *testing.T) {
	for _, st := range []Status{StatusCompleted, StatusCancelled} {
		a := &Appointment{Status: st}
		if err := a.Cancel("", uuid.New(), time.Now()); !errors.Is(err, ErrInvalidStatusTransition) {
			t.Errorf("Cancel() from %s error = %v, want ErrInvalidStatusTransition", st, err)
		}
		if a.Status != st {
			t.Errorf("failed cancel mutated status from %s to %s", st, a.Status)
		}
	}
}

func TestCompleteFromPendingFails(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	if err := a.Complete(time.Now()); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("Complete() error = %v, want ErrInvalidStatusTransition", err)
	}
	if a.CompletedAt != nil {
		t.Error("failed complete set CompletedAt")
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.status}
		if got := a.Active(); got != tt.want {
			t.Errorf("Active() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}
