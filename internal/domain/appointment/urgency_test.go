package appointment

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		startsAt time.Time
		status   Status
		want     UrgencyTag
	}{
		{"thirty minutes out", now.Add(30 * time.Minute), StatusConfirmed, UrgencyDueSoon},
		{"starting right now", now, StatusConfirmed, UrgencyDueSoon},
		{"exactly at lookahead boundary", now.Add(60 * time.Minute), StatusPending, UrgencyDueSoon},
		{"just past lookahead, same day", now.Add(61 * time.Minute), StatusConfirmed, UrgencyDueToday},
		{"this evening", now.Add(8 * time.Hour), StatusPending, UrgencyDueToday},
		{"tomorrow", now.Add(24 * time.Hour), StatusConfirmed, UrgencyNone},
		{"already started", now.Add(-5 * time.Minute), StatusConfirmed, UrgencyDueToday},
		{"yesterday", now.Add(-24 * time.Hour), StatusConfirmed, UrgencyNone},
		// Terminal statuses never surface, whatever the timing.
		{"cancelled thirty minutes out", now.Add(30 * time.Minute), StatusCancelled, UrgencyNone},
		{"completed same day", now.Add(3 * time.Hour), StatusCompleted, UrgencyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{StartsAt: tt.startsAt, Status: tt.status}
			if got := Classify(a, now, DefaultLookahead); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyCustomLookahead(t *testing.T) {
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	a := &Appointment{StartsAt: now.Add(90 * time.Minute), Status: StatusConfirmed}

	if got := Classify(a, now, 2*time.Hour); got != UrgencyDueSoon {
		t.Errorf("Classify() with 2h lookahead = %s, want dueSoon", got)
	}
	if got := Classify(a, now, 60*time.Minute); got != UrgencyDueToday {
		t.Errorf("Classify() with 1h lookahead = %s, want dueToday", got)
	}
	// Non-positive lookahead falls back to the default.
	if got := Classify(a, now, 0); got != UrgencyDueToday {
		t.Errorf("Classify() with zero lookahead = %s, want dueToday", got)
	}
}
