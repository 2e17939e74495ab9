package timegrid

import (
	"errors"
	"testing"
	"time"
)

var day = time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

func TestNewSlot(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid", At(day, 9, 0), At(day, 9, 20), false},
		{"start equals end", At(day, 9, 0), At(day, 9, 0), true},
		{"start after end", At(day, 10, 0), At(day, 9, 0), true},
		{"crosses midnight", At(day, 23, 30), At(day.AddDate(0, 0, 1), 0, 30), true},
		{"full day", At(day, 0, 0), At(day, 23, 59), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlot(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Fatalf("NewSlot() error = %v, want ErrInvalidInterval", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSlot() unexpected error: %v", err)
			}
		})
	}
}

func TestNewSlotTruncatesToMinute(t *testing.T) {
	start := At(day, 9, 0).Add(30 * time.Second)
	s, err := NewSlot(start, At(day, 9, 20))
	if err != nil {
		t.Fatalf("NewSlot() unexpected error: %v", err)
	}
	if !s.Start.Equal(At(day, 9, 0)) {
		t.Errorf("Start = %v, want truncated to %v", s.Start, At(day, 9, 0))
	}
}

func TestSlotOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Slot
		want bool
	}{
		{
			"identical",
			MustSlot(At(day, 9, 0), At(day, 9, 20)),
			MustSlot(At(day, 9, 0), At(day, 9, 20)),
			true,
		},
		{
			"partial overlap",
			MustSlot(At(day, 9, 0), At(day, 9, 30)),
			MustSlot(At(day, 9, 20), At(day, 9, 40)),
			true,
		},
		{
			"touching endpoints are disjoint",
			MustSlot(At(day, 9, 0), At(day, 9, 20)),
			MustSlot(At(day, 9, 20), At(day, 9, 40)),
			false,
		},
		{
			"contained",
			MustSlot(At(day, 9, 0), At(day, 10, 0)),
			MustSlot(At(day, 9, 20), At(day, 9, 40)),
			true,
		},
		{
			"disjoint",
			MustSlot(At(day, 9, 0), At(day, 9, 20)),
			MustSlot(At(day, 11, 0), At(day, 11, 20)),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlotWithin(t *testing.T) {
	window := MustSlot(At(day, 9, 0), At(day, 12, 0))

	tests := []struct {
		name string
		s    Slot
		want bool
	}{
		{"inside", MustSlot(At(day, 10, 0), At(day, 10, 20)), true},
		{"exact fit", MustSlot(At(day, 9, 0), At(day, 12, 0)), true},
		{"flush with end", MustSlot(At(day, 11, 40), At(day, 12, 0)), true},
		{"spills past end", MustSlot(At(day, 11, 50), At(day, 12, 10)), false},
		{"starts before", MustSlot(At(day, 8, 50), At(day, 9, 10)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Within(window); got != tt.want {
				t.Errorf("Within() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateOfKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2026, time.March, 9, 14, 30, 0, 0, loc)
	d := DateOf(ts)
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("DateOf() = %v, want midnight", d)
	}
	if d.Location() != loc {
		t.Errorf("DateOf() location = %v, want %v", d.Location(), loc)
	}
}
