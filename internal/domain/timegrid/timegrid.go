package timegrid

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("invalid time interval")

// Slot is a half-open interval [Start, End) on a single calendar day, with
// minute granularity. All times are expected to be in the same location.
type Slot struct {
	Start time.Time
	End   time.Time
}

// NewSlot validates and constructs a slot. Construction fails with
// ErrInvalidInterval when start >= end or the interval crosses midnight.
func NewSlot(start, end time.Time) (Slot, error) {
	start = start.Truncate(time.Minute)
	end = end.Truncate(time.Minute)

	if !start.Before(end) {
		return Slot{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, start.Format("15:04"), end.Format("15:04"))
	}
	if !SameDay(start, end) {
		return Slot{}, fmt.Errorf("%w: slot crosses a day boundary", ErrInvalidInterval)
	}
	return Slot{Start: start, End: end}, nil
}

// MustSlot is a construction shorthand for tests and fixtures.
func MustSlot(start, end time.Time) Slot {
	s, err := NewSlot(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

// At returns the instant on date at hour:min, in date's location.
func At(date time.Time, hour, min int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, min, 0, 0, date.Location())
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching endpoints do not count: [9:00,9:20) and [9:20,9:40) are disjoint.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// Within reports whether s lies entirely inside w.
func (s Slot) Within(w Slot) bool {
	return !s.Start.Before(w.Start) && !s.End.After(w.End)
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Date returns midnight of the slot's calendar day.
func (s Slot) Date() time.Time {
	return DateOf(s.Start)
}

func (s Slot) String() string {
	return s.Start.Format("2006-01-02 15:04") + "–" + s.End.Format("15:04")
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FirstOfMonth returns midnight on the first day of the given month.
func FirstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
