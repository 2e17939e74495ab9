// Package clock abstracts "now" so that services and their urgency/calendar
// projections stay deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
