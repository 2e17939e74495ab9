package appointment

import (
	"time"

	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// UrgencyTag drives reminder banners in the UI. It is derived at read time
// and never persisted.
type UrgencyTag string

const (
	UrgencyNone     UrgencyTag = "none"
	UrgencyDueToday UrgencyTag = "dueToday"
	UrgencyDueSoon  UrgencyTag = "dueSoon"
)

// DefaultLookahead is how far ahead of now an appointment counts as due soon.
const DefaultLookahead = 60 * time.Minute

// Classify tags an appointment relative to now. Due soon wins over due today
// when both apply, so a same-day appointment thirty minutes out is reported
// as dueSoon. Terminal statuses are always UrgencyNone regardless of timing.
func Classify(a *Appointment, now time.Time, lookahead time.Duration) UrgencyTag {
	if !a.Active() {
		return UrgencyNone
	}
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if !a.StartsAt.Before(now) && !a.StartsAt.After(now.Add(lookahead)) {
		return UrgencyDueSoon
	}
	if timegrid.SameDay(a.StartsAt, now) {
		return UrgencyDueToday
	}
	return UrgencyNone
}
