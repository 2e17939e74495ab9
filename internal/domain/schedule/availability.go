package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// Source yields the working windows during which a provider accepts bookings
// on a given date. Zero windows means the provider simply is not scheduled
// that day. Windows are same-day, non-overlapping, and returned in
// chronological order. Backed by the staff roster.
type Source interface {
	WindowsOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]timegrid.Slot, error)
}

// FreeSlots walks each window in slotDuration increments from its start,
// keeping a candidate only when it fits entirely inside the window and
// overlaps none of the busy intervals.
//
// Ordering is a contract: windows are processed in the order given and
// candidates within a window ascend by start time, because callers default
// to "the first available slot". Windows never merge, so a slot may not
// straddle two back-to-back windows even when they touch, which is what
// makes a lunch-break boundary deliberate.
func FreeSlots(windows []timegrid.Slot, busy []timegrid.Slot, slotDuration time.Duration) []timegrid.Slot {
	if slotDuration <= 0 {
		return nil
	}

	var free []timegrid.Slot
	for _, w := range windows {
		for start := w.Start; ; start = start.Add(slotDuration) {
			candidate := timegrid.Slot{Start: start, End: start.Add(slotDuration)}
			if !candidate.Within(w) {
				break
			}
			if !overlapsAny(candidate, busy) {
				free = append(free, candidate)
			}
		}
	}
	return free
}

func overlapsAny(s timegrid.Slot, busy []timegrid.Slot) bool {
	for _, b := range busy {
		if s.Overlaps(b) {
			return true
		}
	}
	return false
}
