package schedule

import (
	"time"

	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// MonthGridSize is the fixed number of cells in a month view: six weeks of
// seven days, so the layout is stable regardless of how many weeks the
// month actually spans.
const MonthGridSize = 42

// CalendarDay is one cell of the month grid. Derived on every view request,
// never persisted.
type CalendarDay struct {
	Date         time.Time
	InMonth      bool
	Today        bool
	Appointments []*appointment.Appointment
}

// GridRange returns the half-open [from, to) span of calendar days a month
// grid covers, including the leading and trailing days borrowed from the
// adjacent months.
func GridRange(year int, month time.Month, weekStart time.Weekday, loc *time.Location) (time.Time, time.Time) {
	first := timegrid.FirstOfMonth(year, month, loc)
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	from := first.AddDate(0, 0, -lead)
	return from, from.AddDate(0, 0, MonthGridSize)
}

// BuildMonth projects appointments onto a 42-cell month grid. Leading cells
// are filled from the previous month and trailing cells from the next, so
// the grid always starts on weekStart. Appointments of every status are
// placed on their day; status-based styling is a presentation concern.
// The today flag comes from the caller-supplied now, keeping this pure.
func BuildMonth(year int, month time.Month, appts []*appointment.Appointment, now time.Time, weekStart time.Weekday) []CalendarDay {
	loc := now.Location()
	first := timegrid.FirstOfMonth(year, month, loc)

	// Days to back up so the grid opens on weekStart.
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	gridStart := first.AddDate(0, 0, -lead)

	byDay := make(map[time.Time][]*appointment.Appointment, len(appts))
	for _, a := range appts {
		d := timegrid.DateOf(a.StartsAt.In(loc))
		byDay[d] = append(byDay[d], a)
	}

	today := timegrid.DateOf(now)
	days := make([]CalendarDay, 0, MonthGridSize)
	for i := 0; i < MonthGridSize; i++ {
		d := gridStart.AddDate(0, 0, i)
		days = append(days, CalendarDay{
			Date:         d,
			InMonth:      d.Month() == month && d.Year() == year,
			Today:        d.Equal(today),
			Appointments: byDay[d],
		})
	}
	return days
}
