package roster

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// ScheduleSource adapts the roster repository into the schedule.Source the
// availability calculator consumes: recurring weekday rows expanded onto the
// concrete date, with date overrides applied first.
type ScheduleSource struct {
	repo Repository
}

func NewScheduleSource(repo Repository) *ScheduleSource {
	return &ScheduleSource{repo: repo}
}

func (s *ScheduleSource) WindowsOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]timegrid.Slot, error) {
	date = timegrid.DateOf(date)

	o, err := s.repo.GetOverride(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("loading roster override: %w", err)
	}
	if o != nil {
		if o.StartTime == nil || o.EndTime == nil {
			// Day off.
			return nil, nil
		}
		start, err := atClock(date, *o.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := atClock(date, *o.EndTime)
		if err != nil {
			return nil, err
		}
		w, err := timegrid.NewSlot(start, end)
		if err != nil {
			return nil, err
		}
		return []timegrid.Slot{w}, nil
	}

	rows, err := s.repo.ListByProviderWeekday(ctx, providerID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("loading working hours: %w", err)
	}

	var windows []timegrid.Slot
	for _, wh := range rows {
		ws, err := wh.Windows(date)
		if err != nil {
			return nil, err
		}
		windows = append(windows, ws...)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows, nil
}
