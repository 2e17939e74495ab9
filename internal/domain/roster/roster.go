package roster

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

// WorkingHours is one weekly recurring availability row for a provider:
// "Mondays 09:00–18:00, break 12:00–13:00". A provider may have several
// rows per weekday as long as they do not overlap.
type WorkingHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ProviderID uuid.UUID    `gorm:"column:provider_id;type:uuid;not null;index"`
	Weekday    time.Weekday `gorm:"column:weekday;not null;index"`

	// Times of day in "15:04" form, half-open [Start, End).
	StartTime string `gorm:"column:start_time;type:varchar(5);not null"`
	EndTime   string `gorm:"column:end_time;type:varchar(5);not null"`

	// Optional mid-shift break, splitting the row into two windows.
	BreakStart *string `gorm:"column:break_start;type:varchar(5)"`
	BreakEnd   *string `gorm:"column:break_end;type:varchar(5)"`
}

func (WorkingHours) TableName() string {
	return "working_hours"
}

// Override suspends or replaces a provider's recurring hours on one date
// (holiday, sick day). A nil replacement window means the whole day is off.
type Override struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index"`
	Date       time.Time `gorm:"column:date;not null;index"`

	StartTime *string `gorm:"column:start_time;type:varchar(5)"`
	EndTime   *string `gorm:"column:end_time;type:varchar(5)"`
}

func (Override) TableName() string {
	return "roster_overrides"
}

// Windows expands the row into concrete working windows on the given date.
// A row with a break yields two windows; windows never merge even when the
// break is zero-length.
func (wh *WorkingHours) Windows(date time.Time) ([]timegrid.Slot, error) {
	start, err := atClock(date, wh.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := atClock(date, wh.EndTime)
	if err != nil {
		return nil, err
	}

	if wh.BreakStart == nil || wh.BreakEnd == nil {
		s, err := timegrid.NewSlot(start, end)
		if err != nil {
			return nil, err
		}
		return []timegrid.Slot{s}, nil
	}

	bs, err := atClock(date, *wh.BreakStart)
	if err != nil {
		return nil, err
	}
	be, err := atClock(date, *wh.BreakEnd)
	if err != nil {
		return nil, err
	}

	morning, err := timegrid.NewSlot(start, bs)
	if err != nil {
		return nil, err
	}
	afternoon, err := timegrid.NewSlot(be, end)
	if err != nil {
		return nil, err
	}
	return []timegrid.Slot{morning, afternoon}, nil
}

func atClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing clock time %q: %w", clock, err)
	}
	return timegrid.At(date, t.Hour(), t.Minute()), nil
}
