package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateWorkingHours(ctx context.Context, wh *WorkingHours) error
	DeleteWorkingHours(ctx context.Context, id uuid.UUID) error
	ListByProviderWeekday(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) ([]*WorkingHours, error)

	CreateOverride(ctx context.Context, o *Override) error
	// GetOverride returns (nil, nil) when the provider has no override on
	// the date.
	GetOverride(ctx context.Context, providerID uuid.UUID, date time.Time) (*Override, error)
}
