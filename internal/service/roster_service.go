package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/domain/roster"
)

// RosterService manages provider working hours and date overrides. The
// scheduling service consumes them indirectly through roster.ScheduleSource.
type RosterService struct {
	repo roster.Repository
	log  *zap.Logger
}

func NewRosterService(repo roster.Repository, log *zap.Logger) *RosterService {
	return &RosterService{repo: repo, log: log}
}

type SetWorkingHoursCommand struct {
	ProviderID uuid.UUID
	Weekday    time.Weekday
	StartTime  string
	EndTime    string
	BreakStart *string
	BreakEnd   *string
}

func (s *RosterService) AddWorkingHours(ctx context.Context, cmd *SetWorkingHoursCommand) (*roster.WorkingHours, error) {
	wh := &roster.WorkingHours{
		ProviderID: cmd.ProviderID,
		Weekday:    cmd.Weekday,
		StartTime:  cmd.StartTime,
		EndTime:    cmd.EndTime,
		BreakStart: cmd.BreakStart,
		BreakEnd:   cmd.BreakEnd,
	}

	// Expanding onto a throwaway date validates the clock strings and the
	// window ordering before anything is persisted.
	if _, err := wh.Windows(time.Now()); err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}

	if err := s.repo.CreateWorkingHours(ctx, wh); err != nil {
		s.log.Error("failed to create working hours", zap.Error(err))
		return nil, fmt.Errorf("creating working hours: %w", err)
	}
	return wh, nil
}

func (s *RosterService) RemoveWorkingHours(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWorkingHours(ctx, id)
}

type AddOverrideCommand struct {
	ProviderID uuid.UUID
	Date       time.Time
	StartTime  *string
	EndTime    *string
}

func (s *RosterService) AddOverride(ctx context.Context, cmd *AddOverrideCommand) (*roster.Override, error) {
	o := &roster.Override{
		ProviderID: cmd.ProviderID,
		Date:       cmd.Date,
		StartTime:  cmd.StartTime,
		EndTime:    cmd.EndTime,
	}
	if err := s.repo.CreateOverride(ctx, o); err != nil {
		s.log.Error("failed to create roster override", zap.Error(err))
		return nil, fmt.Errorf("creating roster override: %w", err)
	}
	return o, nil
}
