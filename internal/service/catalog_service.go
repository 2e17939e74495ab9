package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/domain/catalog"
)

type CatalogService struct {
	repo catalog.Repository
	log  *zap.Logger
}

func NewCatalogService(repo catalog.Repository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

type CreateServiceCommand struct {
	Name         string
	Description  string
	DurationMins int
}

func (s *CatalogService) CreateService(ctx context.Context, cmd *CreateServiceCommand) (*catalog.Service, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.DurationMins <= 0 {
		errs = append(errs, "duration_mins must be positive")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	svc := &catalog.Service{
		Name:         strings.TrimSpace(cmd.Name),
		Description:  cmd.Description,
		DurationMins: cmd.DurationMins,
		Active:       true,
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.log.Error("failed to create service", zap.Error(err))
		return nil, fmt.Errorf("creating service: %w", err)
	}
	return svc, nil
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) ListServices(ctx context.Context, activeOnly bool) ([]*catalog.Service, error) {
	return s.repo.List(ctx, activeOnly)
}
