package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, activeOnly bool) ([]*Service, error)
}
