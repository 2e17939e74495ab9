package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/domain/pet"
)

type PetService struct {
	repo     pet.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPetService(repo pet.Repository, auditSvc *AuditService, log *zap.Logger) *PetService {
	return &PetService{repo: repo, auditSvc: auditSvc, log: log}
}

type CreatePetCommand struct {
	OwnerID   uuid.UUID
	Name      string
	Species   string
	Breed     string
	Notes     string
	CreatedBy uuid.UUID
}

func (s *PetService) CreatePet(ctx context.Context, cmd *CreatePetCommand) (*pet.Pet, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Species) == "" {
		errs = append(errs, "species is required")
	}
	if cmd.OwnerID == uuid.Nil {
		errs = append(errs, "owner_id is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p := &pet.Pet{
		OwnerID: cmd.OwnerID,
		Name:    strings.TrimSpace(cmd.Name),
		Species: strings.TrimSpace(cmd.Species),
		Breed:   strings.TrimSpace(cmd.Breed),
		Notes:   cmd.Notes,
		Status:  pet.StatusActive,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("creating pet: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CreatedBy,
		Action:       "create",
		ResourceType: "pet",
		ResourceID:   p.ID.String(),
	})

	return p, nil
}

func (s *PetService) GetPet(ctx context.Context, id uuid.UUID) (*pet.Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PetService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*pet.Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}
