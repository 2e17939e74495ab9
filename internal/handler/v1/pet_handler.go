package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/service"
)

type PetHandler struct {
	svc *service.PetService
}

func NewPetHandler(svc *service.PetService) *PetHandler {
	return &PetHandler{svc: svc}
}

type petResponse struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Breed   string    `json:"breed,omitempty"`
	Status  string    `json:"status"`
	Notes   string    `json:"notes,omitempty"`
}

func toPetResponse(p *pet.Pet) petResponse {
	return petResponse{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Species: p.Species,
		Breed:   p.Breed,
		Status:  string(p.Status),
		Notes:   p.Notes,
	}
}

type createPetRequest struct {
	OwnerID uuid.UUID `json:"owner_id" binding:"required"`
	Name    string    `json:"name" binding:"required"`
	Species string    `json:"species" binding:"required"`
	Breed   string    `json:"breed"`
	Notes   string    `json:"notes"`
}

func (h *PetHandler) Create(c *gin.Context) {
	var req createPetRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePet(c.Request.Context(), &service.CreatePetCommand{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Notes:     req.Notes,
		CreatedBy: callerClaims(c).UserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPetResponse(p))
}

func (h *PetHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPet(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPetResponse(p))
}

func (h *PetHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := parseQueryUUID(c, "owner_id")
	if !ok {
		return
	}
	if ownerID == nil {
		respondError(c, http.StatusBadRequest, "owner_id is required")
		return
	}

	pets, err := h.svc.ListByOwner(c.Request.Context(), *ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]petResponse, 0, len(pets))
	for _, p := range pets {
		items = append(items, toPetResponse(p))
	}
	respondOK(c, items)
}
