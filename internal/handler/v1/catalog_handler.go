package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type serviceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DurationMins int       `json:"duration_mins"`
	Active       bool      `json:"active"`
}

func toServiceResponse(s *catalog.Service) serviceResponse {
	return serviceResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		DurationMins: s.DurationMins,
		Active:       s.Active,
	}
}

type createServiceRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DurationMins int    `json:"duration_mins" binding:"required"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req createServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	svc, err := h.svc.CreateService(c.Request.Context(), &service.CreateServiceCommand{
		Name:         req.Name,
		Description:  req.Description,
		DurationMins: req.DurationMins,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toServiceResponse(svc))
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	svc, err := h.svc.GetService(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toServiceResponse(svc))
}

func (h *CatalogHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	services, err := h.svc.ListServices(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		items = append(items, toServiceResponse(s))
	}
	respondOK(c, items)
}
