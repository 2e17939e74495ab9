package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/service"
	"github.com/pawsuite/petflow/pkg/metrics"
)

type AppointmentHandler struct {
	svc       *service.SchedulingService
	collector *metrics.Collector
}

func NewAppointmentHandler(svc *service.SchedulingService, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, collector: collector}
}

type appointmentResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	PetID      uuid.UUID  `json:"pet_id"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	BranchID   uuid.UUID  `json:"branch_id"`
	ServiceID  uuid.UUID  `json:"service_id"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     time.Time  `json:"ends_at"`
	Note       string     `json:"note,omitempty"`
	Status     string     `json:"status"`
	Urgency    string     `json:"urgency,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		PetID:      a.PetID,
		ProviderID: a.ProviderID,
		BranchID:   a.BranchID,
		ServiceID:  a.ServiceID,
		StartsAt:   a.StartsAt,
		EndsAt:     a.EndsAt,
		Note:       a.Note,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
	}
}

type reserveRequest struct {
	CustomerID   uuid.UUID  `json:"customer_id" binding:"required"`
	PetID        uuid.UUID  `json:"pet_id" binding:"required"`
	ProviderID   *uuid.UUID `json:"provider_id"`
	BranchID     uuid.UUID  `json:"branch_id" binding:"required"`
	ServiceID    uuid.UUID  `json:"service_id" binding:"required"`
	StartsAt     time.Time  `json:"starts_at" binding:"required"`
	DurationMins int        `json:"duration_mins"`
	Note         string     `json:"note"`
	WalkIn       bool       `json:"walk_in"`
}

// Reserve books a slot. Walk-in bookings (created directly confirmed) are a
// front-desk operation and rejected for customer tokens.
func (h *AppointmentHandler) Reserve(c *gin.Context) {
	var req reserveRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	if req.WalkIn && !claims.Role.IsStaff() {
		respondError(c, http.StatusForbidden, "walk-in booking requires a staff account")
		return
	}

	a, err := h.svc.Reserve(c.Request.Context(), &appointment.ReserveCommand{
		CustomerID:   req.CustomerID,
		PetID:        req.PetID,
		ProviderID:   req.ProviderID,
		BranchID:     req.BranchID,
		ServiceID:    req.ServiceID,
		StartsAt:     req.StartsAt,
		DurationMins: req.DurationMins,
		Note:         req.Note,
		WalkIn:       req.WalkIn,
		CreatedBy:    claims.UserID,
	})
	if err != nil {
		if err == appointment.ErrSlotUnavailable {
			h.collector.ReservationConflicts.Inc()
		}
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.Confirm(c.Request.Context(), id, callerClaims(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondOK(c, toAppointmentResponse(a))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Cancel(c.Request.Context(), id, &appointment.CancelCommand{
		Reason:      req.Reason,
		CancelledBy: callerClaims(c).UserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.Complete(c.Request.Context(), id, callerClaims(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	respondOK(c, toAppointmentResponse(a))
}

type rescheduleRequest struct {
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	DurationMins int       `json:"duration_mins"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Reschedule(c.Request.Context(), id, &appointment.RescheduleCommand{
		StartsAt:     req.StartsAt,
		DurationMins: req.DurationMins,
		UpdatedBy:    callerClaims(c).UserID,
	})
	if err != nil {
		if err == appointment.ErrSlotUnavailable {
			h.collector.ReservationConflicts.Inc()
		}
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

// HardDelete is administrative correction: it bypasses the lifecycle state
// machine entirely. Admin-gated in the router.
func (h *AppointmentHandler) HardDelete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.HardDelete(c.Request.Context(), id, callerClaims(c).UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	q := &appointment.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	var ok bool
	if q.ProviderID, ok = parseQueryUUID(c, "provider_id"); !ok {
		return
	}
	if q.CustomerID, ok = parseQueryUUID(c, "customer_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		q.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from: must be RFC3339")
			return
		}
		q.DateFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to: must be RFC3339")
			return
		}
		q.DateTo = &t
	}

	// Customers can only see their own bookings.
	claims := callerClaims(c)
	if claims.Role == domain.RoleCustomer && claims.CustomerID != nil {
		q.CustomerID = claims.CustomerID
	}

	page, err := h.svc.ListAppointments(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]appointmentResponse, 0, len(page.Appointments))
	for _, a := range page.Appointments {
		items = append(items, toAppointmentResponse(a))
	}

	respondOK(c, gin.H{
		"appointments": items,
		"total_count":  page.TotalCount,
		"page":         page.Page,
		"page_size":    page.PageSize,
		"total_pages":  page.TotalPages,
	})
}

// Upcoming is the reminder feed: active appointments starting within the
// lookahead window, tagged with their urgency.
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	var lookahead time.Duration
	if raw := c.Query("lookahead"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			respondError(c, http.StatusBadRequest, "invalid lookahead: must be a positive duration")
			return
		}
		lookahead = d
	}

	tagged, err := h.svc.Upcoming(c.Request.Context(), lookahead)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]appointmentResponse, 0, len(tagged))
	for _, t := range tagged {
		resp := toAppointmentResponse(t.Appointment)
		resp.Urgency = string(t.Urgency)
		items = append(items, resp)
	}

	respondOK(c, items)
}
