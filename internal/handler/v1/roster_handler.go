package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/service"
)

type RosterHandler struct {
	svc *service.RosterService
}

func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{svc: svc}
}

type workingHoursRequest struct {
	ProviderID uuid.UUID `json:"provider_id" binding:"required"`
	Weekday    int       `json:"weekday"`
	StartTime  string    `json:"start_time" binding:"required"`
	EndTime    string    `json:"end_time" binding:"required"`
	BreakStart *string   `json:"break_start"`
	BreakEnd   *string   `json:"break_end"`
}

func (h *RosterHandler) AddWorkingHours(c *gin.Context) {
	var req workingHoursRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		respondError(c, http.StatusBadRequest, "weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}

	wh, err := h.svc.AddWorkingHours(c.Request.Context(), &service.SetWorkingHoursCommand{
		ProviderID: req.ProviderID,
		Weekday:    time.Weekday(req.Weekday),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		BreakStart: req.BreakStart,
		BreakEnd:   req.BreakEnd,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"id":          wh.ID,
		"provider_id": wh.ProviderID,
		"weekday":     int(wh.Weekday),
		"start_time":  wh.StartTime,
		"end_time":    wh.EndTime,
	})
}

func (h *RosterHandler) RemoveWorkingHours(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RemoveWorkingHours(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type overrideRequest struct {
	ProviderID uuid.UUID `json:"provider_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	// Omitting both times marks the day off entirely.
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func (h *RosterHandler) AddOverride(c *gin.Context) {
	var req overrideRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		return
	}
	if (req.StartTime == nil) != (req.EndTime == nil) {
		respondError(c, http.StatusBadRequest, "start_time and end_time must be set together")
		return
	}

	o, err := h.svc.AddOverride(c.Request.Context(), &service.AddOverrideCommand{
		ProviderID: req.ProviderID,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"id":          o.ID,
		"provider_id": o.ProviderID,
		"date":        o.Date.Format("2006-01-02"),
		"start_time":  o.StartTime,
		"end_time":    o.EndTime,
	})
}
