package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawsuite/petflow/internal/domain/schedule"
	"github.com/pawsuite/petflow/internal/service"
	"github.com/pawsuite/petflow/pkg/metrics"
)

type ScheduleHandler struct {
	svc       *service.SchedulingService
	collector *metrics.Collector
}

func NewScheduleHandler(svc *service.SchedulingService, collector *metrics.Collector) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, collector: collector}
}

type slotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Availability lists the bookable slots for a provider on a day.
// duration_mins falls back to the instance default when omitted.
func (h *ScheduleHandler) Availability(c *gin.Context) {
	providerID, ok := parseQueryUUID(c, "provider_id")
	if !ok {
		return
	}
	if providerID == nil {
		respondError(c, http.StatusBadRequest, "provider_id is required")
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date: must be YYYY-MM-DD")
		return
	}

	var duration time.Duration
	if raw := c.Query("duration_mins"); raw != "" {
		mins, err := strconv.Atoi(raw)
		if err != nil || mins <= 0 {
			respondError(c, http.StatusBadRequest, "invalid duration_mins")
			return
		}
		duration = time.Duration(mins) * time.Minute
	}

	searchStart := time.Now()
	slots, err := h.svc.FreeSlots(c.Request.Context(), *providerID, date, duration)
	h.collector.SlotSearchDuration.Observe(time.Since(searchStart).Seconds())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotResponse{Start: s.Start, End: s.End})
	}

	respondOK(c, gin.H{
		"provider_id": providerID,
		"date":        date.Format("2006-01-02"),
		"slots":       items,
	})
}

type calendarDayResponse struct {
	Date         string                `json:"date"`
	InMonth      bool                  `json:"in_month"`
	Today        bool                  `json:"today"`
	Appointments []appointmentResponse `json:"appointments"`
}

// MonthView renders the fixed 6x7 month grid, leading and trailing days
// of the adjacent months included.
func (h *ScheduleHandler) MonthView(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		respondError(c, http.StatusBadRequest, "invalid year")
		return
	}
	monthNum, err := strconv.Atoi(c.Param("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		respondError(c, http.StatusBadRequest, "invalid month: must be 1-12")
		return
	}

	days, err := h.svc.MonthView(c.Request.Context(), year, time.Month(monthNum))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cells := make([]calendarDayResponse, 0, schedule.MonthGridSize)
	for _, d := range days {
		appts := make([]appointmentResponse, 0, len(d.Appointments))
		for _, a := range d.Appointments {
			appts = append(appts, toAppointmentResponse(a))
		}
		cells = append(cells, calendarDayResponse{
			Date:         d.Date.Format("2006-01-02"),
			InMonth:      d.InMonth,
			Today:        d.Today,
			Appointments: appts,
		})
	}

	respondOK(c, gin.H{
		"year":  year,
		"month": monthNum,
		"days":  cells,
	})
}
