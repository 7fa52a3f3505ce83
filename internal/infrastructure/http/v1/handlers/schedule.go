package handlers

import (
	"github.com/gin-gonic/gin"

	"assetbook/internal/domain/schedule"
)

// ScheduleHandler serves the schedule report endpoint.
type ScheduleHandler struct {
	BaseHandler
	service *schedule.Service
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Get returns the fixed-asset schedule for a period.
// GET /api/v1/clients/:clientID/periods/:periodID/schedule
func (h *ScheduleHandler) Get(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	report, err := h.service.ForPeriod(c.Request.Context(), clientID, periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
