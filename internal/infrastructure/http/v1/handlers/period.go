package handlers

import (
	"github.com/gin-gonic/gin"

	"assetbook/internal/domain/periods"
	"assetbook/internal/infrastructure/http/v1/dto"
)

// PeriodHandler serves the accounting period endpoints.
type PeriodHandler struct {
	BaseHandler
	service *periods.Service
}

// NewPeriodHandler creates a new period handler.
func NewPeriodHandler(service *periods.Service) *PeriodHandler {
	return &PeriodHandler{service: service}
}

// Create opens the first period for a client.
// POST /api/v1/clients/:clientID/periods
func (h *PeriodHandler) Create(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	var req dto.CreatePeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	start, err := dto.ParseDate("startDate", req.StartDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	end, err := dto.ParseDate("endDate", req.EndDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	period := periods.NewAccountingPeriod(clientID, req.Name, start, end)
	if err := h.service.Open(c.Request.Context(), period); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, period.ID.String())
}

// List returns all periods for a client.
// GET /api/v1/clients/:clientID/periods
func (h *PeriodHandler) List(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, list)
}

// Current returns the client's open period.
// GET /api/v1/clients/:clientID/periods/current
func (h *PeriodHandler) Current(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	period, err := h.service.Current(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, period)
}

// Get returns one period.
// GET /api/v1/periods/:periodID
func (h *PeriodHandler) Get(c *gin.Context) {
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	period, err := h.service.GetByID(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, period)
}

// Planning returns the period's planning checklist.
// GET /api/v1/periods/:periodID/planning
func (h *PeriodHandler) Planning(c *gin.Context) {
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	sections, err := h.service.PlanningSections(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sections)
}

// TogglePlanning marks one planning section complete or incomplete.
// PUT /api/v1/periods/:periodID/planning/:sectionID
func (h *PeriodHandler) TogglePlanning(c *gin.Context) {
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}
	sectionID, ok := h.ParseID(c, "sectionID")
	if !ok {
		return
	}

	var req dto.TogglePlanningRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetSectionCompleted(c.Request.Context(), periodID, sectionID, req.Completed); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "planning section updated")
}
