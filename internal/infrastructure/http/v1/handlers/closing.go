package handlers

import (
	"github.com/gin-gonic/gin"

	"assetbook/internal/domain/closing"
	"assetbook/internal/domain/depreciation"
	"assetbook/internal/infrastructure/http/v1/dto"
)

// ClosingHandler serves recalculation and period-close endpoints.
type ClosingHandler struct {
	BaseHandler
	closeService *closing.Service
	depService   *depreciation.Service
}

// NewClosingHandler creates a new closing handler.
func NewClosingHandler(closeService *closing.Service, depService *depreciation.Service) *ClosingHandler {
	return &ClosingHandler{closeService: closeService, depService: depService}
}

// Recalculate recomputes depreciation for the period.
// POST /api/v1/clients/:clientID/periods/:periodID/recalculate
func (h *ClosingHandler) Recalculate(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	result, err := h.depService.Recalculate(c.Request.Context(), clientID, periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Preview dry-runs the close checks.
// POST /api/v1/clients/:clientID/periods/:periodID/close/preview
func (h *ClosingHandler) Preview(c *gin.Context) {
	req, ok := h.bindCloseRequest(c)
	if !ok {
		return
	}

	preview, err := h.closeService.Preview(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, preview)
}

// Close commits the period close.
// POST /api/v1/clients/:clientID/periods/:periodID/close
func (h *ClosingHandler) Close(c *gin.Context) {
	req, ok := h.bindCloseRequest(c)
	if !ok {
		return
	}

	result, err := h.closeService.Close(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

func (h *ClosingHandler) bindCloseRequest(c *gin.Context) (closing.CloseRequest, bool) {
	var out closing.CloseRequest

	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return out, false
	}
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return out, false
	}

	var req dto.ClosePeriodRequest
	if !h.BindJSON(c, &req) {
		return out, false
	}

	start, err := dto.ParseDate("next.startDate", req.Next.StartDate)
	if err != nil {
		h.Error(c, err)
		return out, false
	}
	end, err := dto.ParseDate("next.endDate", req.Next.EndDate)
	if err != nil {
		h.Error(c, err)
		return out, false
	}

	out = closing.CloseRequest{
		ClientID: clientID,
		PeriodID: periodID,
		Force:    req.Force,
		Next: closing.NextPeriod{
			Name:      req.Next.Name,
			StartDate: start,
			EndDate:   end,
		},
	}
	return out, true
}

// Entries returns the period's depreciation audit entries.
// GET /api/v1/periods/:periodID/depreciation
func (h *ClosingHandler) Entries(c *gin.Context) {
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	entries, err := h.depService.Entries(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}
