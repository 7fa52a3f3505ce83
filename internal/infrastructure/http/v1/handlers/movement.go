package handlers

import (
	"github.com/gin-gonic/gin"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the movement journal endpoints.
type MovementHandler struct {
	BaseHandler
	service *ledger.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(service *ledger.Service) *MovementHandler {
	return &MovementHandler{service: service}
}

// Post posts one movement.
// POST /api/v1/movements
func (h *MovementHandler) Post(c *gin.Context) {
	var req dto.PostMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, err := h.buildCommand(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Post(c.Request.Context(), cmd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

func (h *MovementHandler) buildCommand(req dto.PostMovementRequest) (ledger.PostCommand, error) {
	var cmd ledger.PostCommand

	assetID, err := id.Parse(req.AssetID)
	if err != nil {
		return cmd, apperror.NewValidation("invalid asset identifier").
			WithDetail("field", "assetId")
	}
	postingDate, err := dto.ParseDate("postingDate", req.PostingDate)
	if err != nil {
		return cmd, err
	}
	amountCost, err := dto.ParseOptionalMoney("amountCost", req.AmountCost)
	if err != nil {
		return cmd, err
	}
	amountDep, err := dto.ParseOptionalMoney("amountDepreciation", req.AmountDepreciation)
	if err != nil {
		return cmd, err
	}
	proceeds, err := dto.ParseOptionalMoney("proceeds", req.Proceeds)
	if err != nil {
		return cmd, err
	}

	cmd = ledger.PostCommand{
		AssetID:            assetID,
		Type:               ledger.MovementType(req.Type),
		PostingDate:        postingDate,
		AmountCost:         amountCost,
		AmountDepreciation: amountDep,
		Proceeds:           proceeds,
	}

	if req.Disposal != nil {
		disposal, err := buildDisposal(*req.Disposal)
		if err != nil {
			return cmd, err
		}
		cmd.Disposal = disposal
	}

	return cmd, nil
}

// buildDisposal resolves the request's disposal block into one of the two
// disposal forms. Percentage and explicit amounts are mutually exclusive.
func buildDisposal(req dto.DisposalRequest) (ledger.DisposalAmounts, error) {
	if req.Percentage != nil {
		if req.Cost != nil || req.Depreciation != nil {
			return nil, apperror.NewValidation(
				"disposal takes either a percentage or explicit amounts, not both").
				WithDetail("field", "disposal")
		}
		pct, err := dto.ParseMoney("disposal.percentage", *req.Percentage)
		if err != nil {
			return nil, err
		}
		return ledger.ByPercentage{Percentage: pct}, nil
	}

	if req.Cost == nil && req.Depreciation == nil {
		return nil, apperror.NewValidation(
			"disposal requires a percentage or explicit amounts").
			WithDetail("field", "disposal")
	}

	cost := types.Zero()
	if req.Cost != nil {
		parsed, err := dto.ParseMoney("disposal.cost", *req.Cost)
		if err != nil {
			return nil, err
		}
		cost = parsed
	}
	dep := types.Zero()
	if req.Depreciation != nil {
		parsed, err := dto.ParseMoney("disposal.depreciation", *req.Depreciation)
		if err != nil {
			return nil, err
		}
		dep = parsed
	}

	return ledger.ExplicitAmounts{Cost: cost, Depreciation: dep}, nil
}

// ListByAsset returns an asset's movement journal.
// GET /api/v1/assets/:assetID/movements
func (h *MovementHandler) ListByAsset(c *gin.Context) {
	assetID, ok := h.ParseID(c, "assetID")
	if !ok {
		return
	}

	movements, err := h.service.ListByAsset(c.Request.Context(), assetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, movements)
}

// ListByPeriod returns all movements posted into a period.
// GET /api/v1/clients/:clientID/periods/:periodID/movements
func (h *MovementHandler) ListByPeriod(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	movements, err := h.service.ListByPeriod(c.Request.Context(), clientID, periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, movements)
}

// Balances returns the roll-forward rows of a period.
// GET /api/v1/clients/:clientID/periods/:periodID/balances
func (h *MovementHandler) Balances(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}
	periodID, ok := h.ParseID(c, "periodID")
	if !ok {
		return
	}

	balances, err := h.service.Balances(c.Request.Context(), clientID, periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, balances)
}
