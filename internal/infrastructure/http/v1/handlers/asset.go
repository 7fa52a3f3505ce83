package handlers

import (
	"github.com/gin-gonic/gin"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/domain/assets"
	"assetbook/internal/infrastructure/http/v1/dto"
)

// AssetHandler serves the fixed asset and category endpoints.
type AssetHandler struct {
	BaseHandler
	service *assets.Service
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(service *assets.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// Create registers a new asset in the client's open period.
// POST /api/v1/clients/:clientID/assets
func (h *AssetHandler) Create(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	asset, err := h.buildAsset(clientID, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), asset); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, asset.ID.String())
}

func (h *AssetHandler) buildAsset(clientID id.ID, req dto.CreateAssetRequest) (*assets.FixedAsset, error) {
	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		return nil, apperror.NewValidation("invalid category identifier").
			WithDetail("field", "categoryId")
	}
	acquired, err := dto.ParseDate("acquisitionDate", req.AcquisitionDate)
	if err != nil {
		return nil, err
	}
	cost, err := dto.ParseMoney("originalCost", req.OriginalCost)
	if err != nil {
		return nil, err
	}
	rate, err := dto.ParseMoney("depreciationRate", req.Rate)
	if err != nil {
		return nil, err
	}

	asset := assets.NewFixedAsset(clientID, categoryID, req.Code, req.Name)
	asset.AcquisitionDate = acquired
	asset.OriginalCost = cost
	asset.Method = assets.DepreciationMethod(req.Method)
	asset.Rate = rate

	if req.DisposalValue != "" {
		dv, err := dto.ParseMoney("disposalValue", req.DisposalValue)
		if err != nil {
			return nil, err
		}
		asset.DisposalValue = &dv
	}

	return asset, nil
}

// List returns all assets for a client.
// GET /api/v1/clients/:clientID/assets
func (h *AssetHandler) List(c *gin.Context) {
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

// Get returns one asset.
// GET /api/v1/assets/:assetID
func (h *AssetHandler) Get(c *gin.Context) {
	assetID, ok := h.ParseID(c, "assetID")
	if !ok {
		return
	}

	asset, err := h.service.GetByID(c.Request.Context(), assetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, asset)
}

// Update changes descriptive asset fields.
// PATCH /api/v1/assets/:assetID
func (h *AssetHandler) Update(c *gin.Context) {
	assetID, ok := h.ParseID(c, "assetID")
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID := id.Nil()
	if req.CategoryID != "" {
		parsed, err := id.Parse(req.CategoryID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid category identifier").
				WithDetail("field", "categoryId"))
			return
		}
		categoryID = parsed
	}

	asset, err := h.service.Update(c.Request.Context(), assetID, req.Name, categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, asset)
}

// CreateCategory registers an asset category.
// POST /api/v1/clients/:clientID/categories
func (h *AssetHandler) CreateCategory(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category := assets.NewCategory(clientID, req.Code, req.Name)
	if err := h.service.CreateCategory(c.Request.Context(), category); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, category.ID.String())
}

// ListCategories returns a client's categories.
// GET /api/v1/clients/:clientID/categories
func (h *AssetHandler) ListCategories(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientID")
	if !ok {
		return
	}

	list, err := h.service.ListCategories(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, list)
}
