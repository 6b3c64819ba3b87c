package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/core/id"
	"gims/internal/domain/catalogs/assettype"
	"gims/internal/infrastructure/http/v1/dto"
)

// AssetHandler handles asset type and asset endpoints.
type AssetHandler struct {
	*BaseHandler
	service *assettype.Service
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(base *BaseHandler, service *assettype.Service) *AssetHandler {
	return &AssetHandler{BaseHandler: base, service: service}
}

// --- Asset types ---

// ListTypes handles GET /catalog/asset-types.
func (h *AssetHandler) ListTypes(c *gin.Context) {
	filter, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	result, err := h.service.ListTypes(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// GetType handles GET /catalog/asset-types/:id.
func (h *AssetHandler) GetType(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	assetType, err := h.service.GetType(c.Request.Context(), typeID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, assetType)
}

// CreateType handles POST /catalog/asset-types.
func (h *AssetHandler) CreateType(c *gin.Context) {
	assetType := assettype.NewAssetType("")
	if !h.BindJSON(c, assetType) {
		return
	}

	if err := h.service.CreateType(c.Request.Context(), assetType); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, assetType)
}

// UpdateType handles PUT /catalog/asset-types/:id.
func (h *AssetHandler) UpdateType(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	assetType := assettype.NewAssetType("")
	if !h.BindJSON(c, assetType) {
		return
	}
	assetType.ID = typeID

	if err := h.service.UpdateType(c.Request.Context(), assetType); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, assetType)
}

// DeleteType handles DELETE /catalog/asset-types/:id.
func (h *AssetHandler) DeleteType(c *gin.Context) {
	typeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateType(c.Request.Context(), typeID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// PropertyNames handles GET /catalog/asset-types/property-names.
// Returns the fixed allow-list a type may configure.
func (h *AssetHandler) PropertyNames(c *gin.Context) {
	h.OK(c, gin.H{"items": assettype.ValidPropertyNames})
}

// --- Assets ---

// ListAssets handles GET /catalog/assets.
func (h *AssetHandler) ListAssets(c *gin.Context) {
	filter, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	result, err := h.service.ListAssets(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// GetAsset handles GET /catalog/assets/:id.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, asset)
}

// CreateAsset handles POST /catalog/assets.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	asset := assettype.NewAsset(id.Nil(), "", "")
	if !h.BindJSON(c, asset) {
		return
	}

	if err := h.service.CreateAsset(c.Request.Context(), asset); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// UpdateAsset handles PUT /catalog/assets/:id.
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	assetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	asset := assettype.NewAsset(id.Nil(), "", "")
	if !h.BindJSON(c, asset) {
		return
	}
	asset.ID = assetID

	if err := h.service.UpdateAsset(c.Request.Context(), asset); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, asset)
}

// DeleteAsset handles DELETE /catalog/assets/:id.
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	assetID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateAsset(c.Request.Context(), assetID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
