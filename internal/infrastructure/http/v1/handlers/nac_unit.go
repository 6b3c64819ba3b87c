package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/domain/catalogs/nacunit"
	"gims/internal/infrastructure/http/v1/dto"
)

// NacUnitHandler handles per-NAC unit endpoints. Units hang off a NAC
// code rather than standing alone, so the routes are keyed by code and
// unit instead of an ID.
type NacUnitHandler struct {
	*BaseHandler
	service *nacunit.Service
}

// NewNacUnitHandler creates a new NAC unit handler.
func NewNacUnitHandler(base *BaseHandler, service *nacunit.Service) *NacUnitHandler {
	return &NacUnitHandler{BaseHandler: base, service: service}
}

// ListAll handles GET /catalog/nac-units. Searchable over NAC code and
// unit, paginated with limit/offset.
func (h *NacUnitHandler) ListAll(c *gin.Context) {
	filter, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

type saveNacUnitRequest struct {
	NacCode   string `json:"nacCode" binding:"required"`
	Unit      string `json:"unit" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

// Save handles POST /catalog/nac-units. Creates or updates a binding;
// with isDefault the previous default for the code is swapped out
// atomically.
func (h *NacUnitHandler) Save(c *gin.Context) {
	var req saveNacUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.service.Save(c.Request.Context(), req.NacCode, req.Unit, req.IsDefault)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// List handles GET /catalog/nac-units/:nacCode.
func (h *NacUnitHandler) List(c *gin.Context) {
	units, err := h.service.ListByNacCode(c.Request.Context(), c.Param("nacCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": units})
}

// GetDefault handles GET /catalog/nac-units/:nacCode/default.
func (h *NacUnitHandler) GetDefault(c *gin.Context) {
	unit, err := h.service.GetDefault(c.Request.Context(), c.Param("nacCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, unit)
}

type setDefaultUnitRequest struct {
	Unit string `json:"unit" binding:"required"`
}

// SetDefault handles PUT /catalog/nac-units/:nacCode/default.
// Registers the unit for the code when it is new, and swaps the
// default atomically.
func (h *NacUnitHandler) SetDefault(c *gin.Context) {
	var req setDefaultUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.service.SetDefault(c.Request.Context(), c.Param("nacCode"), req.Unit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, unit)
}

// Delete handles DELETE /catalog/nac-units/:nacCode/:unit.
func (h *NacUnitHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("nacCode"), c.Param("unit")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
