package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/domain/documents/rrp"
	"gims/internal/infrastructure/http/v1/dto"
)

// RrpHandler handles RRP document endpoints.
type RrpHandler struct {
	*BaseHandler
	service *rrp.Service
}

// NewRrpHandler creates a new RRP handler.
func NewRrpHandler(base *BaseHandler, service *rrp.Service) *RrpHandler {
	return &RrpHandler{BaseHandler: base, service: service}
}

// List handles GET /document/rrps.
func (h *RrpHandler) List(c *gin.Context) {
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

// Get handles GET /document/rrps/:id.
func (h *RrpHandler) Get(c *gin.Context) {
	headerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	header, err := h.service.GetByID(c.Request.Context(), headerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, header)
}

// Create handles POST /document/rrps. Line totals are computed
// server-side; a blank rrpNumber is generated.
func (h *RrpHandler) Create(c *gin.Context) {
	header := rrp.NewHeader("")
	if !h.BindJSON(c, header) {
		return
	}

	if err := h.service.Create(c.Request.Context(), header); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, header)
}

// Update handles PUT /document/rrps/:id.
func (h *RrpHandler) Update(c *gin.Context) {
	headerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	header := rrp.NewHeader("")
	if !h.BindJSON(c, header) {
		return
	}
	header.ID = headerID

	if err := h.service.Update(c.Request.Context(), header); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, header)
}

// Delete handles DELETE /document/rrps/:id.
func (h *RrpHandler) Delete(c *gin.Context) {
	headerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), headerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
