package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/domain/documents/request"
	"gims/internal/infrastructure/http/v1/dto"
)

// RequestHandler handles request document endpoints.
type RequestHandler struct {
	*BaseHandler
	service *request.Service
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(base *BaseHandler, service *request.Service) *RequestHandler {
	return &RequestHandler{BaseHandler: base, service: service}
}

// List handles GET /document/requests. Rows carry the derived receive
// status and the lead-time forecast for their NAC code.
func (h *RequestHandler) List(c *gin.Context) {
	common, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	filter := request.ListFilter{
		ListFilter:      common,
		EquipmentNumber: c.Query("equipmentNumber"),
		PartNumber:      c.Query("partNumber"),
		ApprovalStatus:  c.Query("approvalStatus"),
		RequestedBy:     c.Query("requestedBy"),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /document/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}

// Create handles POST /document/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	req := request.NewRequest()
	if !h.BindJSON(c, req) {
		return
	}

	if err := h.service.Create(c.Request.Context(), req); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// Update handles PUT /document/requests/:id.
func (h *RequestHandler) Update(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	req := request.NewRequest()
	if !h.BindJSON(c, req) {
		return
	}
	req.ID = reqID

	if err := h.service.Update(c.Request.Context(), req); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}

// Delete handles DELETE /document/requests/:id.
func (h *RequestHandler) Delete(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), reqID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
