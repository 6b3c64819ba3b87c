package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/domain/documents/receive"
	"gims/internal/infrastructure/http/v1/dto"
)

// ReceiveHandler handles receive document endpoints.
type ReceiveHandler struct {
	*BaseHandler
	service *receive.Service
}

// NewReceiveHandler creates a new receive handler.
func NewReceiveHandler(base *BaseHandler, service *receive.Service) *ReceiveHandler {
	return &ReceiveHandler{BaseHandler: base, service: service}
}

// List handles GET /document/receives.
func (h *ReceiveHandler) List(c *gin.Context) {
	common, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	filter := receive.ListFilter{
		ListFilter:     common,
		Source:         c.Query("source"),
		ApprovalStatus: c.Query("approvalStatus"),
		BorrowStatus:   c.Query("borrowStatus"),
	}

	if v := c.Query("requestId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid requestId").WithDetail("value", v))
			return
		}
		filter.RequestFk = &parsed
	}
	if v := c.Query("borrowSourceId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid borrowSourceId").WithDetail("value", v))
			return
		}
		filter.BorrowSourceID = &parsed
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// ListByRequest handles GET /document/requests/:id/receives.
func (h *ReceiveHandler) ListByRequest(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	receives, err := h.service.ListByRequest(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": receives})
}

// Get handles GET /document/receives/:id.
func (h *ReceiveHandler) Get(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rcv, err := h.service.GetByID(c.Request.Context(), rcvID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rcv)
}

// Create handles POST /document/receives.
func (h *ReceiveHandler) Create(c *gin.Context) {
	rcv := receive.NewReceive(id.Nil(), "")
	if !h.BindJSON(c, rcv) {
		return
	}

	if err := h.service.Create(c.Request.Context(), rcv); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rcv)
}

// Update handles PUT /document/receives/:id.
func (h *ReceiveHandler) Update(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rcv := receive.NewReceive(id.Nil(), "")
	if !h.BindJSON(c, rcv) {
		return
	}
	rcv.ID = rcvID

	if err := h.service.Update(c.Request.Context(), rcv); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rcv)
}

// Delete handles DELETE /document/receives/:id.
func (h *ReceiveHandler) Delete(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), rcvID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// RequestReturn handles POST /document/receives/:id/request-return.
// Marks an active borrow as pending return.
func (h *ReceiveHandler) RequestReturn(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.RequestReturn(c.Request.Context(), rcvID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "return requested")
}
