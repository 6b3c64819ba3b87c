package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/domain/documents/issue"
	"gims/internal/infrastructure/http/v1/dto"
)

// IssueHandler handles issue document endpoints.
type IssueHandler struct {
	*BaseHandler
	service *issue.Service
}

// NewIssueHandler creates a new issue handler.
func NewIssueHandler(base *BaseHandler, service *issue.Service) *IssueHandler {
	return &IssueHandler{BaseHandler: base, service: service}
}

// List handles GET /document/issues.
func (h *IssueHandler) List(c *gin.Context) {
	common, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	filter := issue.ListFilter{
		ListFilter:      common,
		NacCode:         c.Query("nacCode"),
		EquipmentNumber: c.Query("equipmentNumber"),
		ApprovalStatus:  c.Query("approvalStatus"),
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /document/issues/:id.
func (h *IssueHandler) Get(c *gin.Context) {
	issID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	iss, err := h.service.GetByID(c.Request.Context(), issID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, iss)
}

// Create handles POST /document/issues. A blank issueNumber is
// generated from the document sequence.
func (h *IssueHandler) Create(c *gin.Context) {
	iss := issue.NewIssue()
	if !h.BindJSON(c, iss) {
		return
	}

	if err := h.service.Create(c.Request.Context(), iss); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, iss)
}

// Update handles PUT /document/issues/:id.
func (h *IssueHandler) Update(c *gin.Context) {
	issID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	iss := issue.NewIssue()
	if !h.BindJSON(c, iss) {
		return
	}
	iss.ID = issID

	if err := h.service.Update(c.Request.Context(), iss); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, iss)
}

// Delete handles DELETE /document/issues/:id.
func (h *IssueHandler) Delete(c *gin.Context) {
	issID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), issID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
