package handlers

import (
	"github.com/gin-gonic/gin"

	"gims/internal/domain/approval"
)

// ApprovalHandler exposes the approval transitions. All side effects
// (stock movement, request linkage) run inside the engine's
// transaction.
type ApprovalHandler struct {
	*BaseHandler
	engine *approval.Engine
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(base *BaseHandler, engine *approval.Engine) *ApprovalHandler {
	return &ApprovalHandler{BaseHandler: base, engine: engine}
}

func (h *ApprovalHandler) run(c *gin.Context, fn func() error, message string) {
	if err := fn(); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, message)
}

// ApproveRequest handles POST /document/requests/:id/approve.
func (h *ApprovalHandler) ApproveRequest(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.ApproveRequest(ctx, reqID) }, "request approved")
}

// RejectRequest handles POST /document/requests/:id/reject.
func (h *ApprovalHandler) RejectRequest(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.RejectRequest(ctx, reqID) }, "request rejected")
}

// ApproveReceive handles POST /document/receives/:id/approve.
// Approval moves stock: the item balance goes up by the received
// quantity.
func (h *ApprovalHandler) ApproveReceive(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.ApproveReceive(ctx, rcvID) }, "receive approved")
}

// RejectReceive handles POST /document/receives/:id/reject.
func (h *ApprovalHandler) RejectReceive(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.RejectReceive(ctx, rcvID) }, "receive rejected")
}

// ApproveIssue handles POST /document/issues/:id/approve.
// Fails when stock would go negative.
func (h *ApprovalHandler) ApproveIssue(c *gin.Context) {
	issID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.ApproveIssue(ctx, issID) }, "issue approved")
}

// RejectIssue handles POST /document/issues/:id/reject.
func (h *ApprovalHandler) RejectIssue(c *gin.Context) {
	issID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.RejectIssue(ctx, issID) }, "issue rejected")
}

// ApproveRRPLine handles POST /document/rrps/lines/:lineId/approve.
func (h *ApprovalHandler) ApproveRRPLine(c *gin.Context) {
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.ApproveRRPLine(ctx, lineID) }, "rrp line approved")
}

// RejectRRPLine handles POST /document/rrps/lines/:lineId/reject.
func (h *ApprovalHandler) RejectRRPLine(c *gin.Context) {
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.RejectRRPLine(ctx, lineID) }, "rrp line rejected")
}

// ApproveBorrowReturn handles POST /document/receives/:id/approve-return.
func (h *ApprovalHandler) ApproveBorrowReturn(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.ApproveBorrowReturn(ctx, rcvID) }, "borrow return approved")
}

// RejectBorrowReturn handles POST /document/receives/:id/reject-return.
func (h *ApprovalHandler) RejectBorrowReturn(c *gin.Context) {
	rcvID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.run(c, func() error { return h.engine.RejectBorrowReturn(ctx, rcvID) }, "borrow return rejected")
}
