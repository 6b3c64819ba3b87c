// Package approval implements the approval state machine shared by
// requests, receives, issues, RRP lines and borrow returns.
//
// Every transition runs in a single transaction together with its side
// effects (balance adjustment, request linkage) and is audit-logged in
// the same transaction.
package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gims/internal/core/apperror"
	appctx "gims/internal/core/context"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain/catalogs/stockitem"
	"gims/internal/domain/documents/issue"
	"gims/internal/domain/documents/receive"
	"gims/internal/domain/documents/request"
	"gims/internal/domain/documents/rrp"
	"gims/pkg/logger"
)

// Audited entity types.
const (
	EntityRequest = "request"
	EntityReceive = "receive"
	EntityIssue   = "issue"
	EntityRRPLine = "rrp_line"
)

// Audited actions.
const (
	ActionApprove       = "APPROVE"
	ActionReject        = "REJECT"
	ActionApproveReturn = "APPROVE_RETURN"
	ActionRejectReturn  = "REJECT_RETURN"
)

// Engine drives approval transitions across document types.
type Engine struct {
	requests  request.Repository
	receives  receive.Repository
	issues    issue.Repository
	rrps      rrp.Repository
	stock     stockitem.Repository
	txManager tx.Manager
	auditor   Auditor
}

// NewEngine creates the approval engine.
func NewEngine(
	requests request.Repository,
	receives receive.Repository,
	issues issue.Repository,
	rrps rrp.Repository,
	stock stockitem.Repository,
	txManager tx.Manager,
	auditor Auditor,
) *Engine {
	return &Engine{
		requests:  requests,
		receives:  receives,
		issues:    issues,
		rrps:      rrps,
		stock:     stock,
		txManager: txManager,
		auditor:   auditor,
	}
}

func alreadyDecided(entityType string, status entity.ApprovalStatus) error {
	return apperror.NewBusinessRule(apperror.CodeAlreadyDecided,
		fmt.Sprintf("%s is already %s", entityType, status)).
		WithDetail("status", string(status))
}

func (e *Engine) audit(ctx context.Context, entityType string, entityID id.ID, action string, payload any) error {
	entry := AuditEntry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}
	if user := appctx.GetUser(ctx); user != nil {
		entry.Actor = user.Email
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		entry.Payload = data
	}
	return e.auditor.Record(ctx, entry)
}

// --- Requests ---

// ApproveRequest moves a pending request to APPROVED. Status-only.
func (e *Engine) ApproveRequest(ctx context.Context, requestID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		req, err := e.requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityRequest, req.ApprovalStatus)
		}
		if err := e.requests.SetApprovalStatus(ctx, requestID, string(entity.ApprovalApproved)); err != nil {
			return err
		}
		if err := e.audit(ctx, EntityRequest, requestID, ActionApprove, nil); err != nil {
			return err
		}
		logger.Info(ctx, "request approved", "request_number", req.RequestNumber)
		return nil
	})
}

// RejectRequest moves a pending request to REJECTED.
func (e *Engine) RejectRequest(ctx context.Context, requestID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		req, err := e.requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityRequest, req.ApprovalStatus)
		}
		if err := e.requests.SetApprovalStatus(ctx, requestID, string(entity.ApprovalRejected)); err != nil {
			return err
		}
		return e.audit(ctx, EntityRequest, requestID, ActionReject, nil)
	})
}

// --- Receives ---

// receiveSideEffects is the audit payload for a receive approval.
type receiveSideEffects struct {
	RequestFk    id.ID  `json:"requestFk"`
	NacCode      string `json:"nacCode"`
	QuantityUp   string `json:"quantityUp"`
	BalanceAfter string `json:"balanceAfter"`
}

// ApproveReceive atomically approves a receive, increments the stock
// balance and links the source request (is_received, receive_fk).
func (e *Engine) ApproveReceive(ctx context.Context, receiveID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rcv, err := e.receives.GetForUpdate(ctx, receiveID)
		if err != nil {
			return err
		}
		if rcv.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityReceive, rcv.ApprovalStatus)
		}

		req, err := e.requests.GetForUpdate(ctx, rcv.RequestFk)
		if err != nil {
			return err
		}

		item, err := e.stock.GetForUpdateByNacCode(ctx, req.NacCode)
		if err != nil {
			return err
		}

		if err := e.receives.SetApprovalStatus(ctx, receiveID, string(entity.ApprovalApproved)); err != nil {
			return err
		}
		if err := e.stock.AdjustBalance(ctx, req.NacCode, rcv.ReceivedQuantity); err != nil {
			return err
		}
		if err := e.requests.MarkReceived(ctx, req.ID, receiveID); err != nil {
			return err
		}

		effects := receiveSideEffects{
			RequestFk:    req.ID,
			NacCode:      req.NacCode,
			QuantityUp:   rcv.ReceivedQuantity.String(),
			BalanceAfter: (item.CurrentBalance + rcv.ReceivedQuantity).String(),
		}
		if err := e.audit(ctx, EntityReceive, receiveID, ActionApprove, effects); err != nil {
			return err
		}

		logger.Info(ctx, "receive approved",
			"receive_id", receiveID,
			"nac_code", req.NacCode,
			"quantity", rcv.ReceivedQuantity.String())
		return nil
	})
}

// RejectReceive moves a pending receive to REJECTED. No balance or
// request mutation.
func (e *Engine) RejectReceive(ctx context.Context, receiveID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rcv, err := e.receives.GetForUpdate(ctx, receiveID)
		if err != nil {
			return err
		}
		if rcv.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityReceive, rcv.ApprovalStatus)
		}
		if err := e.receives.SetApprovalStatus(ctx, receiveID, string(entity.ApprovalRejected)); err != nil {
			return err
		}
		return e.audit(ctx, EntityReceive, receiveID, ActionReject, nil)
	})
}

// --- Issues ---

// ApproveIssue atomically approves an issue and decrements the stock
// balance. The balance may never go negative; the stock row is locked
// for the duration of the check.
func (e *Engine) ApproveIssue(ctx context.Context, issueID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		iss, err := e.issues.GetForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if iss.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityIssue, iss.ApprovalStatus)
		}

		item, err := e.stock.GetForUpdateByNacCode(ctx, iss.NacCode)
		if err != nil {
			return err
		}
		if item.CurrentBalance < iss.IssuedQuantity {
			return apperror.NewInsufficientStock(iss.NacCode,
				iss.IssuedQuantity.String(), item.CurrentBalance.String())
		}

		if err := e.issues.SetApprovalStatus(ctx, issueID, string(entity.ApprovalApproved)); err != nil {
			return err
		}
		if err := e.stock.AdjustBalance(ctx, iss.NacCode, iss.IssuedQuantity.Neg()); err != nil {
			return err
		}

		if err := e.audit(ctx, EntityIssue, issueID, ActionApprove, map[string]string{
			"nacCode":      iss.NacCode,
			"quantityDown": iss.IssuedQuantity.String(),
			"balanceAfter": (item.CurrentBalance - iss.IssuedQuantity).String(),
		}); err != nil {
			return err
		}

		logger.Info(ctx, "issue approved",
			"issue_number", iss.IssueNumber,
			"nac_code", iss.NacCode,
			"quantity", iss.IssuedQuantity.String())
		return nil
	})
}

// RejectIssue moves a pending issue to REJECTED.
func (e *Engine) RejectIssue(ctx context.Context, issueID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		iss, err := e.issues.GetForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if iss.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityIssue, iss.ApprovalStatus)
		}
		if err := e.issues.SetApprovalStatus(ctx, issueID, string(entity.ApprovalRejected)); err != nil {
			return err
		}
		return e.audit(ctx, EntityIssue, issueID, ActionReject, nil)
	})
}

// --- RRP lines ---

// ApproveRRPLine moves a pending RRP line to APPROVED. Status-only.
func (e *Engine) ApproveRRPLine(ctx context.Context, lineID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		line, err := e.rrps.GetLineForUpdate(ctx, lineID)
		if err != nil {
			return err
		}
		if line.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityRRPLine, line.ApprovalStatus)
		}
		if err := e.rrps.SetLineApprovalStatus(ctx, lineID, string(entity.ApprovalApproved)); err != nil {
			return err
		}
		return e.audit(ctx, EntityRRPLine, lineID, ActionApprove, nil)
	})
}

// RejectRRPLine moves a pending RRP line to REJECTED.
func (e *Engine) RejectRRPLine(ctx context.Context, lineID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		line, err := e.rrps.GetLineForUpdate(ctx, lineID)
		if err != nil {
			return err
		}
		if line.ApprovalStatus != entity.ApprovalPending {
			return alreadyDecided(EntityRRPLine, line.ApprovalStatus)
		}
		if err := e.rrps.SetLineApprovalStatus(ctx, lineID, string(entity.ApprovalRejected)); err != nil {
			return err
		}
		return e.audit(ctx, EntityRRPLine, lineID, ActionReject, nil)
	})
}

// --- Borrow returns ---

// ApproveBorrowReturn closes a pending return: RETURN_PENDING → RETURNED.
func (e *Engine) ApproveBorrowReturn(ctx context.Context, receiveID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rcv, err := e.receives.GetForUpdate(ctx, receiveID)
		if err != nil {
			return err
		}
		if rcv.BorrowStatus == nil || *rcv.BorrowStatus != entity.BorrowReturnPending {
			return apperror.NewBusinessRule(apperror.CodeBorrowNotActive,
				"borrow has no pending return")
		}
		if err := e.receives.SetBorrowStatus(ctx, receiveID, string(entity.BorrowReturned)); err != nil {
			return err
		}
		if err := e.audit(ctx, EntityReceive, receiveID, ActionApproveReturn, nil); err != nil {
			return err
		}
		logger.Info(ctx, "borrow return approved", "receive_id", receiveID)
		return nil
	})
}

// RejectBorrowReturn reopens the loan: RETURN_PENDING → ACTIVE.
func (e *Engine) RejectBorrowReturn(ctx context.Context, receiveID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rcv, err := e.receives.GetForUpdate(ctx, receiveID)
		if err != nil {
			return err
		}
		if rcv.BorrowStatus == nil || *rcv.BorrowStatus != entity.BorrowReturnPending {
			return apperror.NewBusinessRule(apperror.CodeBorrowNotActive,
				"borrow has no pending return")
		}
		if err := e.receives.SetBorrowStatus(ctx, receiveID, string(entity.BorrowActive)); err != nil {
			return err
		}
		return e.audit(ctx, EntityReceive, receiveID, ActionRejectReturn, nil)
	})
}
