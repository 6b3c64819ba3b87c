package receive

import (
	"context"
	"fmt"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
)

// RequestChecker verifies the target request exists before a receive
// is created against it.
type RequestChecker interface {
	Exists(ctx context.Context, requestID id.ID) (bool, error)
}

// Service provides business operations for receive documents.
type Service struct {
	repo      Repository
	requests  RequestChecker
	txManager tx.Manager
}

// NewService creates a new receive service.
func NewService(repo Repository, requests RequestChecker, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		requests:  requests,
		txManager: txManager,
	}
}

// Create creates a pending receive against a request.
func (s *Service) Create(ctx context.Context, rcv *Receive) error {
	rcv.ApprovalStatus = entity.ApprovalPending
	if rcv.Source == SourceBorrow && rcv.BorrowStatus == nil {
		status := entity.BorrowActive
		rcv.BorrowStatus = &status
	}

	if err := rcv.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.requests.Exists(ctx, rcv.RequestFk)
	if err != nil {
		return fmt.Errorf("check request: %w", err)
	}
	if !exists {
		return apperror.NewNotFound("request", rcv.RequestFk)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, rcv)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "receive created",
		"id", rcv.ID, "request_fk", rcv.RequestFk, "source", rcv.Source)
	return nil
}

// GetByID retrieves a receive by ID.
func (s *Service) GetByID(ctx context.Context, rcvID id.ID) (*Receive, error) {
	return s.repo.GetByID(ctx, rcvID)
}

// Update updates a receive. Approved receives are frozen: the balance
// was already adjusted, so the document may no longer change.
func (s *Service) Update(ctx context.Context, rcv *Receive) error {
	if err := rcv.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, rcv.ID)
	if err != nil {
		return err
	}
	if existing.ApprovalStatus == entity.ApprovalApproved {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"approved receive cannot be modified")
	}
	rcv.ApprovalStatus = existing.ApprovalStatus

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, rcv)
	})
}

// Delete removes a receive. Approved receives are undeletable.
func (s *Service) Delete(ctx context.Context, rcvID id.ID) error {
	existing, err := s.repo.GetByID(ctx, rcvID)
	if err != nil {
		return err
	}
	if existing.ApprovalStatus == entity.ApprovalApproved {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"approved receive cannot be deleted")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, rcvID)
	})
}

// List retrieves receives with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receive], error) {
	return s.repo.List(ctx, filter)
}

// ListByRequest retrieves all receives linked to a request.
func (s *Service) ListByRequest(ctx context.Context, requestID id.ID) ([]*Receive, error) {
	return s.repo.ListByRequest(ctx, requestID)
}

// RequestReturn moves an approved borrow receive from ACTIVE to
// RETURN_PENDING. The return itself is approved separately.
func (s *Service) RequestReturn(ctx context.Context, rcvID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rcv, err := s.repo.GetForUpdate(ctx, rcvID)
		if err != nil {
			return err
		}
		if rcv.Source != SourceBorrow || rcv.BorrowStatus == nil {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"receive is not a borrow")
		}
		// Returning stock that never entered inventory makes no sense;
		// the receive itself must clear approval first.
		if rcv.ApprovalStatus != entity.ApprovalApproved {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"receive must be approved before a return can be requested").
				WithDetail("approvalStatus", string(rcv.ApprovalStatus))
		}
		if *rcv.BorrowStatus != entity.BorrowActive {
			return apperror.NewBusinessRule(apperror.CodeBorrowNotActive,
				"borrow is not active").
				WithDetail("borrowStatus", string(*rcv.BorrowStatus))
		}
		if err := s.repo.SetBorrowStatus(ctx, rcvID, string(entity.BorrowReturnPending)); err != nil {
			return err
		}
		logger.Info(ctx, "borrow return requested", "receive_id", rcvID)
		return nil
	})
}
