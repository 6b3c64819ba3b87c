package request

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

// FileRemover deletes an uploaded file by its stored path.
// Removal failures are logged, never surfaced to the caller.
type FileRemover interface {
	Remove(ctx context.Context, path string) error
}

// Service provides business operations for request documents.
type Service struct {
	repo      Repository
	txManager tx.Manager
	files     FileRemover
	hooks     *domain.HookRegistry[*Request]
}

// NewService creates a new request service.
func NewService(repo Repository, txManager tx.Manager, files FileRemover) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		files:     files,
		hooks:     domain.NewHookRegistry[*Request](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Request] {
	return s.hooks
}

// Create creates a pending request document.
func (s *Service) Create(ctx context.Context, req *Request) error {
	req.ApprovalStatus = entity.ApprovalPending
	req.IsReceived = false
	req.ReceiveFk = nil

	if err := req.Validate(ctx); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, req); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, req)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "request created",
		"request_number", req.RequestNumber, "nac_code", req.NacCode)
	return nil
}

// GetByID retrieves a request by ID.
func (s *Service) GetByID(ctx context.Context, reqID id.ID) (*Request, error) {
	return s.repo.GetByID(ctx, reqID)
}

// Update updates a request document.
//
// When the request is already received, the requested quantity may not
// drop below the approved received sum. A replaced image triggers a
// best-effort delete of the old file.
func (s *Service) Update(ctx context.Context, req *Request) error {
	if err := req.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if existing.IsReceived && existing.ReceiveFk != nil {
		received, err := s.repo.ApprovedReceivedSum(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("sum received quantity: %w", err)
		}
		if req.RequestedQuantity < received {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				fmt.Sprintf("requested quantity cannot be less than received quantity. Received quantity: %s", received)).
				WithDetail("requestedQuantity", req.RequestedQuantity.String()).
				WithDetail("receivedQuantity", received.String())
		}
	}

	// Received / linkage flags never change through this path.
	req.IsReceived = existing.IsReceived
	req.ReceiveFk = existing.ReceiveFk
	req.ApprovalStatus = existing.ApprovalStatus

	if err := s.hooks.Run(ctx, domain.BeforeUpdate, req); err != nil {
		return err
	}

	oldImage := existing.ImagePath
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, req)
	})
	if err != nil {
		return err
	}

	if oldImage != "" && oldImage != req.ImagePath && s.files != nil {
		if err := s.files.Remove(ctx, oldImage); err != nil {
			logger.Warn(ctx, "failed to remove replaced request image",
				"path", oldImage, "error", err)
		}
	}
	return nil
}

// Delete hard-deletes a request. Received requests are undeletable.
func (s *Service) Delete(ctx context.Context, reqID id.ID) error {
	existing, err := s.repo.GetByID(ctx, reqID)
	if err != nil {
		return err
	}
	if existing.IsReceived && existing.ReceiveFk != nil {
		return apperror.NewBusinessRule(apperror.CodeRequestReceived,
			"request has been received and cannot be deleted").
			WithDetail("requestNumber", existing.RequestNumber)
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, existing); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, reqID)
	})
	if err != nil {
		return err
	}

	if existing.ImagePath != "" && s.files != nil {
		if err := s.files.Remove(ctx, existing.ImagePath); err != nil {
			logger.Warn(ctx, "failed to remove request image",
				"path", existing.ImagePath, "error", err)
		}
	}

	logger.Info(ctx, "request deleted", "request_number", existing.RequestNumber)
	return nil
}

// List retrieves requests with filtering, pagination and derived
// fulfilment labels.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error) {
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*ListItem]{}, err
	}
	for _, item := range result.Items {
		item.ReceiveStatus = item.ReceiveStatusLabel(item.ApprovedReceived)
	}
	return result, nil
}
