package issue

import (
	"context"
	"fmt"
	"time"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
	"gims/pkg/numerator"
)

// StockChecker verifies the stock item exists before an issue is
// created against it.
type StockChecker interface {
	ExistsByNacCode(ctx context.Context, nacCode string) (bool, error)
}

// Service provides business operations for issue documents.
type Service struct {
	repo      Repository
	stock     StockChecker
	txManager tx.Manager
	numbers   numerator.Generator
}

// NewService creates a new issue service.
func NewService(repo Repository, stock StockChecker, txManager tx.Manager, numbers numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		txManager: txManager,
		numbers:   numbers,
	}
}

// Create creates a pending issue document. Balance is not touched
// until approval.
func (s *Service) Create(ctx context.Context, iss *Issue) error {
	iss.ApprovalStatus = entity.ApprovalPending

	if err := iss.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.stock.ExistsByNacCode(ctx, iss.NacCode)
	if err != nil {
		return fmt.Errorf("check stock item: %w", err)
	}
	if !exists {
		return apperror.NewNotFound("stock item", iss.NacCode)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if iss.IssueNumber == "" {
			number, err := s.numbers.GetNextNumber(ctx,
				numerator.DefaultConfig("ISS"),
				&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
			if err != nil {
				return fmt.Errorf("generate issue number: %w", err)
			}
			iss.IssueNumber = number
		}
		if err := s.repo.Create(ctx, iss); err != nil {
			return err
		}
		logger.Info(ctx, "issue created",
			"issue_number", iss.IssueNumber, "nac_code", iss.NacCode)
		return nil
	})
}

// GetByID retrieves an issue by ID.
func (s *Service) GetByID(ctx context.Context, issID id.ID) (*Issue, error) {
	return s.repo.GetByID(ctx, issID)
}

// Update updates an issue. Approved issues are frozen.
func (s *Service) Update(ctx context.Context, iss *Issue) error {
	if err := iss.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, iss.ID)
	if err != nil {
		return err
	}
	if existing.ApprovalStatus == entity.ApprovalApproved {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"approved issue cannot be modified")
	}
	iss.ApprovalStatus = existing.ApprovalStatus
	iss.IssueNumber = existing.IssueNumber

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, iss)
	})
}

// Delete removes an issue. Approved issues are undeletable.
func (s *Service) Delete(ctx context.Context, issID id.ID) error {
	existing, err := s.repo.GetByID(ctx, issID)
	if err != nil {
		return err
	}
	if existing.ApprovalStatus == entity.ApprovalApproved {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"approved issue cannot be deleted")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, issID)
	})
}

// List retrieves issues with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Issue], error) {
	return s.repo.List(ctx, filter)
}
