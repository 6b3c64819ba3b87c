package rrp

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

// Service provides business operations for RRP documents.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numbers   numerator.Generator
}

// NewService creates a new RRP service.
func NewService(repo Repository, txManager tx.Manager, numbers numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numbers:   numbers,
	}
}

// Create creates an RRP document with its lines, computing line totals.
// A blank rrp_number is generated from the document sequence.
func (s *Service) Create(ctx context.Context, header *Header) error {
	for _, line := range header.Lines {
		line.HeaderFk = header.ID
		line.ApprovalStatus = entity.ApprovalPending
	}
	if err := header.Validate(ctx); err != nil {
		return err
	}

	header.ComputeTotals()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if header.RrpNumber == "" {
			number, err := s.numbers.GetNextNumber(ctx,
				numerator.DefaultConfig("RRP"), numerator.DefaultOptions(), time.Now())
			if err != nil {
				return fmt.Errorf("generate rrp number: %w", err)
			}
			header.RrpNumber = number
		} else {
			exists, err := s.repo.ExistsByNumber(ctx, header.RrpNumber)
			if err != nil {
				return fmt.Errorf("check rrp number: %w", err)
			}
			if exists {
				return apperror.NewDuplicate("rrp", "rrp number", header.RrpNumber)
			}
		}

		if err := s.repo.Create(ctx, header); err != nil {
			return err
		}
		logger.Info(ctx, "rrp created",
			"rrp_number", header.RrpNumber, "lines", len(header.Lines))
		return nil
	})
}

// GetByID retrieves an RRP document with its lines.
func (s *Service) GetByID(ctx context.Context, headerID id.ID) (*Header, error) {
	return s.repo.GetByID(ctx, headerID)
}

// Update updates an RRP document, recomputing line totals.
// Lines that are already approved are frozen.
func (s *Service) Update(ctx context.Context, header *Header) error {
	for _, line := range header.Lines {
		line.HeaderFk = header.ID
	}
	if err := header.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, header.ID)
	if err != nil {
		return err
	}
	if existing.RrpNumber != header.RrpNumber {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"rrp number cannot be changed").
			WithDetail("rrpNumber", existing.RrpNumber)
	}

	approved := make(map[id.ID]bool, len(existing.Lines))
	for _, line := range existing.Lines {
		if line.ApprovalStatus == entity.ApprovalApproved {
			approved[line.ID] = true
		}
	}
	for i, line := range header.Lines {
		if approved[line.ID] {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"approved rrp line cannot be modified").
				WithDetail("line", i)
		}
		if line.ApprovalStatus == "" {
			line.ApprovalStatus = entity.ApprovalPending
		}
	}

	header.ComputeTotals()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, header)
	})
}

// Delete removes an RRP document and its lines. Blocked when any line
// is approved.
func (s *Service) Delete(ctx context.Context, headerID id.ID) error {
	existing, err := s.repo.GetByID(ctx, headerID)
	if err != nil {
		return err
	}
	for _, line := range existing.Lines {
		if line.ApprovalStatus == entity.ApprovalApproved {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"rrp with approved lines cannot be deleted").
				WithDetail("rrpNumber", existing.RrpNumber)
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, headerID)
	})
}

// List retrieves RRP documents with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Header], error) {
	return s.repo.List(ctx, filter)
}
