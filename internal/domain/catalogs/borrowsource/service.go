package borrowsource

import (
	"context"
	"fmt"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
)

// Service provides business operations for the borrow source catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new borrow source service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create creates a new borrow source. Names are unique (case-sensitive).
func (s *Service) Create(ctx context.Context, source *BorrowSource) error {
	if err := source.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByName(ctx, source.Name)
	if err != nil {
		return fmt.Errorf("check source name: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("borrow source", "name", source.Name)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, source)
	})
}

// GetByID retrieves a borrow source by ID.
func (s *Service) GetByID(ctx context.Context, sourceID id.ID) (*BorrowSource, error) {
	return s.repo.GetByID(ctx, sourceID)
}

// Update updates a borrow source. A rename is checked for uniqueness.
func (s *Service) Update(ctx context.Context, source *BorrowSource) error {
	if err := source.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, source.ID)
	if err != nil {
		return err
	}
	if existing.Name != source.Name {
		exists, err := s.repo.ExistsByName(ctx, source.Name)
		if err != nil {
			return fmt.Errorf("check source name: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("borrow source", "name", source.Name)
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, source)
	})
}

// Deactivate soft-deletes a borrow source. Blocked while the source has
// outstanding borrows (non-rejected receives whose loan is not RETURNED).
func (s *Service) Deactivate(ctx context.Context, sourceID id.ID) error {
	outstanding, err := s.repo.CountOutstandingBorrows(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("count outstanding borrows: %w", err)
	}
	if outstanding > 0 {
		return apperror.NewBusinessRule(apperror.CodeBorrowSourceInUse,
			"borrow source has outstanding borrows and cannot be deleted").
			WithDetail("outstandingBorrows", outstanding)
	}

	if err := s.repo.SetActive(ctx, sourceID, false); err != nil {
		return err
	}

	logger.Info(ctx, "borrow source deactivated", "id", sourceID)
	return nil
}

// List retrieves borrow sources with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BorrowSource], error) {
	return s.repo.List(ctx, filter)
}
