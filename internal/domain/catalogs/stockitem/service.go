package stockitem

import (
	"context"
	"fmt"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
)

// Service provides business operations for the stock item catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*StockItem]
}

// NewService creates a new stock item service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*StockItem](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*StockItem] {
	return s.hooks
}

// Create creates a new stock item. NAC codes are unique.
func (s *Service) Create(ctx context.Context, item *StockItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByNacCode(ctx, item.NacCode)
	if err != nil {
		return fmt.Errorf("check nac code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("stock item", "nac code", item.NacCode)
	}

	if err := s.hooks.Run(ctx, domain.BeforeCreate, item); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock item created", "nac_code", item.NacCode, "id", item.ID)
	return nil
}

// GetByID retrieves a stock item by ID.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*StockItem, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByNacCode retrieves a stock item by its NAC code.
func (s *Service) GetByNacCode(ctx context.Context, nacCode string) (*StockItem, error) {
	return s.repo.GetByNacCode(ctx, nacCode)
}

// Update updates descriptive fields of a stock item.
// The balance is never updated through this path; only the approval
// engine mutates it.
func (s *Service) Update(ctx context.Context, item *StockItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing.NacCode != item.NacCode {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"nac code cannot be changed").
			WithDetail("nacCode", existing.NacCode)
	}
	// Preserve the stored balance regardless of what the caller sent.
	item.CurrentBalance = existing.CurrentBalance

	if err := s.hooks.Run(ctx, domain.BeforeUpdate, item); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, item)
	})
}

// Deactivate soft-deletes a stock item.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) error {
	return s.repo.SetActive(ctx, itemID, false)
}

// List retrieves stock items with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*StockItem], error) {
	return s.repo.List(ctx, filter)
}
