package nacunit

import (
	"context"
	"fmt"

	"gims/internal/core/apperror"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
)

// Service provides business operations for NAC unit defaults.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new NAC unit service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// List returns unit bindings across all NAC codes with search and
// pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*NacUnit], error) {
	return s.repo.List(ctx, filter)
}

// ListByNacCode returns the unit bindings for a NAC code.
func (s *Service) ListByNacCode(ctx context.Context, nacCode string) ([]*NacUnit, error) {
	if nacCode == "" {
		return nil, apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	return s.repo.ListByNacCode(ctx, nacCode)
}

// GetDefault returns the default unit for a NAC code.
func (s *Service) GetDefault(ctx context.Context, nacCode string) (*NacUnit, error) {
	if nacCode == "" {
		return nil, apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	return s.repo.GetDefault(ctx, nacCode)
}

// Save creates or updates a (nacCode, unit) binding. When isDefault is
// set, the previous default is cleared in the same transaction, so the
// one-default-per-code invariant holds even under concurrent calls.
// Saving with isDefault false registers a plain binding and leaves the
// current default untouched.
func (s *Service) Save(ctx context.Context, nacCode, unit string, isDefault bool) (*NacUnit, error) {
	binding := NewNacUnit(nacCode, unit)
	if err := binding.Validate(ctx); err != nil {
		return nil, err
	}

	var result *NacUnit
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if isDefault {
			if err := s.repo.ClearDefault(ctx, nacCode); err != nil {
				return fmt.Errorf("clear default: %w", err)
			}
		}
		upserted, err := s.repo.Upsert(ctx, nacCode, unit, isDefault)
		if err != nil {
			return fmt.Errorf("upsert nac unit: %w", err)
		}
		result = upserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "nac unit saved",
		"nac_code", nacCode, "unit", unit, "is_default", isDefault)
	return result, nil
}

// SetDefault makes unit the single default for the NAC code.
func (s *Service) SetDefault(ctx context.Context, nacCode, unit string) (*NacUnit, error) {
	return s.Save(ctx, nacCode, unit, true)
}

// Delete removes a unit binding for a NAC code.
func (s *Service) Delete(ctx context.Context, nacCode, unit string) error {
	if nacCode == "" || unit == "" {
		return apperror.NewValidation("nac code and unit are required")
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, nacCode, unit)
	})
}
