package assettype

import (
	"context"
	"fmt"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/core/tx"
	"gims/internal/domain"
	"gims/pkg/logger"
)

// Service provides business operations for asset types and assets.
type Service struct {
	types     TypeRepository
	assets    AssetRepository
	txManager tx.Manager
}

// NewService creates a new asset service.
func NewService(types TypeRepository, assets AssetRepository, txManager tx.Manager) *Service {
	return &Service{
		types:     types,
		assets:    assets,
		txManager: txManager,
	}
}

// --- Asset types ---

// CreateType creates an asset type with its property configuration.
func (s *Service) CreateType(ctx context.Context, assetType *AssetType) error {
	if err := assetType.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.types.ExistsByName(ctx, assetType.Name)
	if err != nil {
		return fmt.Errorf("check type name: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("asset type", "name", assetType.Name)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.types.Create(ctx, assetType)
	})
}

// GetType retrieves an asset type with its properties.
func (s *Service) GetType(ctx context.Context, typeID id.ID) (*AssetType, error) {
	return s.types.GetByID(ctx, typeID)
}

// UpdateType replaces an asset type's fields and property configuration.
// Disabling a property that existing assets still carry values for is
// allowed; the stale values stop rendering but stay in the database.
func (s *Service) UpdateType(ctx context.Context, assetType *AssetType) error {
	if err := assetType.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.types.GetByID(ctx, assetType.ID)
	if err != nil {
		return err
	}
	if existing.Name != assetType.Name {
		exists, err := s.types.ExistsByName(ctx, assetType.Name)
		if err != nil {
			return fmt.Errorf("check type name: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("asset type", "name", assetType.Name)
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.types.Update(ctx, assetType)
	})
}

// DeactivateType soft-deletes an asset type. Blocked while assets of the
// type exist.
func (s *Service) DeactivateType(ctx context.Context, typeID id.ID) error {
	count, err := s.types.CountAssets(ctx, typeID)
	if err != nil {
		return fmt.Errorf("count assets: %w", err)
	}
	if count > 0 {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"asset type has assets and cannot be deleted").
			WithDetail("assetCount", count)
	}
	return s.types.SetActive(ctx, typeID, false)
}

// ListTypes retrieves asset types with filtering and pagination.
func (s *Service) ListTypes(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*AssetType], error) {
	return s.types.List(ctx, filter)
}

// --- Assets ---

// CreateAsset creates an asset after validating its property values
// against the type's enabled set.
func (s *Service) CreateAsset(ctx context.Context, asset *Asset) error {
	if err := asset.Validate(ctx); err != nil {
		return err
	}

	assetType, err := s.types.GetByID(ctx, asset.AssetTypeFk)
	if err != nil {
		return err
	}
	if err := asset.ValidateAgainstType(assetType); err != nil {
		return err
	}

	exists, err := s.assets.ExistsByTag(ctx, asset.AssetTag)
	if err != nil {
		return fmt.Errorf("check asset tag: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("asset", "asset tag", asset.AssetTag)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.assets.Create(ctx, asset)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "asset created", "asset_tag", asset.AssetTag, "type", assetType.Name)
	return nil
}

// GetAsset retrieves an asset with its property values.
func (s *Service) GetAsset(ctx context.Context, assetID id.ID) (*Asset, error) {
	return s.assets.GetByID(ctx, assetID)
}

// UpdateAsset updates an asset, re-validating property containment.
func (s *Service) UpdateAsset(ctx context.Context, asset *Asset) error {
	if err := asset.Validate(ctx); err != nil {
		return err
	}

	assetType, err := s.types.GetByID(ctx, asset.AssetTypeFk)
	if err != nil {
		return err
	}
	if err := asset.ValidateAgainstType(assetType); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.assets.Update(ctx, asset)
	})
}

// DeactivateAsset soft-deletes an asset.
func (s *Service) DeactivateAsset(ctx context.Context, assetID id.ID) error {
	return s.assets.SetActive(ctx, assetID, false)
}

// ListAssets retrieves assets with filtering and pagination.
func (s *Service) ListAssets(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Asset], error) {
	return s.assets.List(ctx, filter)
}
