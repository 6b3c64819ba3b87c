package assettype

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/domain"
)

// TypeRepository defines the interface for AssetType persistence.
// Implementations load and save the properties list alongside the type.
type TypeRepository interface {
	Create(ctx context.Context, assetType *AssetType) error
	GetByID(ctx context.Context, id id.ID) (*AssetType, error)
	Update(ctx context.Context, assetType *AssetType) error
	SetActive(ctx context.Context, id id.ID, active bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*AssetType], error)
	ExistsByName(ctx context.Context, name string) (bool, error)

	// CountAssets counts assets of the given type.
	CountAssets(ctx context.Context, typeID id.ID) (int64, error)
}

// AssetRepository defines the interface for Asset persistence.
// Implementations load and save property values alongside the asset.
type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id id.ID) (*Asset, error)
	Update(ctx context.Context, asset *Asset) error
	SetActive(ctx context.Context, id id.ID, active bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Asset], error)
	ExistsByTag(ctx context.Context, assetTag string) (bool, error)
}
