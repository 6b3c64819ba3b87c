package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/id"
	"gims/internal/domain"
	"gims/internal/domain/catalogs/assettype"
	"gims/internal/infrastructure/storage/postgres"
)

const (
	assetTypeTable     = "asset_types"
	assetTypePropTable = "asset_type_properties"
	assetTable         = "assets"
	assetPropTable     = "asset_property_values"
)

// AssetTypeRepo implements assettype.TypeRepository.
// Property configs are stored in a child table and loaded with the type.
type AssetTypeRepo struct {
	*BaseCatalogRepo[*assettype.AssetType]
}

// NewAssetTypeRepo creates a new asset type repository.
func NewAssetTypeRepo(txm *postgres.TxManager) *AssetTypeRepo {
	return &AssetTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*assettype.AssetType](
			txm,
			assetTypeTable,
			postgres.ExtractDBColumns[assettype.AssetType](),
			[]string{"name", "description"},
			"name ASC",
			func() *assettype.AssetType { return &assettype.AssetType{} },
		),
	}
}

// Create inserts the type row and its property configs.
func (r *AssetTypeRepo) Create(ctx context.Context, assetType *assettype.AssetType) error {
	if err := r.BaseCatalogRepo.Create(ctx, assetType); err != nil {
		return err
	}
	return r.insertProperties(ctx, assetType.ID, assetType.Properties)
}

// Update replaces the type row and its property configs.
func (r *AssetTypeRepo) Update(ctx context.Context, assetType *assettype.AssetType) error {
	if err := r.BaseCatalogRepo.Update(ctx, assetType); err != nil {
		return err
	}

	del := r.Builder().
		Delete(assetTypePropTable).
		Where(squirrel.Eq{"asset_type_fk": assetType.ID})
	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete properties: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete properties: %w", err)
	}

	return r.insertProperties(ctx, assetType.ID, assetType.Properties)
}

func (r *AssetTypeRepo) insertProperties(ctx context.Context, typeID id.ID, props []assettype.PropertyConfig) error {
	if len(props) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(assetTypePropTable).
		Columns("asset_type_fk", "property_name", "is_required", "display_order")
	for _, p := range props {
		q = q.Values(typeID, p.PropertyName, p.IsRequired, p.DisplayOrder)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert properties: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert properties: %w", err)
	}

	return nil
}

// GetByID retrieves the type with its property configs.
func (r *AssetTypeRepo) GetByID(ctx context.Context, typeID id.ID) (*assettype.AssetType, error) {
	assetType, err := r.BaseCatalogRepo.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if err := r.loadProperties(ctx, assetType); err != nil {
		return nil, err
	}
	return assetType, nil
}

// List retrieves types with their property configs.
func (r *AssetTypeRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*assettype.AssetType], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	for _, t := range result.Items {
		if err := r.loadProperties(ctx, t); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *AssetTypeRepo) loadProperties(ctx context.Context, assetType *assettype.AssetType) error {
	q := r.Builder().
		Select("property_name", "is_required", "display_order").
		From(assetTypePropTable).
		Where(squirrel.Eq{"asset_type_fk": assetType.ID}).
		OrderBy("display_order ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build properties query: %w", err)
	}

	assetType.Properties = nil
	if err := pgxscan.Select(ctx, r.Querier(ctx), &assetType.Properties, sql, args...); err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	return nil
}

// ExistsByName checks type name uniqueness.
func (r *AssetTypeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"name": name})
}

// CountAssets counts assets of the given type.
func (r *AssetTypeRepo) CountAssets(ctx context.Context, typeID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(assetTable).
		Where(squirrel.Eq{"asset_type_fk": typeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

var _ assettype.TypeRepository = (*AssetTypeRepo)(nil)

// AssetRepo implements assettype.AssetRepository.
// Property values live in a child table keyed by property name.
type AssetRepo struct {
	*BaseCatalogRepo[*assettype.Asset]
}

// NewAssetRepo creates a new asset repository.
func NewAssetRepo(txm *postgres.TxManager) *AssetRepo {
	return &AssetRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*assettype.Asset](
			txm,
			assetTable,
			postgres.ExtractDBColumns[assettype.Asset](),
			[]string{"asset_tag", "name"},
			"asset_tag ASC",
			func() *assettype.Asset { return &assettype.Asset{} },
		),
	}
}

// Create inserts the asset row and its property values.
func (r *AssetRepo) Create(ctx context.Context, asset *assettype.Asset) error {
	if err := r.BaseCatalogRepo.Create(ctx, asset); err != nil {
		return err
	}
	return r.insertValues(ctx, asset.ID, asset.Properties)
}

// Update replaces the asset row and its property values.
func (r *AssetRepo) Update(ctx context.Context, asset *assettype.Asset) error {
	if err := r.BaseCatalogRepo.Update(ctx, asset); err != nil {
		return err
	}

	del := r.Builder().
		Delete(assetPropTable).
		Where(squirrel.Eq{"asset_fk": asset.ID})
	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete values: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete values: %w", err)
	}

	return r.insertValues(ctx, asset.ID, asset.Properties)
}

func (r *AssetRepo) insertValues(ctx context.Context, assetID id.ID, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(assetPropTable).
		Columns("asset_fk", "property_name", "property_value")
	for name, value := range values {
		q = q.Values(assetID, name, value)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert values: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert values: %w", err)
	}

	return nil
}

// GetByID retrieves the asset with its property values.
func (r *AssetRepo) GetByID(ctx context.Context, assetID id.ID) (*assettype.Asset, error) {
	asset, err := r.BaseCatalogRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if err := r.loadValues(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// List retrieves assets with their property values.
func (r *AssetRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*assettype.Asset], error) {
	result, err := r.BaseCatalogRepo.List(ctx, filter)
	if err != nil {
		return result, err
	}
	for _, a := range result.Items {
		if err := r.loadValues(ctx, a); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *AssetRepo) loadValues(ctx context.Context, asset *assettype.Asset) error {
	q := r.Builder().
		Select("property_name", "property_value").
		From(assetPropTable).
		Where(squirrel.Eq{"asset_fk": asset.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build values query: %w", err)
	}

	type row struct {
		PropertyName  string `db:"property_name"`
		PropertyValue string `db:"property_value"`
	}
	var rows []row
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("load values: %w", err)
	}

	asset.Properties = make(map[string]string, len(rows))
	for _, v := range rows {
		asset.Properties[v.PropertyName] = v.PropertyValue
	}
	return nil
}

// ExistsByTag checks asset tag uniqueness.
func (r *AssetRepo) ExistsByTag(ctx context.Context, assetTag string) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"asset_tag": assetTag})
}

var _ assettype.AssetRepository = (*AssetRepo)(nil)
