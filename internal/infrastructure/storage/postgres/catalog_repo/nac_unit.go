package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/apperror"
	"gims/internal/domain"
	"gims/internal/domain/catalogs/nacunit"
	"gims/internal/infrastructure/storage/postgres"
)

const nacUnitTable = "nac_units"

// NacUnitRepo implements nacunit.Repository.
// The (nac_code, unit) pair is unique; Upsert leans on that
// constraint so concurrent callers cannot create duplicate rows.
type NacUnitRepo struct {
	txm *postgres.TxManager
}

// NewNacUnitRepo creates a new NAC unit repository.
func NewNacUnitRepo(txm *postgres.TxManager) *NacUnitRepo {
	return &NacUnitRepo{txm: txm}
}

func (r *NacUnitRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// List returns unit bindings across all NAC codes with search and
// pagination. Search matches nac_code and unit.
func (r *NacUnitRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*nacunit.NacUnit], error) {
	result := domain.ListResult[*nacunit.NacUnit]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(postgres.ExtractDBColumns[nacunit.NacUnit]()...).
		From(nacUnitTable)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"nac_code": pattern},
			squirrel.ILike{"unit": pattern},
		})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count nac units: %w", err)
	}

	q = q.OrderBy("nac_code ASC", "is_default DESC", "unit ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list nac units: %w", err)
	}

	return result, nil
}

// ListByNacCode returns unit bindings, default first then alphabetical.
func (r *NacUnitRepo) ListByNacCode(ctx context.Context, nacCode string) ([]*nacunit.NacUnit, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[nacunit.NacUnit]()...).
		From(nacUnitTable).
		Where(squirrel.Eq{"nac_code": nacCode}).
		OrderBy("is_default DESC", "unit ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*nacunit.NacUnit
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list nac units: %w", err)
	}

	return items, nil
}

// GetDefault returns the default unit binding for a NAC code.
func (r *NacUnitRepo) GetDefault(ctx context.Context, nacCode string) (*nacunit.NacUnit, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[nacunit.NacUnit]()...).
		From(nacUnitTable).
		Where(squirrel.Eq{"nac_code": nacCode}).
		Where(squirrel.Eq{"is_default": true}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var unit nacunit.NacUnit
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &unit, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("nac unit default", nacCode)
		}
		return nil, fmt.Errorf("get default: %w", err)
	}

	return &unit, nil
}

// ClearDefault drops the default flag from every unit of the NAC code.
func (r *NacUnitRepo) ClearDefault(ctx context.Context, nacCode string) error {
	q := r.builder().
		Update(nacUnitTable).
		Set("is_default", false).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"nac_code": nacCode}).
		Where(squirrel.Eq{"is_default": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build clear default: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}

	return nil
}

// Upsert inserts the binding with the given default flag, or updates
// the flag on the existing (nac_code, unit) row on conflict.
func (r *NacUnitRepo) Upsert(ctx context.Context, nacCode, unit string, isDefault bool) (*nacunit.NacUnit, error) {
	binding := nacunit.NewNacUnit(nacCode, unit)
	binding.IsDefault = isDefault

	sql := `
        INSERT INTO nac_units (id, version, nac_code, unit, is_default)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (nac_code, unit)
        DO UPDATE SET is_default = EXCLUDED.is_default, version = nac_units.version + 1
        RETURNING id, version, nac_code, unit, is_default
	`

	var result nacunit.NacUnit
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &result, sql,
		binding.ID, binding.Version, nacCode, unit, isDefault)
	if err != nil {
		return nil, fmt.Errorf("upsert nac unit: %w", err)
	}

	return &result, nil
}

// Delete removes a unit binding.
func (r *NacUnitRepo) Delete(ctx context.Context, nacCode, unit string) error {
	q := r.builder().
		Delete(nacUnitTable).
		Where(squirrel.Eq{"nac_code": nacCode}).
		Where(squirrel.Eq{"unit": unit})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete nac unit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("nac unit", fmt.Sprintf("%s/%s", nacCode, unit))
	}

	return nil
}

var _ nacunit.Repository = (*NacUnitRepo)(nil)
