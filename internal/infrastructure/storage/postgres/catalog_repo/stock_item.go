package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"gims/internal/core/apperror"
	"gims/internal/core/types"
	"gims/internal/domain/catalogs/stockitem"
	"gims/internal/infrastructure/storage/postgres"
)

const stockItemTable = "stock_items"

var _ stockitem.Repository = (*StockItemRepo)(nil)

// StockItemRepo implements stockitem.Repository.
type StockItemRepo struct {
	*BaseCatalogRepo[*stockitem.StockItem]
}

// NewStockItemRepo creates a new stock item repository.
func NewStockItemRepo(txm *postgres.TxManager) *StockItemRepo {
	return &StockItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*stockitem.StockItem](
			txm,
			stockItemTable,
			postgres.ExtractDBColumns[stockitem.StockItem](),
			[]string{"nac_code", "item_name", "part_numbers", "applicable_equipments"},
			"nac_code ASC",
			func() *stockitem.StockItem { return &stockitem.StockItem{} },
		),
	}
}

// GetByNacCode retrieves a stock item by NAC code.
func (r *StockItemRepo) GetByNacCode(ctx context.Context, nacCode string) (*stockitem.StockItem, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[stockitem.StockItem]()...).
		From(stockItemTable).
		Where(squirrel.Eq{"nac_code": nacCode}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// ExistsByNacCode checks NAC code uniqueness, active or not.
func (r *StockItemRepo) ExistsByNacCode(ctx context.Context, nacCode string) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"nac_code": nacCode})
}

// GetForUpdateByNacCode retrieves a stock item with a row lock. Used by
// the approval engine before balance adjustments.
func (r *StockItemRepo) GetForUpdateByNacCode(ctx context.Context, nacCode string) (*stockitem.StockItem, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[stockitem.StockItem]()...).
		From(stockItemTable).
		Where(squirrel.Eq{"nac_code": nacCode}).
		Suffix("FOR UPDATE")

	return r.FindOne(ctx, q)
}

// AdjustBalance applies a signed delta to current_balance.
func (r *StockItemRepo) AdjustBalance(ctx context.Context, nacCode string, delta types.Quantity) error {
	q := r.Builder().
		Update(stockItemTable).
		Set("current_balance", squirrel.Expr("current_balance + ?", delta)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"nac_code": nacCode})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build adjust balance: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", nacCode)
	}

	return nil
}
