package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"gims/internal/core/id"
	"gims/internal/domain/catalogs/borrowsource"
	"gims/internal/infrastructure/storage/postgres"
)

const borrowSourceTable = "borrow_sources"

var _ borrowsource.Repository = (*BorrowSourceRepo)(nil)

// BorrowSourceRepo implements borrowsource.Repository.
type BorrowSourceRepo struct {
	*BaseCatalogRepo[*borrowsource.BorrowSource]
}

// NewBorrowSourceRepo creates a new borrow source repository.
func NewBorrowSourceRepo(txm *postgres.TxManager) *BorrowSourceRepo {
	return &BorrowSourceRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*borrowsource.BorrowSource](
			txm,
			borrowSourceTable,
			postgres.ExtractDBColumns[borrowsource.BorrowSource](),
			[]string{"source_name", "contact_person"},
			"source_name ASC",
			func() *borrowsource.BorrowSource { return &borrowsource.BorrowSource{} },
		),
	}
}

// ExistsByName checks name uniqueness. The comparison is exact
// (case-sensitive), matching the unique index.
func (r *BorrowSourceRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"source_name": name})
}

// CountOutstandingBorrows counts non-rejected borrow receives whose
// loan is still out (ACTIVE or RETURN_PENDING).
func (r *BorrowSourceRepo) CountOutstandingBorrows(ctx context.Context, sourceID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From("receive_records").
		Where(squirrel.Eq{"borrow_source_id": sourceID}).
		Where(squirrel.Eq{"borrow_status": []string{"ACTIVE", "RETURN_PENDING"}}).
		Where(squirrel.NotEq{"approval_status": "REJECTED"})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count outstanding borrows: %w", err)
	}

	return count, nil
}
