package borrowsource

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/domain"
)

// Repository defines the interface for BorrowSource persistence.
type Repository interface {
	Create(ctx context.Context, source *BorrowSource) error
	GetByID(ctx context.Context, id id.ID) (*BorrowSource, error)
	Update(ctx context.Context, source *BorrowSource) error
	SetActive(ctx context.Context, id id.ID, active bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*BorrowSource], error)

	// ExistsByName performs a case-sensitive uniqueness check.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// CountOutstandingBorrows counts non-rejected borrow receives against
	// this source whose loan is not yet RETURNED.
	CountOutstandingBorrows(ctx context.Context, id id.ID) (int64, error)
}
