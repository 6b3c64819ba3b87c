package stockitem

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
)

// Repository defines the interface for StockItem persistence.
type Repository interface {
	Create(ctx context.Context, item *StockItem) error
	GetByID(ctx context.Context, id id.ID) (*StockItem, error)
	GetByNacCode(ctx context.Context, nacCode string) (*StockItem, error)
	Update(ctx context.Context, item *StockItem) error
	SetActive(ctx context.Context, id id.ID, active bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*StockItem], error)
	ExistsByNacCode(ctx context.Context, nacCode string) (bool, error)

	// GetForUpdateByNacCode retrieves an item with a row lock.
	// Call inside a transaction before adjusting the balance.
	GetForUpdateByNacCode(ctx context.Context, nacCode string) (*StockItem, error)

	// AdjustBalance applies a signed delta to current_balance.
	// Callers are responsible for the non-negative guard.
	AdjustBalance(ctx context.Context, nacCode string, delta types.Quantity) error
}
