package receive

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/domain"
)

// ListFilter narrows receive listings beyond the common filter.
type ListFilter struct {
	domain.ListFilter

	RequestFk      *id.ID
	Source         string
	ApprovalStatus string
	BorrowSourceID *id.ID
	BorrowStatus   string
}

// Repository defines the interface for Receive persistence.
type Repository interface {
	Create(ctx context.Context, rcv *Receive) error
	GetByID(ctx context.Context, id id.ID) (*Receive, error)
	Update(ctx context.Context, rcv *Receive) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receive], error)
	ListByRequest(ctx context.Context, requestID id.ID) ([]*Receive, error)

	// GetForUpdate retrieves a receive with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Receive, error)

	// SetApprovalStatus mutates only the approval status.
	SetApprovalStatus(ctx context.Context, id id.ID, status string) error

	// SetBorrowStatus mutates only the borrow status.
	SetBorrowStatus(ctx context.Context, id id.ID, status string) error
}
