package issue

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/domain"
)

// ListFilter narrows issue listings beyond the common filter.
type ListFilter struct {
	domain.ListFilter

	NacCode         string
	EquipmentNumber string
	ApprovalStatus  string
}

// Repository defines the interface for Issue persistence.
type Repository interface {
	Create(ctx context.Context, iss *Issue) error
	GetByID(ctx context.Context, id id.ID) (*Issue, error)
	Update(ctx context.Context, iss *Issue) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Issue], error)

	// GetForUpdate retrieves an issue with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Issue, error)

	// SetApprovalStatus mutates only the approval status.
	SetApprovalStatus(ctx context.Context, id id.ID, status string) error
}
