package rrp

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/domain"
)

// Repository defines the interface for RRP persistence.
// Headers load and save their lines as one unit.
type Repository interface {
	Create(ctx context.Context, header *Header) error
	GetByID(ctx context.Context, id id.ID) (*Header, error)
	Update(ctx context.Context, header *Header) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Header], error)
	ExistsByNumber(ctx context.Context, rrpNumber string) (bool, error)

	// GetLineForUpdate retrieves a line with a row lock.
	GetLineForUpdate(ctx context.Context, lineID id.ID) (*Line, error)

	// SetLineApprovalStatus mutates only a line's approval status.
	SetLineApprovalStatus(ctx context.Context, lineID id.ID, status string) error
}
