package nacunit

import (
	"context"

	"gims/internal/domain"
)

// Repository defines the interface for NacUnit persistence.
type Repository interface {
	// List returns unit bindings across all NAC codes, searchable over
	// nac_code and unit, with pagination.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*NacUnit], error)

	// ListByNacCode returns all unit bindings for a NAC code,
	// default first then alphabetical.
	ListByNacCode(ctx context.Context, nacCode string) ([]*NacUnit, error)

	// GetDefault returns the default unit binding for a NAC code,
	// or a not-found error if no default is set.
	GetDefault(ctx context.Context, nacCode string) (*NacUnit, error)

	// ClearDefault drops the default flag from every unit of the NAC code.
	ClearDefault(ctx context.Context, nacCode string) error

	// Upsert inserts the (nac_code, unit) binding with the given default
	// flag, or updates the flag on the existing binding on conflict.
	Upsert(ctx context.Context, nacCode, unit string, isDefault bool) (*NacUnit, error)

	// Delete removes a unit binding.
	Delete(ctx context.Context, nacCode, unit string) error
}
