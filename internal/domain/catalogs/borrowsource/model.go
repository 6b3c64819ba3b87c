// Package borrowsource provides the catalog of external parties
// that spares can be borrowed from.
package borrowsource

import (
	"context"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
)

// BorrowSource represents an airline, MRO shop or other lender.
type BorrowSource struct {
	entity.BaseEntity

	// Name is unique across the catalog (case-sensitive)
	Name string `db:"source_name" json:"sourceName"`

	ContactPerson string `db:"contact_person" json:"contactPerson"`
	ContactEmail  string `db:"contact_email" json:"contactEmail"`
	ContactPhone  string `db:"contact_phone" json:"contactPhone"`
	Address       string `db:"address" json:"address"`
	Remarks       string `db:"remarks" json:"remarks"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewBorrowSource creates a borrow source with required fields.
func NewBorrowSource(name string) *BorrowSource {
	return &BorrowSource{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable.
func (b *BorrowSource) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
