// Package nacunit provides per-NAC-code units of measure with a single
// default unit per code. Request and receive forms consult the default
// when pre-filling quantities.
package nacunit

import (
	"context"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
)

// NacUnit binds a unit of measure to a NAC code.
// At most one unit per NAC code carries IsDefault.
type NacUnit struct {
	entity.BaseEntity

	NacCode string `db:"nac_code" json:"nacCode"`
	Unit    string `db:"unit" json:"unit"`

	IsDefault bool `db:"is_default" json:"isDefault"`
}

// NewNacUnit creates a unit binding for a NAC code.
func NewNacUnit(nacCode, unit string) *NacUnit {
	return &NacUnit{
		BaseEntity: entity.NewBaseEntity(),
		NacCode:    nacCode,
		Unit:       unit,
	}
}

// Validate implements entity.Validatable.
func (n *NacUnit) Validate(ctx context.Context) error {
	if n.NacCode == "" {
		return apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	if n.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}
	return nil
}
