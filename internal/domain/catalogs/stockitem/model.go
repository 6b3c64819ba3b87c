// Package stockitem provides the stock item catalog.
// Stock items are identified by their NAC code, the canonical identifier
// used across requests, receives and issues.
package stockitem

import (
	"context"
	"regexp"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/types"
)

var nacCodeRE = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,31}$`)

// StockItem represents a stocked part or consumable.
type StockItem struct {
	entity.BaseEntity

	// NacCode is unique across the catalog
	NacCode string `db:"nac_code" json:"nacCode"`

	ItemName string `db:"item_name" json:"itemName"`

	// PartNumbers is a comma-separated list of manufacturer part numbers
	PartNumbers string `db:"part_numbers" json:"partNumbers"`

	// ApplicableEquipments lists the equipment this item fits
	ApplicableEquipments string `db:"applicable_equipments" json:"applicableEquipments"`

	// CurrentBalance is mutated only by approved receives, issues and
	// transfers. It must never go negative.
	CurrentBalance types.Quantity `db:"current_balance" json:"currentBalance"`

	Unit       string `db:"unit" json:"unit"`
	Location   string `db:"location" json:"location"`
	CardNumber string `db:"card_number" json:"cardNumber"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewStockItem creates a stock item with required fields.
func NewStockItem(nacCode, itemName string) *StockItem {
	return &StockItem{
		BaseEntity: entity.NewBaseEntity(),
		NacCode:    nacCode,
		ItemName:   itemName,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable.
func (s *StockItem) Validate(ctx context.Context) error {
	if s.NacCode == "" {
		return apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	if !nacCodeRE.MatchString(s.NacCode) {
		return apperror.NewValidation("invalid nac code format").
			WithDetail("field", "nacCode").
			WithDetail("value", s.NacCode)
	}
	if s.ItemName == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "itemName")
	}
	if s.CurrentBalance.IsNegative() {
		return apperror.NewValidation("current balance cannot be negative").
			WithDetail("field", "currentBalance").
			WithDetail("value", s.CurrentBalance.String())
	}
	return nil
}
