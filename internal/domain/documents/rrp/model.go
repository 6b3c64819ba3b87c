// Package rrp provides the receive reconciliation/purchase document:
// a supplier invoice grouping receive line items for costing and
// per-line approval.
package rrp

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
)

// SupplierKind distinguishes local and foreign suppliers.
// Local suppliers settle in base currency with forex rate 1.
type SupplierKind string

const (
	SupplierLocal   SupplierKind = "LOCAL"
	SupplierForeign SupplierKind = "FOREIGN"
)

// Valid reports whether k is a known supplier kind.
func (k SupplierKind) Valid() bool {
	return k == SupplierLocal || k == SupplierForeign
}

var hundred = decimal.NewFromInt(100)

// Header is the RRP document header.
type Header struct {
	entity.BaseDocument

	RrpNumber    string       `db:"rrp_number" json:"rrpNumber"`
	SupplierKind SupplierKind `db:"supplier_kind" json:"supplierKind"`
	SupplierName string       `db:"supplier_name" json:"supplierName"`
	RrpDate      time.Time    `db:"rrp_date" json:"rrpDate"`

	InvoiceNumber string     `db:"invoice_number" json:"invoiceNumber"`
	InvoiceDate   *time.Time `db:"invoice_date" json:"invoiceDate,omitempty"`

	Currency  string      `db:"currency" json:"currency"`
	ForexRate types.Money `db:"forex_rate" json:"forexRate"`

	// FreightCharge applies to the whole document, not per line
	FreightCharge types.Money `db:"freight_charge" json:"freightCharge"`

	CustomsEntryNumber string     `db:"customs_entry_number" json:"customsEntryNumber"`
	CustomsDate        *time.Time `db:"customs_date" json:"customsDate,omitempty"`

	Remarks string `db:"remarks" json:"remarks"`

	Lines []*Line `db:"-" json:"lines"`
}

// NewHeader creates an RRP header.
func NewHeader(kind SupplierKind) *Header {
	h := &Header{
		BaseDocument: entity.NewBaseDocument(),
		SupplierKind: kind,
		ForexRate:    decimal.NewFromInt(1),
	}
	return h
}

// Validate implements entity.Validatable.
func (h *Header) Validate(ctx context.Context) error {
	if !h.SupplierKind.Valid() {
		return apperror.NewValidation("invalid supplier kind").
			WithDetail("field", "supplierKind").
			WithDetail("value", string(h.SupplierKind))
	}
	if h.SupplierName == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "supplierName")
	}
	if h.RrpDate.IsZero() {
		return apperror.NewValidation("rrp date is required").
			WithDetail("field", "rrpDate")
	}
	if h.SupplierKind == SupplierForeign {
		if h.Currency == "" {
			return apperror.NewValidation("currency is required for foreign suppliers").
				WithDetail("field", "currency")
		}
		if !h.ForexRate.IsPositive() {
			return apperror.NewValidation("forex rate must be positive").
				WithDetail("field", "forexRate").
				WithDetail("value", h.ForexRate.String())
		}
	}
	if h.FreightCharge.IsNegative() {
		return apperror.NewValidation("freight charge cannot be negative").
			WithDetail("field", "freightCharge")
	}
	if len(h.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range h.Lines {
		if err := line.Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("line", i)
			}
			return err
		}
	}
	return nil
}

// EffectiveForexRate is 1 for local suppliers regardless of input.
func (h *Header) EffectiveForexRate() types.Money {
	if h.SupplierKind == SupplierLocal {
		return decimal.NewFromInt(1)
	}
	return h.ForexRate
}

// ComputeTotals recomputes TotalAmount on every line from the header's
// effective forex rate.
func (h *Header) ComputeTotals() {
	rate := h.EffectiveForexRate()
	for _, line := range h.Lines {
		line.TotalAmount = line.ComputeTotal(rate)
	}
}

// GrandTotal is the sum of line totals plus the header freight charge.
func (h *Header) GrandTotal() types.Money {
	total := h.FreightCharge
	for _, line := range h.Lines {
		total = total.Add(line.TotalAmount)
	}
	return total
}

// Line is one costed receive within an RRP document.
type Line struct {
	entity.BaseEntity

	HeaderFk  id.ID `db:"header_fk" json:"headerFk"`
	ReceiveFk id.ID `db:"receive_fk" json:"receiveFk"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	ItemPrice types.Money    `db:"item_price" json:"itemPrice"`

	CustomsCharge types.Money `db:"customs_charge" json:"customsCharge"`
	VatPercent    types.Money `db:"vat_percent" json:"vatPercent"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	ApprovalStatus entity.ApprovalStatus `db:"approval_status" json:"approvalStatus"`
}

// NewLine creates a pending RRP line for a receive.
func NewLine(receiveFk id.ID) *Line {
	return &Line{
		BaseEntity:     entity.NewBaseEntity(),
		ReceiveFk:      receiveFk,
		ApprovalStatus: entity.ApprovalPending,
	}
}

// Validate implements entity.Validatable.
func (l *Line) Validate(ctx context.Context) error {
	if id.IsNil(l.ReceiveFk) {
		return apperror.NewValidation("receive reference is required").
			WithDetail("field", "receiveFk")
	}
	if !l.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", l.Quantity.String())
	}
	if l.ItemPrice.IsNegative() {
		return apperror.NewValidation("item price cannot be negative").
			WithDetail("field", "itemPrice")
	}
	if l.CustomsCharge.IsNegative() {
		return apperror.NewValidation("customs charge cannot be negative").
			WithDetail("field", "customsCharge")
	}
	if l.VatPercent.IsNegative() {
		return apperror.NewValidation("vat percent cannot be negative").
			WithDetail("field", "vatPercent")
	}
	return nil
}

// ComputeTotal costs the line in base currency:
//
//	base     = item_price * quantity * forex_rate
//	dutiable = base + customs_charge
//	vat      = dutiable * vat_percent / 100
//	total    = dutiable + vat
func (l *Line) ComputeTotal(forexRate types.Money) types.Money {
	base := l.ItemPrice.Mul(l.Quantity.Decimal()).Mul(forexRate)
	dutiable := base.Add(l.CustomsCharge)
	vat := dutiable.Mul(l.VatPercent).Div(hundred)
	return dutiable.Add(vat)
}
