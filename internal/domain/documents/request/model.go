// Package request provides the requisition document: a demand for a
// quantity of a stock item against an equipment number.
package request

import (
	"context"
	"time"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
)

// Request is a requisition for a stock item.
//
// Lifecycle: created PENDING; may be approved or rejected. Once linked
// to a receive (IsReceived set, ReceiveFk populated) the requested
// quantity may not drop below the received sum and the record becomes
// undeletable.
type Request struct {
	entity.BaseDocument

	RequestNumber string    `db:"request_number" json:"requestNumber"`
	NacCode       string    `db:"nac_code" json:"nacCode"`
	RequestDate   time.Time `db:"request_date" json:"requestDate"`

	PartNumber string `db:"part_number" json:"partNumber"`
	ItemName   string `db:"item_name" json:"itemName"`
	Unit       string `db:"unit" json:"unit"`

	RequestedQuantity types.Quantity `db:"requested_quantity" json:"requestedQuantity"`
	PreviousRate      types.Money    `db:"previous_rate" json:"previousRate"`

	EquipmentNumber string `db:"equipment_number" json:"equipmentNumber"`
	ImagePath       string `db:"image_path" json:"imagePath"`
	RequestedBy     string `db:"requested_by" json:"requestedBy"`
	Remarks         string `db:"remarks" json:"remarks"`

	ApprovalStatus entity.ApprovalStatus `db:"approval_status" json:"approvalStatus"`

	IsReceived bool   `db:"is_received" json:"isReceived"`
	ReceiveFk  *id.ID `db:"receive_fk" json:"receiveFk,omitempty"`
}

// NewRequest creates a pending request document.
func NewRequest() *Request {
	return &Request{
		BaseDocument:   entity.NewBaseDocument(),
		ApprovalStatus: entity.ApprovalPending,
	}
}

// Validate implements entity.Validatable.
func (r *Request) Validate(ctx context.Context) error {
	required := []struct {
		field string
		empty bool
	}{
		{"requestNumber", r.RequestNumber == ""},
		{"nacCode", r.NacCode == ""},
		{"requestDate", r.RequestDate.IsZero()},
		{"partNumber", r.PartNumber == ""},
		{"itemName", r.ItemName == ""},
		{"unit", r.Unit == ""},
		{"equipmentNumber", r.EquipmentNumber == ""},
		{"requestedBy", r.RequestedBy == ""},
	}
	for _, f := range required {
		if f.empty {
			return apperror.NewValidation(f.field + " is required").
				WithDetail("field", f.field)
		}
	}
	if !r.RequestedQuantity.IsPositive() {
		return apperror.NewValidation("requested quantity must be positive").
			WithDetail("field", "requestedQuantity").
			WithDetail("value", r.RequestedQuantity.String())
	}
	if !r.ApprovalStatus.Valid() {
		return apperror.NewValidation("invalid approval status").
			WithDetail("field", "approvalStatus").
			WithDetail("value", string(r.ApprovalStatus))
	}
	return nil
}

// ReceiveStatusLabel derives the fulfilment label from the sum of
// approved receive quantities against the requested quantity.
func (r *Request) ReceiveStatusLabel(approvedReceived types.Quantity) string {
	switch {
	case approvedReceived.IsZero() || approvedReceived.IsNegative():
		return "Not Received"
	case approvedReceived < r.RequestedQuantity:
		return "Partially Received"
	default:
		return "Received"
	}
}
