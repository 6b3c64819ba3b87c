// Package receive provides the goods receive document. A receive
// fulfils a request from one of three sources: purchase, tender or
// borrow. Multiple partial receives may accumulate against one request.
package receive

import (
	"context"
	"time"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
)

// Source is the procurement channel of a receive.
type Source string

const (
	SourcePurchase Source = "PURCHASE"
	SourceTender   Source = "TENDER"
	SourceBorrow   Source = "BORROW"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourcePurchase, SourceTender, SourceBorrow:
		return true
	}
	return false
}

// Receive is a goods receive against a request.
type Receive struct {
	entity.BaseDocument

	RequestFk   id.ID     `db:"request_fk" json:"requestFk"`
	ReceiveDate time.Time `db:"receive_date" json:"receiveDate"`

	ReceivedQuantity types.Quantity `db:"received_quantity" json:"receivedQuantity"`

	Unit       string `db:"unit" json:"unit"`
	Location   string `db:"location" json:"location"`
	CardNumber string `db:"card_number" json:"cardNumber"`
	ImagePath  string `db:"image_path" json:"imagePath"`
	Remarks    string `db:"remarks" json:"remarks"`

	Source Source `db:"source" json:"source"`

	ApprovalStatus entity.ApprovalStatus `db:"approval_status" json:"approvalStatus"`

	// Borrow-only fields
	BorrowSourceID *id.ID               `db:"borrow_source_id" json:"borrowSourceId,omitempty"`
	BorrowStatus   *entity.BorrowStatus `db:"borrow_status" json:"borrowStatus,omitempty"`
}

// NewReceive creates a pending receive for a request.
func NewReceive(requestFk id.ID, source Source) *Receive {
	r := &Receive{
		BaseDocument:   entity.NewBaseDocument(),
		RequestFk:      requestFk,
		Source:         source,
		ApprovalStatus: entity.ApprovalPending,
	}
	if source == SourceBorrow {
		status := entity.BorrowActive
		r.BorrowStatus = &status
	}
	return r
}

// Validate implements entity.Validatable.
func (r *Receive) Validate(ctx context.Context) error {
	if id.IsNil(r.RequestFk) {
		return apperror.NewValidation("request reference is required").
			WithDetail("field", "requestFk")
	}
	if r.ReceiveDate.IsZero() {
		return apperror.NewValidation("receive date is required").
			WithDetail("field", "receiveDate")
	}
	if !r.ReceivedQuantity.IsPositive() {
		return apperror.NewValidation("received quantity must be positive").
			WithDetail("field", "receivedQuantity").
			WithDetail("value", r.ReceivedQuantity.String())
	}
	if !r.Source.Valid() {
		return apperror.NewValidation("invalid receive source").
			WithDetail("field", "source").
			WithDetail("value", string(r.Source))
	}
	if !r.ApprovalStatus.Valid() {
		return apperror.NewValidation("invalid approval status").
			WithDetail("field", "approvalStatus").
			WithDetail("value", string(r.ApprovalStatus))
	}

	if r.Source == SourceBorrow {
		if r.BorrowSourceID == nil || id.IsNil(*r.BorrowSourceID) {
			return apperror.NewValidation("borrow source is required for borrow receives").
				WithDetail("field", "borrowSourceId")
		}
		if r.BorrowStatus == nil || !r.BorrowStatus.Valid() {
			return apperror.NewValidation("invalid borrow status").
				WithDetail("field", "borrowStatus")
		}
	} else {
		if r.BorrowSourceID != nil || r.BorrowStatus != nil {
			return apperror.NewValidation("borrow fields are only valid for borrow receives").
				WithDetail("field", "source").
				WithDetail("value", string(r.Source))
		}
	}
	return nil
}
