// Package issue provides the stock issue document. Approving an issue
// decrements the stock balance, guarded against going negative.
package issue

import (
	"context"
	"time"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/types"
)

// Issue records stock going out to an equipment.
type Issue struct {
	entity.BaseDocument

	IssueNumber string    `db:"issue_number" json:"issueNumber"`
	NacCode     string    `db:"nac_code" json:"nacCode"`
	IssueDate   time.Time `db:"issue_date" json:"issueDate"`

	IssuedQuantity types.Quantity `db:"issued_quantity" json:"issuedQuantity"`

	EquipmentNumber string `db:"equipment_number" json:"equipmentNumber"`
	IssuedBy        string `db:"issued_by" json:"issuedBy"`
	Remarks         string `db:"remarks" json:"remarks"`

	ApprovalStatus entity.ApprovalStatus `db:"approval_status" json:"approvalStatus"`
}

// NewIssue creates a pending issue document.
func NewIssue() *Issue {
	return &Issue{
		BaseDocument:   entity.NewBaseDocument(),
		ApprovalStatus: entity.ApprovalPending,
	}
}

// Validate implements entity.Validatable.
func (i *Issue) Validate(ctx context.Context) error {
	if i.NacCode == "" {
		return apperror.NewValidation("nac code is required").
			WithDetail("field", "nacCode")
	}
	if i.IssueDate.IsZero() {
		return apperror.NewValidation("issue date is required").
			WithDetail("field", "issueDate")
	}
	if !i.IssuedQuantity.IsPositive() {
		return apperror.NewValidation("issued quantity must be positive").
			WithDetail("field", "issuedQuantity").
			WithDetail("value", i.IssuedQuantity.String())
	}
	if i.IssuedBy == "" {
		return apperror.NewValidation("issued by is required").
			WithDetail("field", "issuedBy")
	}
	if !i.ApprovalStatus.Valid() {
		return apperror.NewValidation("invalid approval status").
			WithDetail("field", "approvalStatus").
			WithDetail("value", string(i.ApprovalStatus))
	}
	return nil
}
