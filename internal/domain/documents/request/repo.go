package request

import (
	"context"

	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
)

// ListItem is a request row enriched with listing-only fields.
type ListItem struct {
	Request

	// ApprovedReceived is the sum of APPROVED receive quantities
	ApprovedReceived types.Quantity `db:"approved_received" json:"approvedReceived"`

	// ReceiveStatus is derived from ApprovedReceived vs RequestedQuantity
	ReceiveStatus string `db:"-" json:"receiveStatus"`

	// Lead-time forecast summary from prediction_metrics (left join)
	PredictedLeadDays  *float64 `db:"predicted_lead_days" json:"predictedLeadDays,omitempty"`
	PredictionTier     *string  `db:"prediction_tier" json:"predictionTier,omitempty"`
	PredictionSampleSz *int     `db:"prediction_sample_size" json:"predictionSampleSize,omitempty"`
}

// ListFilter narrows request listings beyond the common filter.
type ListFilter struct {
	domain.ListFilter

	EquipmentNumber string
	PartNumber      string
	ApprovalStatus  string
	RequestedBy     string
}

// Repository defines the interface for Request persistence.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id id.ID) (*Request, error)
	Update(ctx context.Context, req *Request) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error)

	// GetForUpdate retrieves a request with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Request, error)

	// ApprovedReceivedSum returns the sum of APPROVED receive
	// quantities linked to the request.
	ApprovedReceivedSum(ctx context.Context, id id.ID) (types.Quantity, error)

	// MarkReceived flips is_received and sets receive_fk.
	MarkReceived(ctx context.Context, id id.ID, receiveID id.ID) error

	// SetApprovalStatus mutates only the approval status.
	SetApprovalStatus(ctx context.Context, id id.ID, status string) error
}
