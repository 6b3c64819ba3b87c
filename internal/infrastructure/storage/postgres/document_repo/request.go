package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
	"gims/internal/domain/documents/request"
	"gims/internal/infrastructure/storage/postgres"
)

const requestTable = "request_records"

// approvedReceivedExpr sums APPROVED receive quantities per request.
// Quantities are scaled BIGINTs, so the SUM is cast back down.
const approvedReceivedExpr = `(
    SELECT COALESCE(SUM(received_quantity), 0)::bigint
    FROM receive_records rcv
    WHERE rcv.request_fk = r.id AND rcv.approval_status = 'APPROVED'
)`

// RequestRepo implements request.Repository.
type RequestRepo struct {
	*BaseDocumentRepo[*request.Request]
}

var _ request.Repository = (*RequestRepo)(nil)

// NewRequestRepo creates a new request repository.
func NewRequestRepo(txm *postgres.TxManager) *RequestRepo {
	return &RequestRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*request.Request](
			txm,
			requestTable,
			postgres.ExtractDBColumns[request.Request](),
			[]string{"request_number", "nac_code", "item_name", "part_number", "equipment_number"},
			"request_date DESC",
			func() *request.Request { return &request.Request{} },
		),
	}
}

// ApprovedReceivedSum returns the sum of APPROVED receive quantities
// linked to the request.
func (r *RequestRepo) ApprovedReceivedSum(ctx context.Context, requestID id.ID) (types.Quantity, error) {
	q := r.Builder().
		Select("COALESCE(SUM(received_quantity), 0)::bigint").
		From("receive_records").
		Where(squirrel.Eq{"request_fk": requestID}).
		Where(squirrel.Eq{"approval_status": "APPROVED"})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum query: %w", err)
	}

	var sum int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum received: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(sum), nil
}

// MarkReceived flips is_received and sets receive_fk.
func (r *RequestRepo) MarkReceived(ctx context.Context, requestID id.ID, receiveID id.ID) error {
	q := r.Builder().
		Update(requestTable).
		Set("is_received", true).
		Set("receive_fk", receiveID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": requestID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark received: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark received: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("request %s not found", requestID)
	}

	return nil
}

// SetApprovalStatus mutates only the approval status.
func (r *RequestRepo) SetApprovalStatus(ctx context.Context, requestID id.ID, status string) error {
	return r.SetField(ctx, requestID, "approval_status", status)
}

// List retrieves requests enriched with the approved receive sum and
// the lead-time forecast for the item's NAC code.
func (r *RequestRepo) List(ctx context.Context, f request.ListFilter) (domain.ListResult[*request.ListItem], error) {
	cols := make([]string, 0, 16)
	for _, col := range postgres.ExtractDBColumns[request.Request]() {
		cols = append(cols, "r."+col)
	}
	cols = append(cols,
		approvedReceivedExpr+" AS approved_received",
		"pm.weighted_lead_days AS predicted_lead_days",
		"pm.confidence_tier AS prediction_tier",
		"pm.sample_size AS prediction_sample_size",
	)

	q := r.Builder().
		Select(cols...).
		From(requestTable + " r").
		LeftJoin("prediction_metrics pm ON pm.nac_code = r.nac_code")

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"r.request_number": pattern},
			squirrel.ILike{"r.nac_code": pattern},
			squirrel.ILike{"r.item_name": pattern},
			squirrel.ILike{"r.part_number": pattern},
			squirrel.ILike{"r.equipment_number": pattern},
		})
	}
	if f.EquipmentNumber != "" {
		q = q.Where(squirrel.Eq{"r.equipment_number": f.EquipmentNumber})
	}
	if f.PartNumber != "" {
		q = q.Where(squirrel.ILike{"r.part_number": "%" + f.PartNumber + "%"})
	}
	if f.ApprovalStatus != "" {
		q = q.Where(squirrel.Eq{"r.approval_status": f.ApprovalStatus})
	}
	if f.RequestedBy != "" {
		q = q.Where(squirrel.Eq{"r.requested_by": f.RequestedBy})
	}

	result := domain.ListResult[*request.ListItem]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseListOrder(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list requests: %w", err)
	}

	return result, nil
}

// parseListOrder qualifies request columns with the join alias.
func (r *RequestRepo) parseListOrder(orderBy string) (string, error) {
	parsed, err := r.ParseOrderBy(orderBy)
	if err != nil {
		return "", err
	}
	return "r." + parsed, nil
}
