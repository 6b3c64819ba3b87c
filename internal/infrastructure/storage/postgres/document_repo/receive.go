package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/id"
	"gims/internal/domain"
	"gims/internal/domain/documents/receive"
	"gims/internal/infrastructure/storage/postgres"
)

const receiveTable = "receive_records"

// ReceiveRepo implements receive.Repository.
type ReceiveRepo struct {
	*BaseDocumentRepo[*receive.Receive]
}

var _ receive.Repository = (*ReceiveRepo)(nil)

// NewReceiveRepo creates a new receive repository.
func NewReceiveRepo(txm *postgres.TxManager) *ReceiveRepo {
	return &ReceiveRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*receive.Receive](
			txm,
			receiveTable,
			postgres.ExtractDBColumns[receive.Receive](),
			[]string{"location", "card_number", "remarks"},
			"receive_date DESC",
			func() *receive.Receive { return &receive.Receive{} },
		),
	}
}

// List retrieves receives narrowed by source, status and linkage.
func (r *ReceiveRepo) List(ctx context.Context, f receive.ListFilter) (domain.ListResult[*receive.Receive], error) {
	q := r.BaseSelect()

	if f.RequestFk != nil {
		q = q.Where(squirrel.Eq{"request_fk": *f.RequestFk})
	}
	if f.Source != "" {
		q = q.Where(squirrel.Eq{"source": f.Source})
	}
	if f.ApprovalStatus != "" {
		q = q.Where(squirrel.Eq{"approval_status": f.ApprovalStatus})
	}
	if f.BorrowSourceID != nil {
		q = q.Where(squirrel.Eq{"borrow_source_id": *f.BorrowSourceID})
	}
	if f.BorrowStatus != "" {
		q = q.Where(squirrel.Eq{"borrow_status": f.BorrowStatus})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"location": pattern},
			squirrel.ILike{"card_number": pattern},
			squirrel.ILike{"remarks": pattern},
		})
	}

	var err error
	q, err = r.ApplyAdvancedFilters(q, f.AdvancedFilters)
	if err != nil {
		return domain.ListResult[*receive.Receive]{}, err
	}

	return r.SelectList(ctx, q, f.ListFilter)
}

// ListByRequest retrieves all receives linked to a request.
func (r *ReceiveRepo) ListByRequest(ctx context.Context, requestID id.ID) ([]*receive.Receive, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"request_fk": requestID}).
		OrderBy("receive_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*receive.Receive
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by request: %w", err)
	}

	return items, nil
}

// SetApprovalStatus mutates only the approval status.
func (r *ReceiveRepo) SetApprovalStatus(ctx context.Context, receiveID id.ID, status string) error {
	return r.SetField(ctx, receiveID, "approval_status", status)
}

// SetBorrowStatus mutates only the borrow status.
func (r *ReceiveRepo) SetBorrowStatus(ctx context.Context, receiveID id.ID, status string) error {
	return r.SetField(ctx, receiveID, "borrow_status", status)
}
