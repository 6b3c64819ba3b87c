package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"gims/internal/core/id"
	"gims/internal/domain"
	"gims/internal/domain/documents/issue"
	"gims/internal/infrastructure/storage/postgres"
)

const issueTable = "issue_records"

// IssueRepo implements issue.Repository.
type IssueRepo struct {
	*BaseDocumentRepo[*issue.Issue]
}

var _ issue.Repository = (*IssueRepo)(nil)

// NewIssueRepo creates a new issue repository.
func NewIssueRepo(txm *postgres.TxManager) *IssueRepo {
	return &IssueRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*issue.Issue](
			txm,
			issueTable,
			postgres.ExtractDBColumns[issue.Issue](),
			[]string{"issue_number", "nac_code", "equipment_number", "issued_by"},
			"issue_date DESC",
			func() *issue.Issue { return &issue.Issue{} },
		),
	}
}

// List retrieves issues narrowed by code, equipment and status.
func (r *IssueRepo) List(ctx context.Context, f issue.ListFilter) (domain.ListResult[*issue.Issue], error) {
	q := r.BaseSelect()

	if f.NacCode != "" {
		q = q.Where(squirrel.Eq{"nac_code": f.NacCode})
	}
	if f.EquipmentNumber != "" {
		q = q.Where(squirrel.Eq{"equipment_number": f.EquipmentNumber})
	}
	if f.ApprovalStatus != "" {
		q = q.Where(squirrel.Eq{"approval_status": f.ApprovalStatus})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"issue_number": pattern},
			squirrel.ILike{"nac_code": pattern},
			squirrel.ILike{"equipment_number": pattern},
			squirrel.ILike{"issued_by": pattern},
		})
	}

	var err error
	q, err = r.ApplyAdvancedFilters(q, f.AdvancedFilters)
	if err != nil {
		return domain.ListResult[*issue.Issue]{}, err
	}

	return r.SelectList(ctx, q, f.ListFilter)
}

// SetApprovalStatus mutates only the approval status.
func (r *IssueRepo) SetApprovalStatus(ctx context.Context, issueID id.ID, status string) error {
	return r.SetField(ctx, issueID, "approval_status", status)
}
