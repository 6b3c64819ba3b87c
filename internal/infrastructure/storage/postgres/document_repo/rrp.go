package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/domain"
	"gims/internal/domain/documents/rrp"
	"gims/internal/infrastructure/storage/postgres"
)

const (
	rrpHeaderTable = "rrp_headers"
	rrpLineTable   = "rrp_lines"
)

// RrpRepo implements rrp.Repository. Headers and their lines are
// persisted as one unit inside the caller's transaction.
type RrpRepo struct {
	*BaseDocumentRepo[*rrp.Header]

	lineCols []string
}

var _ rrp.Repository = (*RrpRepo)(nil)

// NewRrpRepo creates a new RRP repository.
func NewRrpRepo(txm *postgres.TxManager) *RrpRepo {
	return &RrpRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*rrp.Header](
			txm,
			rrpHeaderTable,
			postgres.ExtractDBColumns[rrp.Header](),
			[]string{"rrp_number", "supplier_name", "invoice_number", "customs_entry_number"},
			"rrp_date DESC",
			func() *rrp.Header { return &rrp.Header{} },
		),
		lineCols: postgres.ExtractDBColumns[rrp.Line](),
	}
}

// Create inserts the header and all of its lines.
func (r *RrpRepo) Create(ctx context.Context, header *rrp.Header) error {
	if err := r.BaseDocumentRepo.Create(ctx, header); err != nil {
		return err
	}
	return r.insertLines(ctx, header.Lines)
}

// GetByID retrieves a header with its lines.
func (r *RrpRepo) GetByID(ctx context.Context, headerID id.ID) (*rrp.Header, error) {
	header, err := r.BaseDocumentRepo.GetByID(ctx, headerID)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, []*rrp.Header{header}); err != nil {
		return nil, err
	}
	return header, nil
}

// Update updates the header and synchronizes its lines. Submitted
// lines are upserted; unapproved lines absent from the submission are
// removed. Approved lines are never touched here.
func (r *RrpRepo) Update(ctx context.Context, header *rrp.Header) error {
	if err := r.BaseDocumentRepo.Update(ctx, header); err != nil {
		return err
	}

	keep := make([]id.ID, 0, len(header.Lines))
	for _, line := range header.Lines {
		keep = append(keep, line.ID)
	}

	del := r.Builder().
		Delete(rrpLineTable).
		Where(squirrel.Eq{"header_fk": header.ID}).
		Where(squirrel.NotEq{"approval_status": "APPROVED"})
	if len(keep) > 0 {
		del = del.Where(squirrel.NotEq{"id": keep})
	}

	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build line delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete stale rrp lines: %w", err)
	}

	return r.upsertLines(ctx, header.Lines)
}

// Delete removes the header; lines fall with it via cascade.
func (r *RrpRepo) Delete(ctx context.Context, headerID id.ID) error {
	return r.BaseDocumentRepo.Delete(ctx, headerID)
}

// List retrieves headers with filtering and pagination, lines included.
func (r *RrpRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*rrp.Header], error) {
	result, err := r.BaseDocumentRepo.List(ctx, f)
	if err != nil {
		return result, err
	}
	if err := r.loadLines(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// ExistsByNumber checks whether a header with the given number exists.
func (r *RrpRepo) ExistsByNumber(ctx context.Context, rrpNumber string) (bool, error) {
	q := r.Builder().
		Select("1").
		From(rrpHeaderTable).
		Where(squirrel.Eq{"rrp_number": rrpNumber}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists by number: %w", err)
	}
	return true, nil
}

// GetLineForUpdate retrieves one line with a row lock.
func (r *RrpRepo) GetLineForUpdate(ctx context.Context, lineID id.ID) (*rrp.Line, error) {
	q := r.Builder().
		Select(r.lineCols...).
		From(rrpLineTable).
		Where(squirrel.Eq{"id": lineID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	line := &rrp.Line{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), line, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(rrpLineTable, lineID.String())
		}
		return nil, fmt.Errorf("get line for update: %w", err)
	}
	return line, nil
}

// SetLineApprovalStatus mutates only a line's approval status.
func (r *RrpRepo) SetLineApprovalStatus(ctx context.Context, lineID id.ID, status string) error {
	q := r.Builder().
		Update(rrpLineTable).
		Set("approval_status", status).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": lineID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build line status update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set line status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(rrpLineTable, lineID.String())
	}
	return nil
}

func (r *RrpRepo) insertLines(ctx context.Context, lines []*rrp.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(rrpLineTable).
		Columns(r.lineCols...)
	for _, line := range lines {
		data := postgres.StructToMap(line)
		row := make([]any, 0, len(r.lineCols))
		for _, col := range r.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build line insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert rrp lines: %w", err)
	}
	return nil
}

func (r *RrpRepo) upsertLines(ctx context.Context, lines []*rrp.Line) error {
	if len(lines) == 0 {
		return nil
	}

	updates := make([]string, 0, len(r.lineCols))
	for _, col := range r.lineCols {
		if col == "id" {
			continue
		}
		if col == "version" {
			updates = append(updates, "version = "+rrpLineTable+".version + 1")
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	q := r.Builder().
		Insert(rrpLineTable).
		Columns(r.lineCols...)
	for _, line := range lines {
		data := postgres.StructToMap(line)
		row := make([]any, 0, len(r.lineCols))
		for _, col := range r.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}
	q = q.Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", "))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build line upsert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert rrp lines: %w", err)
	}
	return nil
}

func (r *RrpRepo) loadLines(ctx context.Context, headers []*rrp.Header) error {
	if len(headers) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(headers))
	byID := make(map[id.ID]*rrp.Header, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
		byID[h.ID] = h
		h.Lines = nil
	}

	q := r.Builder().
		Select(r.lineCols...).
		From(rrpLineTable).
		Where(squirrel.Eq{"header_fk": ids}).
		OrderBy("header_fk", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build line query: %w", err)
	}

	var lines []*rrp.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return fmt.Errorf("load rrp lines: %w", err)
	}

	for _, line := range lines {
		if h, ok := byID[line.HeaderFk]; ok {
			h.Lines = append(h.Lines, line)
		}
	}
	return nil
}
