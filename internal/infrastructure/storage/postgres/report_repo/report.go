// Package report_repo provides the PostgreSQL report queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"gims/internal/domain/reports"
	"gims/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// StockBalance returns balances per stock item. Location narrows to
// items received into that location.
func (r *ReportRepo) StockBalance(ctx context.Context, location string) ([]reports.BalanceRow, error) {
	q := `
		SELECT si.nac_code, si.item_name, si.unit,
		       COALESCE(loc.location, '') AS location,
		       si.current_balance
		FROM stock_items si
		LEFT JOIN LATERAL (
			SELECT rcv.location
			FROM receive_records rcv
			JOIN request_records req ON req.id = rcv.request_fk
			WHERE req.nac_code = si.nac_code
			  AND rcv.approval_status = 'APPROVED'
			ORDER BY rcv.receive_date DESC
			LIMIT 1
		) loc ON TRUE
		WHERE si.is_active`
	args := []any{}
	if location != "" {
		q += ` AND loc.location = $1`
		args = append(args, location)
	}
	q += ` ORDER BY si.nac_code`

	var rows []reports.BalanceRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, q, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}
	return rows, nil
}

// Movements returns the approved receive/issue journal over a range.
func (r *ReportRepo) Movements(ctx context.Context, from, to time.Time) ([]reports.MovementRow, error) {
	const q = `
		SELECT movement_date, movement, nac_code, item_name,
		       quantity, equipment_number, reference
		FROM (
			SELECT rcv.receive_date AS movement_date,
			       'RECEIVE' AS movement,
			       req.nac_code,
			       COALESCE(si.item_name, req.item_name) AS item_name,
			       rcv.received_quantity AS quantity,
			       req.equipment_number,
			       req.request_number AS reference
			FROM receive_records rcv
			JOIN request_records req ON req.id = rcv.request_fk
			LEFT JOIN stock_items si ON si.nac_code = req.nac_code
			WHERE rcv.approval_status = 'APPROVED'
			  AND rcv.receive_date >= $1 AND rcv.receive_date <= $2
			UNION ALL
			SELECT iss.issue_date AS movement_date,
			       'ISSUE' AS movement,
			       iss.nac_code,
			       COALESCE(si.item_name, '') AS item_name,
			       iss.issued_quantity AS quantity,
			       iss.equipment_number,
			       iss.issue_number AS reference
			FROM issue_records iss
			LEFT JOIN stock_items si ON si.nac_code = iss.nac_code
			WHERE iss.approval_status = 'APPROVED'
			  AND iss.issue_date >= $1 AND iss.issue_date <= $2
		) journal
		ORDER BY movement_date, movement`

	var rows []reports.MovementRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, q, from, to); err != nil {
		return nil, fmt.Errorf("movements report: %w", err)
	}
	return rows, nil
}
