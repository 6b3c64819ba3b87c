// Package audit_repo persists approval audit entries.
package audit_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"gims/internal/domain/approval"
	"gims/internal/infrastructure/storage/postgres"
)

const auditTable = "approval_audit"

// Payloads below this size are stored as-is; compression overhead is
// not worth it for small JSON blobs.
const compressThreshold = 512

// AuditRepo implements approval.Auditor. Large payloads are stored
// zstd-compressed.
type AuditRepo struct {
	txm     *postgres.TxManager
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ approval.Auditor = (*AuditRepo)(nil)

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txm *postgres.TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditRepo{txm: txm, encoder: encoder, decoder: decoder}, nil
}

// Record implements approval.Auditor. Runs in the caller's
// transaction when one is held in the context.
func (r *AuditRepo) Record(ctx context.Context, entry approval.AuditEntry) error {
	payload := entry.Payload
	compressed := false
	if len(payload) >= compressThreshold {
		payload = r.encoder.EncodeAll(payload, nil)
		compressed = true
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(auditTable).
		Columns("id", "entity_type", "entity_id", "action", "actor",
			"payload", "compressed", "created_at").
		Values(entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.Actor,
			payload, compressed, entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByEntity returns the audit trail for one entity, oldest first,
// payloads decompressed.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType string, entityID string) ([]approval.AuditEntry, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "entity_type", "entity_id", "action", "actor",
			"payload", "compressed", "created_at").
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []approval.AuditEntry
	for rows.Next() {
		var e approval.AuditEntry
		var compressed bool
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor,
			&e.Payload, &compressed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if compressed {
			e.Payload, err = r.decoder.DecodeAll(e.Payload, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
