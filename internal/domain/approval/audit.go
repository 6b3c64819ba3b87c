package approval

import (
	"context"
	"time"

	"gims/internal/core/id"
)

// AuditEntry records one approval transition.
type AuditEntry struct {
	ID         id.ID     `db:"id" json:"id"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityID   id.ID     `db:"entity_id" json:"entityId"`
	Action     string    `db:"action" json:"action"`
	Actor      string    `db:"actor" json:"actor"`
	Payload    []byte    `db:"payload" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Auditor persists approval transitions. Recording happens inside the
// same transaction as the transition so the trail never diverges from
// the data.
type Auditor interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// NopAuditor discards entries. Used in tests.
type NopAuditor struct{}

// Record implements Auditor.
func (NopAuditor) Record(ctx context.Context, entry AuditEntry) error { return nil }
