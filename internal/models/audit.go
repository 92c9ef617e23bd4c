package models

import "time"

// AuditRecord is a row of the append-only audit_records table.
type AuditRecord struct {
	TenantID     string    `db:"tenant_id"`
	SequenceID   int64     `db:"sequence_id"`
	RecordedAt   time.Time `db:"recorded_at"`
	Actor        string    `db:"actor"`
	Action       string    `db:"action"`
	EntityType   string    `db:"entity_type"`
	EntityID     string    `db:"entity_id"`
	Details      string    `db:"details"`
	Hash         string    `db:"hash"`
	PreviousHash string    `db:"previous_hash"`
}
