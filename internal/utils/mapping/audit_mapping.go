package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		TenantID:     d.TenantID,
		SequenceID:   d.SequenceID,
		RecordedAt:   d.Timestamp,
		Actor:        d.Actor,
		Action:       string(d.Action),
		EntityType:   string(d.EntityType),
		EntityID:     d.EntityID,
		Details:      d.Details,
		Hash:         d.Hash,
		PreviousHash: d.PreviousHash,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord.
// The timestamp is normalized exactly as it was when hashed.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	return domain.AuditRecord{
		TenantID:     m.TenantID,
		SequenceID:   m.SequenceID,
		Timestamp:    domain.NormalizeAuditTimestamp(m.RecordedAt),
		Actor:        m.Actor,
		Action:       domain.AuditAction(m.Action),
		EntityType:   domain.AuditEntityType(m.EntityType),
		EntityID:     m.EntityID,
		Details:      m.Details,
		Hash:         m.Hash,
		PreviousHash: m.PreviousHash,
	}
}
