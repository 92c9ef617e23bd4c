package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AuditReader defines read operations over a tenant's audit chain
type AuditReader interface {
	// FindTail returns the last record of the chain, or nil when the chain is empty.
	FindTail(ctx context.Context, tenantID string) (*domain.AuditRecord, error)

	// FindRecordBySequence returns a single record.
	FindRecordBySequence(ctx context.Context, tenantID string, sequenceID int64) (*domain.AuditRecord, error)

	// ListRecords returns records with fromSeq <= sequence <= toSeq in ascending order.
	// A toSeq of zero means up to the tail.
	ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error)
}

// AuditAppender defines the only write path of the chain. There is no update or delete.
type AuditAppender interface {
	// FindTailForAppend serializes appends for the tenant until the transaction ends
	// and returns the current tail, or nil when the chain is empty.
	FindTailForAppend(ctx context.Context, tenantID string) (*domain.AuditRecord, error)

	// AppendRecord stores a new record.
	AppendRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditRepositoryFacade combines all audit repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditAppender
}
