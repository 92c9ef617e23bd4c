package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AuditAppenderSvc links mutations into the tenant chain.
type AuditAppenderSvc interface {
	// Append must be called with a transactional ctx so the record commits with the mutation.
	Append(ctx context.Context, tenantID string, actor string, action domain.AuditAction, entityType domain.AuditEntityType, entityID string, details string) (*domain.AuditRecord, error)
}

// AuditReaderSvc defines read operations over the chain
type AuditReaderSvc interface {
	// ListRecords returns records in [fromSeq, toSeq]; zero bounds are open.
	ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error)

	// Verify walks the range in append order and reports per-record integrity.
	Verify(ctx context.Context, tenantID string, fromSeq, toSeq int64) (*domain.VerifyReport, error)
}

// AuditSvcFacade combines all audit service interfaces
type AuditSvcFacade interface {
	AuditAppenderSvc
	AuditReaderSvc
}
