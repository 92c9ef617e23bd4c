package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// auditService appends to and verifies the per-tenant hash chain.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
	txManager portsrepo.TransactionManager
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, txManager portsrepo.TransactionManager, options ...AuditServiceOption) portssvc.AuditSvcFacade {
	svc := &auditService{
		auditRepo: auditRepo,
		txManager: txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// AuditServiceOption is a functional option for configuring the audit service
type AuditServiceOption func(*auditService)

// WithAuditClock overrides the clock used to timestamp records.
func WithAuditClock(clock func() time.Time) AuditServiceOption {
	return func(s *auditService) {
		s.Clock = clock
	}
}

// Append links a new record to the tenant's chain. When ctx carries a transaction the
// record commits or rolls back with it.
func (s *auditService) Append(ctx context.Context, tenantID string, actor string, action domain.AuditAction, entityType domain.AuditEntityType, entityID string, details string) (*domain.AuditRecord, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit action %q", apperrors.ErrValidation, action)
	}
	if !entityType.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit entity type %q", apperrors.ErrValidation, entityType)
	}

	var record domain.AuditRecord
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		tail, err := s.auditRepo.FindTailForAppend(txCtx, tenantID)
		if err != nil {
			return err
		}

		prevHash := domain.GenesisHash
		var seq int64 = 1
		ts := domain.NormalizeAuditTimestamp(s.Now())
		if tail != nil {
			prevHash = tail.Hash
			seq = tail.SequenceID + 1
			// keep timestamps monotonic along the chain
			if ts.Before(tail.Timestamp) {
				ts = tail.Timestamp
			}
		}

		record = domain.AuditRecord{
			TenantID:     tenantID,
			SequenceID:   seq,
			Timestamp:    ts,
			Actor:        actor,
			Action:       action,
			EntityType:   entityType,
			EntityID:     entityID,
			Details:      details,
			PreviousHash: prevHash,
		}
		record.Hash = record.RecomputeHash()
		return s.auditRepo.AppendRecord(txCtx, record)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to append audit record",
			slog.String("tenant_id", tenantID),
			slog.String("entity_type", string(entityType)),
			slog.String("entity_id", entityID))
		return nil, err
	}

	s.LogDebug(ctx, "Audit record appended",
		slog.String("tenant_id", tenantID),
		slog.Int64("sequence_id", record.SequenceID),
		slog.String("action", string(action)))
	return &record, nil
}

// ListRecords returns the records of a range of the chain.
func (s *auditService) ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateRange(fromSeq, toSeq); err != nil {
		return nil, err
	}
	if fromSeq == 0 {
		fromSeq = 1
	}
	records, err := s.auditRepo.ListRecords(ctx, tenantID, fromSeq, toSeq)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return records, nil
}

// Verify recomputes every hash in the range and checks each link to its predecessor.
// It never writes.
func (s *auditService) Verify(ctx context.Context, tenantID string, fromSeq, toSeq int64) (*domain.VerifyReport, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateRange(fromSeq, toSeq); err != nil {
		return nil, err
	}
	if fromSeq == 0 {
		fromSeq = 1
	}

	report := &domain.VerifyReport{TenantID: tenantID, FromSeq: fromSeq, ToSeq: toSeq}
	err := s.txManager.WithinSnapshot(ctx, func(snapCtx context.Context) error {
		anchor := domain.GenesisHash
		if fromSeq > 1 {
			prev, err := s.auditRepo.FindRecordBySequence(snapCtx, tenantID, fromSeq-1)
			switch {
			case err == nil:
				anchor = prev.Hash
			case errors.Is(err, apperrors.ErrNotFound):
				// the predecessor is gone: the first record in range cannot link to anything
				anchor = ""
			default:
				return err
			}
		}

		records, err := s.auditRepo.ListRecords(snapCtx, tenantID, fromSeq, toSeq)
		if err != nil {
			return err
		}
		report.Records, report.Intact = domain.VerifyChain(records, anchor)
		if n := len(records); n > 0 && toSeq == 0 {
			report.ToSeq = records[n-1].SequenceID
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to verify audit chain", slog.String("tenant_id", tenantID))
		return nil, err
	}

	if integrityErr := report.Err(); integrityErr != nil {
		s.GetLogger(ctx).Warn("Audit chain integrity failure",
			slog.String("tenant_id", tenantID),
			slog.Int64("from_seq", report.FromSeq),
			slog.Int64("to_seq", report.ToSeq),
			slog.String("error", integrityErr.Error()))
	} else {
		s.LogDebug(ctx, "Audit chain verified",
			slog.String("tenant_id", tenantID),
			slog.Int("records", len(report.Records)))
	}
	return report, nil
}

func validateRange(fromSeq, toSeq int64) error {
	if fromSeq < 0 || toSeq < 0 {
		return fmt.Errorf("%w: sequence bounds must be positive", apperrors.ErrValidation)
	}
	if toSeq > 0 && fromSeq > toSeq {
		return fmt.Errorf("%w: from %d is after to %d", apperrors.ErrValidation, fromSeq, toSeq)
	}
	return nil
}
