package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// AuditRepository keeps one append-only chain per tenant in a Store.
type AuditRepository struct {
	store *Store
}

var _ portsrepo.AuditRepositoryFacade = (*AuditRepository)(nil)

func (r *AuditRepository) FindTail(ctx context.Context, tenantID string) (*domain.AuditRecord, error) {
	records := r.store.read(ctx).audit[tenantID]
	if len(records) == 0 {
		return nil, nil
	}
	tail := records[len(records)-1]
	return &tail, nil
}

// FindTailForAppend is FindTail: store writers are already serialized.
func (r *AuditRepository) FindTailForAppend(ctx context.Context, tenantID string) (*domain.AuditRecord, error) {
	return r.FindTail(ctx, tenantID)
}

func (r *AuditRepository) FindRecordBySequence(ctx context.Context, tenantID string, sequenceID int64) (*domain.AuditRecord, error) {
	for _, rec := range r.store.read(ctx).audit[tenantID] {
		if rec.SequenceID == sequenceID {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: audit record %d", apperrors.ErrNotFound, sequenceID)
}

func (r *AuditRepository) ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error) {
	out := make([]domain.AuditRecord, 0)
	for _, rec := range r.store.read(ctx).audit[tenantID] {
		if rec.SequenceID < fromSeq {
			continue
		}
		if toSeq > 0 && rec.SequenceID > toSeq {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *AuditRepository) AppendRecord(ctx context.Context, record domain.AuditRecord) error {
	return r.store.write(ctx, func(st *state) error {
		records := st.audit[record.TenantID]
		var next int64 = 1
		if n := len(records); n > 0 {
			next = records[n-1].SequenceID + 1
		}
		if record.SequenceID != next {
			return fmt.Errorf("%w: audit sequence %d, expected %d", apperrors.ErrConflict, record.SequenceID, next)
		}
		st.audit[record.TenantID] = append(records, record)
		return nil
	})
}
