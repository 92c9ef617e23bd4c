package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditColumns = `tenant_id, sequence_id, recorded_at, actor, action, entity_type, entity_id, details, hash, previous_hash`

var errAppendOutsideTx = apperrors.NewAppError(500, "audit append requires a transaction", errors.New("no transaction in context"))

// PgxAuditRepository stores the audit chains. The table only ever receives INSERTs;
// a trigger rejects UPDATE, DELETE and TRUNCATE.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func scanAuditRecord(row pgx.Row) (domain.AuditRecord, error) {
	var m models.AuditRecord
	err := row.Scan(
		&m.TenantID,
		&m.SequenceID,
		&m.RecordedAt,
		&m.Actor,
		&m.Action,
		&m.EntityType,
		&m.EntityID,
		&m.Details,
		&m.Hash,
		&m.PreviousHash,
	)
	if err != nil {
		return domain.AuditRecord{}, err
	}
	return mapping.ToDomainAuditRecord(m), nil
}

func (r *PgxAuditRepository) findTail(ctx context.Context, tenantID string) (*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records WHERE tenant_id = $1 ORDER BY sequence_id DESC LIMIT 1;`
	rec, err := scanAuditRecord(r.q(ctx).QueryRow(ctx, query, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "find audit tail")
	}
	return &rec, nil
}

func (r *PgxAuditRepository) FindTail(ctx context.Context, tenantID string) (*domain.AuditRecord, error) {
	return r.findTail(ctx, tenantID)
}

// FindTailForAppend takes the tenant's append lock, held until the surrounding
// transaction ends, then reads the tail.
func (r *PgxAuditRepository) FindTailForAppend(ctx context.Context, tenantID string) (*domain.AuditRecord, error) {
	if _, ok := txFromContext(ctx); !ok {
		return nil, errAppendOutsideTx
	}
	if _, err := r.q(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('audit:' || $1));`, tenantID); err != nil {
		return nil, mapError(err, "lock audit chain")
	}
	return r.findTail(ctx, tenantID)
}

func (r *PgxAuditRepository) FindRecordBySequence(ctx context.Context, tenantID string, sequenceID int64) (*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records WHERE tenant_id = $1 AND sequence_id = $2;`
	rec, err := scanAuditRecord(r.q(ctx).QueryRow(ctx, query, tenantID, sequenceID))
	if err != nil {
		return nil, mapError(err, "find audit record")
	}
	return &rec, nil
}

func (r *PgxAuditRepository) ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error) {
	query := `
		SELECT ` + auditColumns + ` FROM audit_records
		WHERE tenant_id = $1 AND sequence_id >= $2 AND ($3::bigint = 0 OR sequence_id <= $3::bigint)
		ORDER BY sequence_id;
	`
	rows, err := r.q(ctx).Query(ctx, query, tenantID, fromSeq, toSeq)
	if err != nil {
		return nil, mapError(err, "list audit records")
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, mapError(err, "scan audit record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate audit records")
	}
	return records, nil
}

func (r *PgxAuditRepository) AppendRecord(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	query := `
		INSERT INTO audit_records (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.q(ctx).Exec(ctx, query,
		m.TenantID,
		m.SequenceID,
		m.RecordedAt,
		m.Actor,
		m.Action,
		m.EntityType,
		m.EntityID,
		m.Details,
		m.Hash,
		m.PreviousHash,
	)
	return mapError(err, "append audit record")
}
