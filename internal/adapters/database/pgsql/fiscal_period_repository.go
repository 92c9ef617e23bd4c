package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, tenant_id, label, year, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxFiscalPeriodRepository implements the fiscal period repository on PostgreSQL.
type PgxFiscalPeriodRepository struct {
	BaseRepository
}

func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) *PgxFiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.TenantID,
		&m.Label,
		&m.Year,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.FiscalPeriod{}, err
	}
	return mapping.ToDomainFiscalPeriod(m), nil
}

func (r *PgxFiscalPeriodRepository) findPeriod(ctx context.Context, tenantID, periodID, suffix string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE tenant_id = $1 AND period_id = $2 ` + suffix + `;`
	p, err := scanPeriod(r.q(ctx).QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		return nil, mapError(err, "find fiscal period "+periodID)
	}
	return &p, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	return r.findPeriod(ctx, tenantID, periodID, "")
}

// FindPeriodForShare blocks lock and close of the period until the caller's transaction ends.
func (r *PgxFiscalPeriodRepository) FindPeriodForShare(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	return r.findPeriod(ctx, tenantID, periodID, "FOR SHARE")
}

func (r *PgxFiscalPeriodRepository) FindPeriodForUpdate(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	return r.findPeriod(ctx, tenantID, periodID, "FOR UPDATE")
}

func (r *PgxFiscalPeriodRepository) queryPeriods(ctx context.Context, op string, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, mapError(err, op)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE tenant_id = $1 ORDER BY start_date;`
	return r.queryPeriods(ctx, "list fiscal periods", query, tenantID)
}

func (r *PgxFiscalPeriodRepository) FindOverlappingPeriods(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;
	`
	return r.queryPeriods(ctx, "find overlapping fiscal periods", query, tenantID, domain.CivilDate(start), domain.CivilDate(end))
}

// SavePeriod inserts the period unless it overlaps another one of the tenant. Creations
// are serialized per tenant by a transaction-scoped advisory lock so two concurrent
// inserts cannot both miss each other.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	return r.withTx(ctx, func(ctx context.Context) error {
		if _, err := r.q(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('periods:' || $1));`, m.TenantID); err != nil {
			return mapError(err, "lock fiscal periods")
		}

		query := `
			INSERT INTO fiscal_periods (` + periodColumns + `)
			SELECT $1::text, $2::text, $3::text, $4::int, $5::date, $6::date, $7::text,
				$8::timestamptz, $9::text, $10::timestamptz, $11::text
			WHERE NOT EXISTS (
				SELECT 1 FROM fiscal_periods
				WHERE tenant_id = $2::text AND start_date <= $6::date AND end_date >= $5::date
			);
		`
		tag, err := r.q(ctx).Exec(ctx, query,
			m.PeriodID,
			m.TenantID,
			m.Label,
			m.Year,
			m.StartDate,
			m.EndDate,
			m.Status,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "insert fiscal period "+period.Label)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrOverlappingPeriod
		}
		return nil
	})
}

func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, tenantID string, periodID string, status domain.PeriodStatus, actor string, now time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND period_id = $2;
	`
	tag, err := r.q(ctx).Exec(ctx, query, tenantID, periodID, string(status), now, actor)
	if err != nil {
		return mapError(err, "update fiscal period status "+periodID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("fiscal period", periodID)
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) DeletePeriod(ctx context.Context, tenantID string, periodID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM fiscal_periods WHERE tenant_id = $1 AND period_id = $2;`, tenantID, periodID)
	if err != nil {
		return mapDeleteError(err, "delete fiscal period "+periodID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("fiscal period", periodID)
	}
	return nil
}
