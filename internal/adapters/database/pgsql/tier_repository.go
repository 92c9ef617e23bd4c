package pgsql

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tierColumns = `tier_id, tenant_id, code, name, type, nif, nis, rc, ai, phone, email, address,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxTierRepository implements the tier repository on PostgreSQL.
type PgxTierRepository struct {
	BaseRepository
}

func newPgxTierRepository(pool *pgxpool.Pool) *PgxTierRepository {
	return &PgxTierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TierRepositoryFacade = (*PgxTierRepository)(nil)

func scanTier(row pgx.Row) (domain.Tier, error) {
	var m models.Tier
	err := row.Scan(
		&m.TierID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.Type,
		&m.NIF,
		&m.NIS,
		&m.RC,
		&m.AI,
		&m.Phone,
		&m.Email,
		&m.Address,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Tier{}, err
	}
	return mapping.ToDomainTier(m), nil
}

func (r *PgxTierRepository) queryTiers(ctx context.Context, op string, query string, args ...any) ([]domain.Tier, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	tiers := []domain.Tier{}
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, mapError(err, op)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return tiers, nil
}

func (r *PgxTierRepository) FindTierByID(ctx context.Context, tenantID string, tierID string) (*domain.Tier, error) {
	query := `SELECT ` + tierColumns + ` FROM tiers WHERE tenant_id = $1 AND tier_id = $2;`
	t, err := scanTier(r.q(ctx).QueryRow(ctx, query, tenantID, tierID))
	if err != nil {
		return nil, mapError(err, "find tier "+tierID)
	}
	return &t, nil
}

func (r *PgxTierRepository) FindTiersByIDs(ctx context.Context, tenantID string, tierIDs []string) (map[string]domain.Tier, error) {
	found := make(map[string]domain.Tier, len(tierIDs))
	if len(tierIDs) == 0 {
		return found, nil
	}
	query := `SELECT ` + tierColumns + ` FROM tiers WHERE tenant_id = $1 AND tier_id = ANY($2::text[]);`
	tiers, err := r.queryTiers(ctx, "find tiers by ids", query, tenantID, tierIDs)
	if err != nil {
		return nil, err
	}
	for _, t := range tiers {
		found[t.TierID] = t
	}
	return found, nil
}

// ListTiers filters like domain.TierType.Matches: BOTH tiers appear under either filter.
func (r *PgxTierRepository) ListTiers(ctx context.Context, tenantID string, tierType domain.TierType) ([]domain.Tier, error) {
	if tierType == "" || tierType == domain.TierBoth {
		query := `SELECT ` + tierColumns + ` FROM tiers WHERE tenant_id = $1 ORDER BY code;`
		return r.queryTiers(ctx, "list tiers", query, tenantID)
	}
	query := `SELECT ` + tierColumns + ` FROM tiers WHERE tenant_id = $1 AND type IN ($2, $3) ORDER BY code;`
	return r.queryTiers(ctx, "list tiers", query, tenantID, string(tierType), string(domain.TierBoth))
}

func (r *PgxTierRepository) SaveTier(ctx context.Context, tier domain.Tier) error {
	m := mapping.ToModelTier(tier)
	query := `
		INSERT INTO tiers (` + tierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.q(ctx).Exec(ctx, query,
		m.TierID,
		m.TenantID,
		m.Code,
		m.Name,
		m.Type,
		m.NIF,
		m.NIS,
		m.RC,
		m.AI,
		m.Phone,
		m.Email,
		m.Address,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "insert tier "+tier.Code)
}

func (r *PgxTierRepository) UpdateTier(ctx context.Context, tier domain.Tier) error {
	m := mapping.ToModelTier(tier)
	query := `
		UPDATE tiers
		SET code = $3, name = $4, type = $5, nif = $6, nis = $7, rc = $8, ai = $9,
			phone = $10, email = $11, address = $12, last_updated_at = $13, last_updated_by = $14
		WHERE tenant_id = $1 AND tier_id = $2;
	`
	tag, err := r.q(ctx).Exec(ctx, query,
		m.TenantID,
		m.TierID,
		m.Code,
		m.Name,
		m.Type,
		m.NIF,
		m.NIS,
		m.RC,
		m.AI,
		m.Phone,
		m.Email,
		m.Address,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update tier "+tier.TierID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("tier", tier.TierID)
	}
	return nil
}

func (r *PgxTierRepository) DeleteTier(ctx context.Context, tenantID string, tierID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM tiers WHERE tenant_id = $1 AND tier_id = $2;`, tenantID, tierID)
	if err != nil {
		return mapDeleteError(err, "delete tier "+tierID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("tier", tierID)
	}
	return nil
}
