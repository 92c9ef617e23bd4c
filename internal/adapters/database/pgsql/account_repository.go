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

const accountColumns = `account_id, tenant_id, number, label, class, is_summary, is_auxiliary, parent_account_id,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements the account repository on PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Number,
		&m.Label,
		&m.Class,
		&m.IsSummary,
		&m.IsAuxiliary,
		&m.ParentAccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, op string, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, op)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = $2;`
	acc, err := scanAccount(r.q(ctx).QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		return nil, mapError(err, "find account "+accountID)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, tenantID string, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND number = $2;`
	acc, err := scanAccount(r.q(ctx).QueryRow(ctx, query, tenantID, number))
	if err != nil {
		return nil, mapError(err, "find account number "+number)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return found, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = ANY($2::text[]);`
	accounts, err := r.queryAccounts(ctx, "find accounts by ids", query, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		found[acc.AccountID] = acc
	}
	return found, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 ORDER BY number;`
	return r.queryAccounts(ctx, "list accounts", query, tenantID)
}

func (r *PgxAccountRepository) CountChildren(ctx context.Context, tenantID string, accountID string) (int, error) {
	var n int
	err := r.q(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE tenant_id = $1 AND parent_account_id = $2;`,
		tenantID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, mapError(err, "count child accounts")
	}
	return n, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.q(ctx).Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Number,
		m.Label,
		m.Class,
		m.IsSummary,
		m.IsAuxiliary,
		m.ParentAccountID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "insert account "+account.Number)
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET number = $3, label = $4, class = $5, is_summary = $6, is_auxiliary = $7,
			parent_account_id = $8, last_updated_at = $9, last_updated_by = $10
		WHERE tenant_id = $1 AND account_id = $2;
	`
	tag, err := r.q(ctx).Exec(ctx, query,
		m.TenantID,
		m.AccountID,
		m.Number,
		m.Label,
		m.Class,
		m.IsSummary,
		m.IsAuxiliary,
		m.ParentAccountID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update account "+account.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("account", account.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, tenantID string, accountID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM accounts WHERE tenant_id = $1 AND account_id = $2;`, tenantID, accountID)
	if err != nil {
		return mapDeleteError(err, "delete account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("account", accountID)
	}
	return nil
}
