package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/mapping"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, tenant_id, fiscal_period_id, entry_date, journal_code, reference, description,
	status, reversal_of_entry_id, posted_at, posted_by, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, tenant_id, position, account_id, tier_id, label, debit, credit`

const insertLineQuery = `
	INSERT INTO journal_lines (` + lineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// PgxJournalRepository implements the journal repository on PostgreSQL.
// Entry headers live in journal_entries, their lines in journal_lines.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.FiscalPeriodID,
		&m.EntryDate,
		&m.JournalCode,
		&m.Reference,
		&m.Description,
		&m.Status,
		&m.ReversalOfEntryID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// linesByEntry loads the lines of every entry in entryIDs ordered by position.
func (r *PgxJournalRepository) linesByEntry(ctx context.Context, tenantID string, entryIDs []string) (map[string][]models.JournalLine, error) {
	lines := make(map[string][]models.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return lines, nil
	}
	query := `
		SELECT ` + lineColumns + ` FROM journal_lines
		WHERE tenant_id = $1 AND entry_id = ANY($2::text[])
		ORDER BY entry_id, position;
	`
	rows, err := r.q(ctx).Query(ctx, query, tenantID, entryIDs)
	if err != nil {
		return nil, mapError(err, "query journal lines")
	}
	defer rows.Close()

	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.TenantID,
			&l.Position,
			&l.AccountID,
			&l.TierID,
			&l.Label,
			&l.Debit,
			&l.Credit,
		); err != nil {
			return nil, mapError(err, "scan journal line")
		}
		lines[l.EntryID] = append(lines[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate journal lines")
	}
	return lines, nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, tenantID, entryID, suffix string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2 ` + suffix + `;`
	m, err := scanEntry(r.q(ctx).QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		return nil, mapError(err, "find journal entry "+entryID)
	}
	lines, err := r.linesByEntry(ctx, tenantID, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[entryID])
	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, "")
}

// FindEntryForUpdate locks the header row; lines are only ever written by the holder of that lock.
func (r *PgxJournalRepository) FindEntryForUpdate(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, "FOR UPDATE")
}

// ListEntries pages by (entry_date, created_at, entry_id) descending. One extra row is
// fetched to decide whether a next page exists.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	args := []any{tenantID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`

	if filter.FiscalPeriodID != "" {
		args = append(args, filter.FiscalPeriodID)
		query += fmt.Sprintf(" AND fiscal_period_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		query += fmt.Sprintf(" AND (entry_date, created_at, entry_id) < ($%d::date, $%d::timestamptz, $%d::text)", n-2, n-1, n)
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $%d;", len(args))

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list journal entries")
	}
	headers := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, mapError(err, "scan journal entry")
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate journal entries")
	}

	var nextToken *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeToken(domain.CivilDate(last.EntryDate), last.CreatedAt.UTC(), last.EntryID)
		nextToken = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.linesByEntry(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, nextToken, nil
}

func (r *PgxJournalRepository) count(ctx context.Context, op string, query string, args ...any) (int, error) {
	var n int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err, op)
	}
	return n, nil
}

func (r *PgxJournalRepository) CountEntriesByPeriod(ctx context.Context, tenantID string, periodID string) (int, error) {
	return r.count(ctx, "count entries by period",
		`SELECT COUNT(*) FROM journal_entries WHERE tenant_id = $1 AND fiscal_period_id = $2;`, tenantID, periodID)
}

func (r *PgxJournalRepository) CountLinesByAccount(ctx context.Context, tenantID string, accountID string) (int, error) {
	return r.count(ctx, "count lines by account",
		`SELECT COUNT(*) FROM journal_lines WHERE tenant_id = $1 AND account_id = $2;`, tenantID, accountID)
}

func (r *PgxJournalRepository) CountLinesByTier(ctx context.Context, tenantID string, tierID string) (int, error) {
	return r.count(ctx, "count lines by tier",
		`SELECT COUNT(*) FROM journal_lines WHERE tenant_id = $1 AND tier_id = $2;`, tenantID, tierID)
}

// insertLines queues every line in one batch on the current transaction.
func (r *PgxJournalRepository) insertLines(ctx context.Context, lines []models.JournalLine) error {
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(insertLineQuery,
			l.LineID,
			l.EntryID,
			l.TenantID,
			l.Position,
			l.AccountID,
			l.TierID,
			l.Label,
			l.Debit,
			l.Credit,
		)
	}
	br := r.q(ctx).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapError(err, "insert journal lines")
	}
	return nil
}

func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m, lines := mapping.ToModelJournalEntry(entry)
	return r.withTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO journal_entries (` + entryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		_, err := r.q(ctx).Exec(ctx, query,
			m.EntryID,
			m.TenantID,
			m.FiscalPeriodID,
			m.EntryDate,
			m.JournalCode,
			m.Reference,
			m.Description,
			m.Status,
			m.ReversalOfEntryID,
			m.PostedAt,
			m.PostedBy,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "insert journal entry "+entry.EntryID)
		}
		return r.insertLines(ctx, lines)
	})
}

func (r *PgxJournalRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error {
	m, lines := mapping.ToModelJournalEntry(entry)
	return r.withTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE journal_entries
			SET fiscal_period_id = $3, entry_date = $4, journal_code = $5, reference = $6,
				description = $7, last_updated_at = $8, last_updated_by = $9
			WHERE tenant_id = $1 AND entry_id = $2;
		`
		tag, err := r.q(ctx).Exec(ctx, query,
			m.TenantID,
			m.EntryID,
			m.FiscalPeriodID,
			m.EntryDate,
			m.JournalCode,
			m.Reference,
			m.Description,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "update journal entry "+entry.EntryID)
		}
		if tag.RowsAffected() == 0 {
			return notFound("journal entry", entry.EntryID)
		}

		if _, err := r.q(ctx).Exec(ctx, `DELETE FROM journal_lines WHERE tenant_id = $1 AND entry_id = $2;`, m.TenantID, m.EntryID); err != nil {
			return mapError(err, "delete journal lines of "+entry.EntryID)
		}
		return r.insertLines(ctx, lines)
	})
}

func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, tenantID string, entryID string, actor string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3, posted_at = $5, posted_by = $6, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND entry_id = $2 AND status = $4;
	`
	tag, err := r.q(ctx).Exec(ctx, query, tenantID, entryID, string(domain.Posted), string(domain.Draft), now, actor)
	if err != nil {
		return mapError(err, "post journal entry "+entryID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// nothing matched: tell a missing entry from an already posted one
	n, err := r.count(ctx, "find journal entry "+entryID,
		`SELECT COUNT(*) FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("journal entry", entryID)
	}
	return fmt.Errorf("%w: %s", apperrors.ErrEntryNotDraft, entryID)
}

// DeleteEntry removes the header; lines go with it through ON DELETE CASCADE.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, tenantID string, entryID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID)
	if err != nil {
		return mapDeleteError(err, "delete journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("journal entry", entryID)
	}
	return nil
}

func (r *PgxJournalRepository) SumPostedLines(ctx context.Context, tenantID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(accountIDs))
	for _, id := range accountIDs {
		sums[id] = decimal.Zero
	}
	if len(accountIDs) == 0 {
		return sums, nil
	}

	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.entry_id = l.entry_id
		WHERE l.tenant_id = $1
			AND l.account_id = ANY($2::text[])
			AND e.status = $3
			AND ($4::text = '' OR e.fiscal_period_id = $4::text)
		GROUP BY l.account_id;
	`
	rows, err := r.q(ctx).Query(ctx, query, tenantID, accountIDs, string(domain.Posted), periodID)
	if err != nil {
		return nil, mapError(err, "sum posted lines")
	}
	defer rows.Close()

	for rows.Next() {
		var accountID string
		var sum decimal.Decimal
		if err := rows.Scan(&accountID, &sum); err != nil {
			return nil, mapError(err, "scan posted line sum")
		}
		sums[accountID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate posted line sums")
	}
	return sums, nil
}
