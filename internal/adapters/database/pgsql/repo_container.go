package pgsql

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates a RepositoryProvider whose repositories share one pool
// and join the transactions started by the returned TxManager.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(pool),
		PeriodRepo:  newPgxFiscalPeriodRepository(pool),
		TierRepo:    newPgxTierRepository(pool),
		JournalRepo: newPgxJournalRepository(pool),
		AuditRepo:   newPgxAuditRepository(pool),
		TxManager:   newPgxTxManager(pool),
	}
}
