package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by position.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries using token-based pagination ordered by date desc.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)

	// CountEntriesByPeriod returns how many entries, of any status, belong to a period.
	CountEntriesByPeriod(ctx context.Context, tenantID string, periodID string) (int, error)

	// CountLinesByAccount returns how many lines, of any status, reference an account.
	CountLinesByAccount(ctx context.Context, tenantID string, accountID string) (int, error)

	// CountLinesByTier returns how many lines reference a tier.
	CountLinesByTier(ctx context.Context, tenantID string, tierID string) (int, error)
}

// JournalTransactionSupport defines locking reads used inside a transaction
type JournalTransactionSupport interface {
	// FindEntryForUpdate reads an entry and holds an exclusive lock on it until the transaction ends.
	FindEntryForUpdate(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists a new entry and its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceEntry overwrites the header of an entry and swaps its whole line set for entry.Lines.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error

	// MarkEntryPosted flips a draft entry to posted.
	MarkEntryPosted(ctx context.Context, tenantID string, entryID string, actor string, now time.Time) error

	// DeleteEntry removes an entry together with its lines.
	DeleteEntry(ctx context.Context, tenantID string, entryID string) error
}

// BalanceReader defines the aggregation queries used by the balance service
type BalanceReader interface {
	// SumPostedLines returns debit minus credit over posted lines for each of accountIDs.
	// An empty periodID sums across all periods. Accounts without lines map to zero.
	SumPostedLines(ctx context.Context, tenantID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalTransactionSupport
	JournalWriter
	BalanceReader
}
