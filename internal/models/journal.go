package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table. Lines are loaded separately.
type JournalEntry struct {
	EntryID           string     `db:"entry_id"`
	TenantID          string     `db:"tenant_id"`
	FiscalPeriodID    string     `db:"fiscal_period_id"`
	EntryDate         time.Time  `db:"entry_date"`
	JournalCode       string     `db:"journal_code"`
	Reference         string     `db:"reference"`
	Description       string     `db:"description"`
	Status            string     `db:"status"`
	ReversalOfEntryID *string    `db:"reversal_of_entry_id"` // Nullable
	PostedAt          *time.Time `db:"posted_at"`            // Nullable
	PostedBy          *string    `db:"posted_by"`            // Nullable
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	TenantID  string          `db:"tenant_id"`
	Position  int32           `db:"position"`
	AccountID string          `db:"account_id"`
	TierID    *string         `db:"tier_id"` // Nullable
	Label     string          `db:"label"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
}
