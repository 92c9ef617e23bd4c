package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED" // Terminal
)

// IsValid reports whether s is a known status.
func (s EntryStatus) IsValid() bool {
	switch s {
	case Draft, Posted:
		return true
	default:
		return false
	}
}

// JournalCode tags an entry with the journal it belongs to.
type JournalCode string

const (
	JournalMiscellaneous JournalCode = "OD"
	JournalOpening       JournalCode = "AN"
	JournalSales         JournalCode = "VR"
	JournalPurchases     JournalCode = "AC"
	JournalBank          JournalCode = "BQ"
	JournalCash          JournalCode = "CA"
)

// JournalCodes lists every known journal code.
var JournalCodes = []JournalCode{
	JournalMiscellaneous,
	JournalOpening,
	JournalSales,
	JournalPurchases,
	JournalBank,
	JournalCash,
}

// IsValid reports whether c is a known journal code.
func (c JournalCode) IsValid() bool {
	switch c {
	case JournalMiscellaneous, JournalOpening, JournalSales, JournalPurchases, JournalBank, JournalCash:
		return true
	default:
		return false
	}
}

// JournalLine is a single debit or credit movement owned by a JournalEntry.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	Position  int             `json:"position"` // Display order within the entry
	AccountID string          `json:"accountID"`
	TierID    string          `json:"tierID"` // Empty when the line has no third party
	Label     string          `json:"label"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Validate checks that the line has exactly one strictly positive side and no negative side.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, l.Position)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrInvalidLine, l.Position)
	}
	if l.Debit.IsPositive() == l.Credit.IsPositive() {
		return fmt.Errorf("%w: line %d (debit %s, credit %s)", apperrors.ErrInvalidLine, l.Position, l.Debit, l.Credit)
	}
	return nil
}

// Net returns debit minus credit.
func (l JournalLine) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// JournalEntry is a balanced, multi-line transaction recorded in a fiscal period.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	TenantID          string        `json:"tenantID"`
	FiscalPeriodID    string        `json:"fiscalPeriodID"`
	Date              time.Time     `json:"date"`
	JournalCode       JournalCode   `json:"journalCode"`
	Reference         string        `json:"reference"`
	Description       string        `json:"description"`
	Status            EntryStatus   `json:"status"`
	Lines             []JournalLine `json:"lines"`
	ReversalOfEntryID string        `json:"reversalOfEntryID"` // Set when the entry offsets a posted one
	PostedAt          *time.Time    `json:"postedAt,omitempty"`
	PostedBy          string        `json:"postedBy"`
	AuditFields
}

// IsDraft reports whether the entry may still be modified.
func (e JournalEntry) IsDraft() bool {
	return e.Status == Draft
}

// Totals returns the sums of the debit and credit sides.
func (e JournalEntry) Totals() (debit decimal.Decimal, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// AccountIDs returns the distinct accounts referenced by the entry lines, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// TierIDs returns the distinct tiers referenced by the entry lines.
func (e JournalEntry) TierIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, l := range e.Lines {
		if l.TierID == "" {
			continue
		}
		if _, ok := seen[l.TierID]; ok {
			continue
		}
		seen[l.TierID] = struct{}{}
		ids = append(ids, l.TierID)
	}
	return ids
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	FiscalPeriodID string
	Status         EntryStatus
	Limit          int
	NextToken      *string
}
