package accounting

import (
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference still considered balanced (exclusive).
var BalanceTolerance = decimal.RequireFromString("0.01")

// MinLines is the fewest lines a journal entry may carry.
const MinLines = 2

// IsBalanced reports whether |debit - credit| < BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThan(BalanceTolerance)
}

// ValidateEntryLines checks the structural rules every journal entry must satisfy:
// at least two lines, exactly one positive side per line, and balanced totals.
// It does not look at accounts or periods.
func ValidateEntryLines(lines []domain.JournalLine) error {
	if len(lines) < MinLines {
		return fmt.Errorf("%w: got %d", apperrors.ErrTooFewLines, len(lines))
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	if !IsBalanced(debit, credit) {
		return fmt.Errorf("%w: debit %s, credit %s", apperrors.ErrUnbalancedEntry, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// ReverseLines returns copies of lines with debit and credit swapped, positions kept.
// Line and entry ids are cleared.
func ReverseLines(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalLine{
			Position:  l.Position,
			AccountID: l.AccountID,
			TierID:    l.TierID,
			Label:     l.Label,
			Debit:     l.Credit,
			Credit:    l.Debit,
		}
	}
	return out
}
