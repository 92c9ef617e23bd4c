package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// writeConstraintErrors maps constraints violated by an INSERT or UPDATE of the
// constrained row to the domain error they enforce.
var writeConstraintErrors = map[string]error{
	"accounts_tenant_number_key":     apperrors.ErrDuplicateAccountNumber,
	"tiers_tenant_code_key":          apperrors.ErrDuplicateTierCode,
	"accounts_parent_fkey":           apperrors.ErrUnknownParent,
	"accounts_class_check":           apperrors.ErrInvalidClass,
	"fiscal_periods_start_end_check": apperrors.ErrInvalidPeriodRange,
	"journal_entries_period_fkey":    apperrors.ErrNotFound,
	"journal_entries_reversal_fkey":  apperrors.ErrNotFound,
	"journal_lines_account_fkey":     apperrors.ErrUnknownAccount,
	"journal_lines_tier_fkey":        apperrors.ErrUnknownTier,
	"journal_lines_amounts_check":    apperrors.ErrInvalidLine,
	"audit_records_pkey":             apperrors.ErrConflict,
}

// deleteConstraintErrors maps foreign keys that block deleting a referenced row.
var deleteConstraintErrors = map[string]error{
	"accounts_parent_fkey":        apperrors.ErrAccountHasChildren,
	"journal_lines_account_fkey":  apperrors.ErrAccountInUse,
	"journal_lines_tier_fkey":     apperrors.ErrTierInUse,
	"journal_entries_period_fkey": apperrors.ErrPeriodInUse,
}

// mapError translates driver errors raised while reading or writing a row into
// application errors. Unknown failures are wrapped with the operation name.
func mapError(err error, op string) error {
	return translate(err, op, writeConstraintErrors)
}

// mapDeleteError is mapError for DELETE statements.
func mapDeleteError(err error, op string) error {
	return translate(err, op, deleteConstraintErrors)
}

func translate(err error, op string, constraints map[string]error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraints[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w (%s)", mapped, op)
		}
		switch pgErr.Code {
		case uniqueViolation, foreignKeyViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, op, pgErr.Message)
		case checkViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, op, pgErr.Message)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// notFound is returned when a write matched no row.
func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
}
