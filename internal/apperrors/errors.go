package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Validation failures are detected before any write and never leave partial effects.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates the requested operation is illegal given the current state.
var ErrConflict = errors.New("state conflict")

// ErrIntegrity indicates that stored data no longer matches its recorded hash chain.
var ErrIntegrity = errors.New("integrity failure")

// Validation failures.
var (
	ErrUnbalancedEntry         = fmt.Errorf("%w: entry debits and credits do not balance", ErrValidation)
	ErrDuplicateAccountNumber  = fmt.Errorf("%w: account number already exists", ErrValidation)
	ErrPostingToSummaryAccount = fmt.Errorf("%w: summary accounts cannot receive postings", ErrValidation)
	ErrUnknownParent           = fmt.Errorf("%w: parent account does not exist", ErrValidation)
	ErrParentNotSummary        = fmt.Errorf("%w: parent account must be a summary account", ErrValidation)
	ErrUnknownAccount          = fmt.Errorf("%w: account does not exist", ErrValidation)
	ErrUnknownTier             = fmt.Errorf("%w: tier does not exist", ErrValidation)
	ErrDateOutOfPeriod         = fmt.Errorf("%w: date is outside the fiscal period", ErrValidation)
	ErrInvalidLine             = fmt.Errorf("%w: line must have exactly one positive side", ErrValidation)
	ErrTooFewLines             = fmt.Errorf("%w: entry must have at least two lines", ErrValidation)
	ErrInvalidClass            = fmt.Errorf("%w: account class must be between 1 and 7", ErrValidation)
	ErrInvalidPeriodRange      = fmt.Errorf("%w: period start must not be after its end", ErrValidation)
	ErrParentCycle             = fmt.Errorf("%w: account hierarchy would contain a cycle", ErrValidation)
	ErrDuplicateTierCode       = fmt.Errorf("%w: tier code already exists", ErrValidation)
	ErrInvalidJournalCode      = fmt.Errorf("%w: unknown journal code", ErrValidation)
	ErrInvalidTierType         = fmt.Errorf("%w: unknown tier type", ErrValidation)
	ErrMissingTenant           = fmt.Errorf("%w: tenant id is required", ErrValidation)
	ErrMissingActor            = fmt.Errorf("%w: actor is required", ErrValidation)
)

// State-conflict failures.
var (
	ErrEntryNotDraft      = fmt.Errorf("%w: entry is not a draft", ErrConflict)
	ErrPeriodNotOpen      = fmt.Errorf("%w: fiscal period is not open", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("%w: invalid fiscal period status transition", ErrConflict)
	ErrAccountInUse       = fmt.Errorf("%w: account is referenced by journal lines", ErrConflict)
	ErrAccountHasChildren = fmt.Errorf("%w: account has child accounts", ErrConflict)
	ErrOverlappingPeriod  = fmt.Errorf("%w: fiscal period overlaps an existing period", ErrConflict)
	ErrPeriodInUse        = fmt.Errorf("%w: fiscal period contains journal entries", ErrConflict)
	ErrTierInUse          = fmt.Errorf("%w: tier is referenced by journal lines", ErrConflict)
	ErrEntryNotPosted     = fmt.Errorf("%w: only posted entries can be reversed", ErrConflict)
)

// Integrity failures reported by chain verification.
var (
	ErrHashMismatch = fmt.Errorf("%w: record content does not match its hash", ErrIntegrity)
	ErrChainBreak   = fmt.Errorf("%w: record does not link to its predecessor", ErrIntegrity)
)

// AppError wraps an infrastructure failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
