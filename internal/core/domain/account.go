package domain

import (
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// AccountClass is the national chart-of-accounts class (1 to 7) an account belongs to.
type AccountClass int

const (
	ClassEquity      AccountClass = 1 // Capitaux propres
	ClassFixedAssets AccountClass = 2 // Immobilisations
	ClassInventory   AccountClass = 3 // Stocks
	ClassThirdParty  AccountClass = 4 // Tiers
	ClassFinancial   AccountClass = 5 // Comptes financiers
	ClassExpenses    AccountClass = 6 // Charges
	ClassRevenue     AccountClass = 7 // Produits
)

// Classification tells which financial statement an account class reports on.
type Classification string

const (
	BalanceSheet    Classification = "BALANCE_SHEET"
	IncomeStatement Classification = "INCOME_STATEMENT"
)

// ResolveClassification maps classes 1-5 to the balance sheet and 6-7 to the income statement.
func ResolveClassification(class AccountClass) (Classification, error) {
	switch class {
	case ClassEquity, ClassFixedAssets, ClassInventory, ClassThirdParty, ClassFinancial:
		return BalanceSheet, nil
	case ClassExpenses, ClassRevenue:
		return IncomeStatement, nil
	default:
		return "", fmt.Errorf("%w: got %d", apperrors.ErrInvalidClass, class)
	}
}

// IsValid reports whether the class is one of the seven standard classes.
func (c AccountClass) IsValid() bool {
	_, err := ResolveClassification(c)
	return err == nil
}

// Account represents an entry of a tenant's chart of accounts.
type Account struct {
	AccountID       string       `json:"accountID"`
	TenantID        string       `json:"tenantID"`
	Number          string       `json:"number"` // Unique within a tenant, e.g. "512"
	Label           string       `json:"label"`
	Class           AccountClass `json:"class"`
	IsSummary       bool         `json:"isSummary"`       // Aggregates children, never posted to
	IsAuxiliary     bool         `json:"isAuxiliary"`     // Sub-ledger account tied to a third party
	ParentAccountID string       `json:"parentAccountID"` // Empty when the account is a root
	AuditFields
}

// Classification returns the statement the account reports on.
func (a Account) Classification() (Classification, error) {
	return ResolveClassification(a.Class)
}

// HasParent reports whether the account sits below another account.
func (a Account) HasParent() bool {
	return a.ParentAccountID != ""
}
