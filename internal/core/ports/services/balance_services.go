package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceSvcFacade is the read-side projection over posted lines.
type BalanceSvcFacade interface {
	// AccountBalance returns debit minus credit of posted lines, optionally scoped to a period.
	// Summary accounts return the recursive sum of their descendants.
	AccountBalance(ctx context.Context, tenantID string, accountID string, periodID string) (decimal.Decimal, error)

	// AccountBalances returns the balance of every account of the tenant, keyed by account id.
	AccountBalances(ctx context.Context, tenantID string, periodID string) (map[string]decimal.Decimal, error)
}
