package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceCache stores computed account balances between posts.
//
// Entries are grouped under a per-tenant generation. Readers fetch the generation
// before reading the store and use it for both lookup and fill, so a value computed
// from data older than an invalidation can never be served under the newer generation.
type BalanceCache interface {
	// Generation returns the tenant's current cache generation.
	Generation(ctx context.Context, tenantID string) (int64, error)

	// GetBalance returns the cached value and whether it was present.
	GetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string) (decimal.Decimal, bool, error)

	SetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string, balance decimal.Decimal) error

	// InvalidateTenant moves the tenant to a new generation, orphaning every cached balance.
	InvalidateTenant(ctx context.Context, tenantID string) error
}
