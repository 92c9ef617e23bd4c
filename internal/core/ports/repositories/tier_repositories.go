package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// TierReader defines read operations for third parties
type TierReader interface {
	FindTierByID(ctx context.Context, tenantID string, tierID string) (*domain.Tier, error)

	// FindTiersByIDs retrieves multiple tiers by their IDs. Missing ids are absent from the map.
	FindTiersByIDs(ctx context.Context, tenantID string, tierIDs []string) (map[string]domain.Tier, error)

	// ListTiers returns tiers ordered by code. An empty tierType lists all of them.
	ListTiers(ctx context.Context, tenantID string, tierType domain.TierType) ([]domain.Tier, error)
}

// TierWriter defines write operations for third parties
type TierWriter interface {
	// SaveTier persists a new tier. Fails with ErrDuplicateTierCode when the code is taken.
	SaveTier(ctx context.Context, tier domain.Tier) error

	UpdateTier(ctx context.Context, tier domain.Tier) error

	DeleteTier(ctx context.Context, tenantID string, tierID string) error
}

// TierRepositoryFacade combines all tier repository interfaces
type TierRepositoryFacade interface {
	TierReader
	TierWriter
}
