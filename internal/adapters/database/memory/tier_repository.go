package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// TierRepository keeps third parties in a Store.
type TierRepository struct {
	store *Store
}

var _ portsrepo.TierRepositoryFacade = (*TierRepository)(nil)

func (r *TierRepository) FindTierByID(ctx context.Context, tenantID string, tierID string) (*domain.Tier, error) {
	t, ok := r.store.read(ctx).tiers[recordKey{tenantID, tierID}]
	if !ok {
		return nil, fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tierID)
	}
	return &t, nil
}

func (r *TierRepository) FindTiersByIDs(ctx context.Context, tenantID string, tierIDs []string) (map[string]domain.Tier, error) {
	st := r.store.read(ctx)
	found := make(map[string]domain.Tier, len(tierIDs))
	for _, id := range tierIDs {
		if t, ok := st.tiers[recordKey{tenantID, id}]; ok {
			found[id] = t
		}
	}
	return found, nil
}

func (r *TierRepository) ListTiers(ctx context.Context, tenantID string, tierType domain.TierType) ([]domain.Tier, error) {
	tiers := make([]domain.Tier, 0)
	for k, t := range r.store.read(ctx).tiers {
		if k.tenantID == tenantID && t.Type.Matches(tierType) {
			tiers = append(tiers, t)
		}
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Code < tiers[j].Code
	})
	return tiers, nil
}

func (r *TierRepository) SaveTier(ctx context.Context, tier domain.Tier) error {
	return r.store.write(ctx, func(st *state) error {
		if codeTaken(st, tier) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTierCode, tier.Code)
		}
		st.tiers[recordKey{tier.TenantID, tier.TierID}] = tier
		return nil
	})
}

func (r *TierRepository) UpdateTier(ctx context.Context, tier domain.Tier) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tier.TenantID, tier.TierID}
		if _, ok := st.tiers[key]; !ok {
			return fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tier.TierID)
		}
		if codeTaken(st, tier) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTierCode, tier.Code)
		}
		st.tiers[key] = tier
		return nil
	})
}

func (r *TierRepository) DeleteTier(ctx context.Context, tenantID string, tierID string) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, tierID}
		if _, ok := st.tiers[key]; !ok {
			return fmt.Errorf("%w: tier %s", apperrors.ErrNotFound, tierID)
		}
		delete(st.tiers, key)
		return nil
	})
}

func codeTaken(st *state, tier domain.Tier) bool {
	for k, other := range st.tiers {
		if k.tenantID == tier.TenantID && other.Code == tier.Code && other.TierID != tier.TierID {
			return true
		}
	}
	return false
}
