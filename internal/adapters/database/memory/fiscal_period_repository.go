package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// FiscalPeriodRepository keeps fiscal periods in a Store.
// Writers are already serialized by the store, so the locking reads are plain reads.
type FiscalPeriodRepository struct {
	store *Store
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*FiscalPeriodRepository)(nil)

func (r *FiscalPeriodRepository) FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	p, ok := r.store.read(ctx).periods[recordKey{tenantID, periodID}]
	if !ok {
		return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
	}
	return &p, nil
}

func (r *FiscalPeriodRepository) FindPeriodForShare(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	return r.FindPeriodByID(ctx, tenantID, periodID)
}

func (r *FiscalPeriodRepository) FindPeriodForUpdate(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	return r.FindPeriodByID(ctx, tenantID, periodID)
}

func (r *FiscalPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error) {
	periods := make([]domain.FiscalPeriod, 0)
	for k, p := range r.store.read(ctx).periods {
		if k.tenantID == tenantID {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].StartDate.Before(periods[j].StartDate)
	})
	return periods, nil
}

func (r *FiscalPeriodRepository) FindOverlappingPeriods(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	return overlapping(r.store.read(ctx), tenantID, start, end), nil
}

func (r *FiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	return r.store.write(ctx, func(st *state) error {
		if clash := overlapping(st, period.TenantID, period.StartDate, period.EndDate); len(clash) > 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrOverlappingPeriod, clash[0].Label)
		}
		st.periods[recordKey{period.TenantID, period.PeriodID}] = period
		return nil
	})
}

func (r *FiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, tenantID string, periodID string, status domain.PeriodStatus, actor string, now time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, periodID}
		p, ok := st.periods[key]
		if !ok {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
		}
		p.Status = status
		p.Touch(actor, now)
		st.periods[key] = p
		return nil
	})
}

func (r *FiscalPeriodRepository) DeletePeriod(ctx context.Context, tenantID string, periodID string) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, periodID}
		if _, ok := st.periods[key]; !ok {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
		}
		delete(st.periods, key)
		return nil
	})
}

func overlapping(st *state, tenantID string, start, end time.Time) []domain.FiscalPeriod {
	var found []domain.FiscalPeriod
	for k, p := range st.periods {
		if k.tenantID == tenantID && p.Overlaps(start, end) {
			found = append(found, p)
		}
	}
	return found
}
