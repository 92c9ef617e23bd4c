package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// JournalRepository keeps journal entries and their lines in a Store.
type JournalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

// detach copies the line slice so callers cannot reach stored state.
func detach(e domain.JournalEntry) *domain.JournalEntry {
	e.Lines = slices.Clone(e.Lines)
	if e.PostedAt != nil {
		at := *e.PostedAt
		e.PostedAt = &at
	}
	return &e
}

func (r *JournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	e, ok := r.store.read(ctx).entries[recordKey{tenantID, entryID}]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return detach(e), nil
}

func (r *JournalRepository) FindEntryForUpdate(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, tenantID, entryID)
}

func (r *JournalRepository) ListEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.EntryCursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	matches := make([]domain.JournalEntry, 0)
	for k, e := range r.store.read(ctx).entries {
		if k.tenantID != tenantID {
			continue
		}
		if filter.FiscalPeriodID != "" && e.FiscalPeriodID != filter.FiscalPeriodID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if cursor != nil && !cursor.After(e.Date, e.CreatedAt, e.EntryID) {
			continue
		}
		matches = append(matches, e)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	limit := pagination.NormalizeLimit(filter.Limit)
	var nextToken *string
	if len(matches) > limit {
		matches = matches[:limit]
		last := matches[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt, last.EntryID)
		nextToken = &token
	}

	page := make([]domain.JournalEntry, len(matches))
	for i, e := range matches {
		page[i] = *detach(e)
	}
	return page, nextToken, nil
}

func (r *JournalRepository) CountEntriesByPeriod(ctx context.Context, tenantID string, periodID string) (int, error) {
	n := 0
	for k, e := range r.store.read(ctx).entries {
		if k.tenantID == tenantID && e.FiscalPeriodID == periodID {
			n++
		}
	}
	return n, nil
}

func (r *JournalRepository) CountLinesByAccount(ctx context.Context, tenantID string, accountID string) (int, error) {
	return r.countLines(ctx, tenantID, func(l domain.JournalLine) bool { return l.AccountID == accountID }), nil
}

func (r *JournalRepository) CountLinesByTier(ctx context.Context, tenantID string, tierID string) (int, error) {
	return r.countLines(ctx, tenantID, func(l domain.JournalLine) bool { return l.TierID == tierID }), nil
}

func (r *JournalRepository) countLines(ctx context.Context, tenantID string, match func(domain.JournalLine) bool) int {
	n := 0
	for k, e := range r.store.read(ctx).entries {
		if k.tenantID != tenantID {
			continue
		}
		for _, l := range e.Lines {
			if match(l) {
				n++
			}
		}
	}
	return n
}

func (r *JournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{entry.TenantID, entry.EntryID}
		if _, ok := st.entries[key]; ok {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrConflict, entry.EntryID)
		}
		st.entries[key] = *detach(entry)
		return nil
	})
}

func (r *JournalRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{entry.TenantID, entry.EntryID}
		if _, ok := st.entries[key]; !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
		}
		st.entries[key] = *detach(entry)
		return nil
	})
}

func (r *JournalRepository) MarkEntryPosted(ctx context.Context, tenantID string, entryID string, actor string, now time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, entryID}
		e, ok := st.entries[key]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		if e.Status != domain.Draft {
			return fmt.Errorf("%w: %s", apperrors.ErrEntryNotDraft, entryID)
		}
		e.Status = domain.Posted
		e.PostedAt = &now
		e.PostedBy = actor
		e.Touch(actor, now)
		st.entries[key] = e
		return nil
	})
}

func (r *JournalRepository) DeleteEntry(ctx context.Context, tenantID string, entryID string) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, entryID}
		if _, ok := st.entries[key]; !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		delete(st.entries, key)
		return nil
	})
}

func (r *JournalRepository) SumPostedLines(ctx context.Context, tenantID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(accountIDs))
	for _, id := range accountIDs {
		sums[id] = decimal.Zero
	}
	for k, e := range r.store.read(ctx).entries {
		if k.tenantID != tenantID || e.Status != domain.Posted {
			continue
		}
		if periodID != "" && e.FiscalPeriodID != periodID {
			continue
		}
		for _, l := range e.Lines {
			if sum, ok := sums[l.AccountID]; ok {
				sums[l.AccountID] = sum.Add(l.Net())
			}
		}
	}
	return sums, nil
}
