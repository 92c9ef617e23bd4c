package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// AccountRepository keeps the chart of accounts in a Store.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	acc, ok := r.store.read(ctx).accounts[recordKey{tenantID, accountID}]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (r *AccountRepository) FindAccountByNumber(ctx context.Context, tenantID string, number string) (*domain.Account, error) {
	for k, acc := range r.store.read(ctx).accounts {
		if k.tenantID == tenantID && acc.Number == number {
			return &acc, nil
		}
	}
	return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, number)
}

func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	st := r.store.read(ctx)
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := st.accounts[recordKey{tenantID, id}]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for k, acc := range r.store.read(ctx).accounts {
		if k.tenantID == tenantID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Number < accounts[j].Number
	})
	return accounts, nil
}

func (r *AccountRepository) CountChildren(ctx context.Context, tenantID string, accountID string) (int, error) {
	n := 0
	for k, acc := range r.store.read(ctx).accounts {
		if k.tenantID == tenantID && acc.ParentAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.store.write(ctx, func(st *state) error {
		if numberTaken(st, account) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccountNumber, account.Number)
		}
		st.accounts[recordKey{account.TenantID, account.AccountID}] = account
		return nil
	})
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{account.TenantID, account.AccountID}
		if _, ok := st.accounts[key]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
		}
		if numberTaken(st, account) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccountNumber, account.Number)
		}
		st.accounts[key] = account
		return nil
	})
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, tenantID string, accountID string) error {
	return r.store.write(ctx, func(st *state) error {
		key := recordKey{tenantID, accountID}
		if _, ok := st.accounts[key]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		delete(st.accounts, key)
		return nil
	})
}

func numberTaken(st *state, account domain.Account) bool {
	for k, other := range st.accounts {
		if k.tenantID == account.TenantID && other.Number == account.Number && other.AccountID != account.AccountID {
			return true
		}
	}
	return false
}
