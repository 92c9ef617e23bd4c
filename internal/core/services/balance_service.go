package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService projects posted lines into account balances. It never writes to the store.
type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.BalanceReader
	txManager   portsrepo.TransactionManager
	cache       portsrepo.BalanceCache
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// WithBalanceCache serves repeated reads from cache until the next post.
func WithBalanceCache(cache portsrepo.BalanceCache) BalanceServiceOption {
	return func(s *balanceService) {
		s.cache = cache
	}
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(
	accountRepo portsrepo.AccountReader,
	journalRepo portsrepo.BalanceReader,
	txManager portsrepo.TransactionManager,
	options ...BalanceServiceOption,
) portssvc.BalanceSvcFacade {
	svc := &balanceService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *balanceService) AccountBalance(ctx context.Context, tenantID string, accountID string, periodID string) (decimal.Decimal, error) {
	if err := requireTenant(tenantID); err != nil {
		return decimal.Zero, err
	}

	// the generation is read before the snapshot opens so a fill can never outlive an invalidation
	gen, cached := s.generation(ctx, tenantID)
	if cached {
		if bal, ok, err := s.cache.GetBalance(ctx, tenantID, gen, accountID, periodID); err != nil {
			s.GetLogger(ctx).Warn("Balance cache read failed", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		} else if ok {
			s.LogDebug(ctx, "Balance served from cache", slog.String("account_id", accountID))
			return bal, nil
		}
	}

	var balance decimal.Decimal
	err := s.txManager.WithinSnapshot(ctx, func(snapCtx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(snapCtx, tenantID, accountID)
		if err != nil {
			return err
		}
		if !account.IsSummary {
			sums, err := s.journalRepo.SumPostedLines(snapCtx, tenantID, []string{accountID}, periodID)
			if err != nil {
				return err
			}
			balance = sums[accountID]
			return nil
		}

		accounts, err := s.accountRepo.ListAccounts(snapCtx, tenantID)
		if err != nil {
			return err
		}
		children := childrenByParent(accounts)
		leaves := contributingAccounts(accountID, children)
		sums, err := s.journalRepo.SumPostedLines(snapCtx, tenantID, leaves, periodID)
		if err != nil {
			return err
		}
		balance = sumOf(sums, leaves)
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to compute account balance",
			slog.String("tenant_id", tenantID),
			slog.String("account_id", accountID),
			slog.String("period_id", periodID))
		return decimal.Zero, err
	}

	if cached {
		if err := s.cache.SetBalance(ctx, tenantID, gen, accountID, periodID, balance); err != nil {
			s.GetLogger(ctx).Warn("Balance cache write failed", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		}
	}
	return balance, nil
}

func (s *balanceService) AccountBalances(ctx context.Context, tenantID string, periodID string) (map[string]decimal.Decimal, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	var balances map[string]decimal.Decimal
	err := s.txManager.WithinSnapshot(ctx, func(snapCtx context.Context) error {
		accounts, err := s.accountRepo.ListAccounts(snapCtx, tenantID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(accounts))
		for _, a := range accounts {
			if !a.IsSummary {
				ids = append(ids, a.AccountID)
			}
		}
		sums, err := s.journalRepo.SumPostedLines(snapCtx, tenantID, ids, periodID)
		if err != nil {
			return err
		}

		children := childrenByParent(accounts)
		balances = make(map[string]decimal.Decimal, len(accounts))
		for _, a := range accounts {
			if !a.IsSummary {
				balances[a.AccountID] = sums[a.AccountID]
				continue
			}
			balances[a.AccountID] = sumOf(sums, contributingAccounts(a.AccountID, children))
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to compute balances", slog.String("tenant_id", tenantID), slog.String("period_id", periodID))
		return nil, err
	}
	return balances, nil
}

func (s *balanceService) generation(ctx context.Context, tenantID string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, tenantID)
	if err != nil {
		s.GetLogger(ctx).Warn("Balance cache unavailable", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
		return 0, false
	}
	return gen, true
}

func childrenByParent(accounts []domain.Account) map[string][]domain.Account {
	children := make(map[string][]domain.Account)
	for _, a := range accounts {
		if a.HasParent() {
			children[a.ParentAccountID] = append(children[a.ParentAccountID], a)
		}
	}
	return children
}

// contributingAccounts returns the non-summary accounts whose lines make up the balance of
// the summary account rootID. Summary children are expanded; other children count only
// their own lines.
func contributingAccounts(rootID string, children map[string][]domain.Account) []string {
	var ids []string
	visited := map[string]bool{rootID: true}
	var walk func(id string)
	walk = func(id string) {
		for _, child := range children[id] {
			if visited[child.AccountID] {
				continue
			}
			visited[child.AccountID] = true
			if child.IsSummary {
				walk(child.AccountID)
				continue
			}
			ids = append(ids, child.AccountID)
		}
	}
	walk(rootID)
	return ids
}

func sumOf(sums map[string]decimal.Decimal, ids []string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(sums[id])
	}
	return total
}

// invalidateBalances runs after commit; a failure leaves entries to expire on their TTL.
func invalidateBalances(ctx context.Context, base *BaseService, cache portsrepo.BalanceCache, tenantID string) {
	if cache == nil {
		return
	}
	err := cache.InvalidateTenant(ctx, tenantID)
	if err == nil {
		return
	}
	// one retry; a stale cache otherwise lives until its TTL
	base.GetLogger(ctx).Warn("Balance cache invalidation failed, retrying", slog.String("tenant_id", tenantID), slog.String("error", err.Error()))
	if err := cache.InvalidateTenant(ctx, tenantID); err != nil {
		base.LogError(ctx, err, "Failed to invalidate balance cache", slog.String("tenant_id", tenantID))
	}
}
