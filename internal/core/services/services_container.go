package services

import (
	"time"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

type containerOptions struct {
	cache portsrepo.BalanceCache
	clock func() time.Time
}

// ContainerOption configures NewServiceContainer.
type ContainerOption func(*containerOptions)

// WithContainerBalanceCache wires a balance cache into the balance, journal and account services.
func WithContainerBalanceCache(cache portsrepo.BalanceCache) ContainerOption {
	return func(o *containerOptions) {
		o.cache = cache
	}
}

// WithContainerClock sets the clock of every service.
func WithContainerClock(clock func() time.Time) ContainerOption {
	return func(o *containerOptions) {
		o.clock = clock
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	opts := containerOptions{}
	for _, option := range options {
		option(&opts)
	}

	// journal and period services must agree on the period locks
	locks := NewLockRegistry()

	container := &portssvc.ServiceContainer{}

	auditSvc := &auditService{auditRepo: repos.AuditRepo, txManager: repos.TxManager}
	auditSvc.Clock = opts.clock
	container.Audit = auditSvc

	periodSvc := &fiscalPeriodService{
		periodRepo:  repos.PeriodRepo,
		journalRepo: repos.JournalRepo,
		auditSvc:    auditSvc,
		txManager:   repos.TxManager,
		locks:       locks,
	}
	periodSvc.Clock = opts.clock
	container.FiscalPeriod = periodSvc

	accountOpts := []AccountServiceOption{WithAccountClock(opts.clock)}
	journalOpts := []JournalServiceOption{WithJournalLocks(locks), WithJournalClock(opts.clock)}
	var balanceOpts []BalanceServiceOption
	if opts.cache != nil {
		accountOpts = append(accountOpts, WithAccountBalanceCache(opts.cache))
		journalOpts = append(journalOpts, WithJournalBalanceCache(opts.cache))
		balanceOpts = append(balanceOpts, WithBalanceCache(opts.cache))
	}

	container.Account = NewAccountService(repos.AccountRepo, repos.JournalRepo, auditSvc, repos.TxManager, accountOpts...)
	container.Tier = NewTierService(repos.TierRepo, repos.JournalRepo, auditSvc, repos.TxManager, WithTierClock(opts.clock))
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.TierRepo, periodSvc, auditSvc, repos.TxManager, journalOpts...)
	container.Balance = NewBalanceService(repos.AccountRepo, repos.JournalRepo, repos.TxManager, balanceOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.TierSvcFacade         = (*tierService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
	_ portssvc.BalanceSvcFacade      = (*balanceService)(nil)
	_ portssvc.AuditSvcFacade        = (*auditService)(nil)
	_ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)
)
