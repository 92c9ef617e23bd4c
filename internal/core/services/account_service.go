package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
	auditSvc    portssvc.AuditAppenderSvc
	txManager   portsrepo.TransactionManager
	cache       portsrepo.BalanceCache
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountBalanceCache invalidates cached balances whenever the hierarchy changes.
func WithAccountBalanceCache(cache portsrepo.BalanceCache) AccountServiceOption {
	return func(s *accountService) {
		s.cache = cache
	}
}

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(clock func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new AccountService with the given dependencies
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	auditSvc portssvc.AuditAppenderSvc,
	txManager portsrepo.TransactionManager,
	options ...AccountServiceOption,
) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		auditSvc:    auditSvc,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(req.Number)
	if err := requiredField("number", number); err != nil {
		return nil, err
	}
	if err := requiredField("label", req.Label); err != nil {
		return nil, err
	}
	class := domain.AccountClass(req.Class)
	if _, err := domain.ResolveClassification(class); err != nil {
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil {
		parentID = strings.TrimSpace(*req.ParentAccountID)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Number:          number,
		Label:           strings.TrimSpace(req.Label),
		Class:           class,
		IsSummary:       req.IsSummary,
		IsAuxiliary:     req.IsAuxiliary,
		ParentAccountID: parentID,
		AuditFields:     domain.NewAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if parentID != "" {
			if err := s.requireParent(txCtx, tenantID, parentID); err != nil {
				return err
			}
		}
		if err := s.requireFreeNumber(txCtx, tenantID, number, ""); err != nil {
			return err
		}
		if err := s.accountRepo.SaveAccount(txCtx, account); err != nil {
			return err
		}
		_, err := s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionCreate, domain.EntityAccount, account.AccountID,
			fmt.Sprintf("created account %s %q class %d", account.Number, account.Label, account.Class))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create account", slog.String("tenant_id", tenantID), slog.String("number", number))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("tenant_id", tenantID), slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	var updated domain.Account
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(txCtx, tenantID, accountID)
		if err != nil {
			return err
		}
		var changes []string

		if req.Number != nil {
			number := strings.TrimSpace(*req.Number)
			if err := requiredField("number", number); err != nil {
				return err
			}
			if number != account.Number {
				if err := s.requireFreeNumber(txCtx, tenantID, number, accountID); err != nil {
					return err
				}
				changes = append(changes, fmt.Sprintf("number %s -> %s", account.Number, number))
				account.Number = number
			}
		}
		if req.Label != nil {
			label := strings.TrimSpace(*req.Label)
			if err := requiredField("label", label); err != nil {
				return err
			}
			if label != account.Label {
				changes = append(changes, fmt.Sprintf("label %q", label))
				account.Label = label
			}
		}
		if req.Class != nil {
			class := domain.AccountClass(*req.Class)
			if _, err := domain.ResolveClassification(class); err != nil {
				return err
			}
			if class != account.Class {
				changes = append(changes, fmt.Sprintf("class %d -> %d", account.Class, class))
				account.Class = class
			}
		}
		if req.IsSummary != nil && *req.IsSummary != account.IsSummary {
			if *req.IsSummary {
				// an account holding lines cannot start aggregating
				n, err := s.journalRepo.CountLinesByAccount(txCtx, tenantID, accountID)
				if err != nil {
					return err
				}
				if n > 0 {
					return fmt.Errorf("%w: %s has %d lines", apperrors.ErrAccountInUse, account.Number, n)
				}
			} else {
				// only summary accounts may have children
				n, err := s.accountRepo.CountChildren(txCtx, tenantID, accountID)
				if err != nil {
					return err
				}
				if n > 0 {
					return fmt.Errorf("%w: %s has %d children", apperrors.ErrAccountHasChildren, account.Number, n)
				}
			}
			changes = append(changes, fmt.Sprintf("isSummary %t", *req.IsSummary))
			account.IsSummary = *req.IsSummary
		}
		if req.IsAuxiliary != nil && *req.IsAuxiliary != account.IsAuxiliary {
			changes = append(changes, fmt.Sprintf("isAuxiliary %t", *req.IsAuxiliary))
			account.IsAuxiliary = *req.IsAuxiliary
		}
		if req.ParentAccountID != nil {
			parentID := strings.TrimSpace(*req.ParentAccountID)
			if parentID != account.ParentAccountID {
				if parentID != "" {
					if err := s.requireAcyclicParent(txCtx, tenantID, accountID, parentID); err != nil {
						return err
					}
				}
				changes = append(changes, fmt.Sprintf("parent %q -> %q", account.ParentAccountID, parentID))
				account.ParentAccountID = parentID
			}
		}

		if len(changes) == 0 {
			updated = *account
			return nil
		}

		account.Touch(actor, s.Now())
		if err := s.accountRepo.UpdateAccount(txCtx, *account); err != nil {
			return err
		}
		updated = *account
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionUpdate, domain.EntityAccount, accountID,
			fmt.Sprintf("updated account %s: %s", account.Number, strings.Join(changes, ", ")))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update account", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
		return nil, err
	}

	invalidateBalances(ctx, &s.BaseService, s.cache, tenantID)
	s.LogInfo(ctx, "Account updated", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, tenantID string, accountID string, actor string) error {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return err
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(txCtx, tenantID, accountID)
		if err != nil {
			return err
		}
		lines, err := s.journalRepo.CountLinesByAccount(txCtx, tenantID, accountID)
		if err != nil {
			return err
		}
		if lines > 0 {
			return fmt.Errorf("%w: %s has %d lines", apperrors.ErrAccountInUse, account.Number, lines)
		}
		children, err := s.accountRepo.CountChildren(txCtx, tenantID, accountID)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: %s has %d children", apperrors.ErrAccountHasChildren, account.Number, children)
		}
		if err := s.accountRepo.DeleteAccount(txCtx, tenantID, accountID); err != nil {
			return err
		}
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionDelete, domain.EntityAccount, accountID,
			fmt.Sprintf("deleted account %s %q", account.Number, account.Label))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete account", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
		return err
	}

	invalidateBalances(ctx, &s.BaseService, s.cache, tenantID)
	s.LogInfo(ctx, "Account deleted", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
	return nil
}

// SeedStandardChart walks the standard chart in order, so a parent always exists
// before its children are created.
func (s *accountService) SeedStandardChart(ctx context.Context, tenantID string, actor string) ([]domain.Account, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	var created []domain.Account
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		created = nil
		existing, err := s.accountRepo.ListAccounts(txCtx, tenantID)
		if err != nil {
			return err
		}
		byNumber := make(map[string]string, len(existing)+len(domain.StandardChart))
		for _, a := range existing {
			byNumber[a.Number] = a.AccountID
		}

		now := s.Now()
		for _, tmpl := range domain.StandardChart {
			if _, ok := byNumber[tmpl.Number]; ok {
				continue
			}
			account := domain.Account{
				AccountID:   uuid.NewString(),
				TenantID:    tenantID,
				Number:      tmpl.Number,
				Label:       tmpl.Label,
				Class:       tmpl.Class,
				IsSummary:   tmpl.IsSummary,
				IsAuxiliary: tmpl.IsAuxiliary,
				AuditFields: domain.NewAuditFields(actor, now),
			}
			if tmpl.ParentNumber != "" {
				parentID, ok := byNumber[tmpl.ParentNumber]
				if !ok {
					return fmt.Errorf("%w: %s for %s", apperrors.ErrUnknownParent, tmpl.ParentNumber, tmpl.Number)
				}
				account.ParentAccountID = parentID
			}
			if err := s.accountRepo.SaveAccount(txCtx, account); err != nil {
				return err
			}
			if _, err := s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionCreate, domain.EntityAccount, account.AccountID,
				fmt.Sprintf("seeded account %s %q class %d", account.Number, account.Label, account.Class)); err != nil {
				return err
			}
			byNumber[account.Number] = account.AccountID
			created = append(created, account)
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to seed standard chart", slog.String("tenant_id", tenantID))
		return nil, err
	}

	if created == nil {
		created = []domain.Account{}
	}
	s.LogInfo(ctx, "Standard chart seeded", slog.String("tenant_id", tenantID), slog.Int("created", len(created)))
	return created, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogDebug(ctx, "Account retrieved", slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) requireParent(ctx context.Context, tenantID, parentID string) error {
	parent, err := s.accountRepo.FindAccountByID(ctx, tenantID, parentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownParent, parentID)
	}
	if err != nil {
		return err
	}
	if !parent.IsSummary {
		return fmt.Errorf("%w: %s", apperrors.ErrParentNotSummary, parent.Number)
	}
	return nil
}

// requireAcyclicParent walks up from parentID and fails if it reaches accountID
// or if parentID is not a summary account.
func (s *accountService) requireAcyclicParent(ctx context.Context, tenantID, accountID, parentID string) error {
	seen := make(map[string]bool)
	var parent *domain.Account
	for id := parentID; id != ""; {
		if id == accountID {
			return fmt.Errorf("%w: %s is a descendant of %s", apperrors.ErrParentCycle, parentID, accountID)
		}
		if seen[id] {
			return fmt.Errorf("%w: existing cycle through %s", apperrors.ErrParentCycle, id)
		}
		seen[id] = true

		a, err := s.accountRepo.FindAccountByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) && id == parentID {
				return fmt.Errorf("%w: %s", apperrors.ErrUnknownParent, parentID)
			}
			return err
		}
		if id == parentID {
			parent = a
		}
		id = a.ParentAccountID
	}
	if !parent.IsSummary {
		return fmt.Errorf("%w: %s", apperrors.ErrParentNotSummary, parent.Number)
	}
	return nil
}

func (s *accountService) requireFreeNumber(ctx context.Context, tenantID, number, selfID string) error {
	existing, err := s.accountRepo.FindAccountByNumber(ctx, tenantID, number)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.AccountID != selfID:
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccountNumber, number)
	}
	return nil
}
