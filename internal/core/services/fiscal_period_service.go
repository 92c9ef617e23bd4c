package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
)

// fiscalPeriodService manages the Open -> Locked -> Closed lifecycle.
type fiscalPeriodService struct {
	BaseService
	periodRepo  portsrepo.FiscalPeriodRepositoryFacade
	journalRepo portsrepo.JournalReader
	auditSvc    portssvc.AuditAppenderSvc
	txManager   portsrepo.TransactionManager
	locks       *LockRegistry
}

// FiscalPeriodServiceOption is a functional option for configuring the fiscal period service
type FiscalPeriodServiceOption func(*fiscalPeriodService)

// WithPeriodLocks shares a lock registry with the journal service.
func WithPeriodLocks(locks *LockRegistry) FiscalPeriodServiceOption {
	return func(s *fiscalPeriodService) {
		s.locks = locks
	}
}

// NewFiscalPeriodService creates a new FiscalPeriodService.
func NewFiscalPeriodService(
	periodRepo portsrepo.FiscalPeriodRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	auditSvc portssvc.AuditAppenderSvc,
	txManager portsrepo.TransactionManager,
	options ...FiscalPeriodServiceOption,
) portssvc.FiscalPeriodSvcFacade {
	svc := &fiscalPeriodService{
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		auditSvc:    auditSvc,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.locks == nil {
		svc.locks = NewLockRegistry()
	}
	return svc
}

func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreateFiscalPeriodRequest, actor string) (*domain.FiscalPeriod, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(req.Label)
	if err := requiredField("label", label); err != nil {
		return nil, err
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, req.EndDate)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", apperrors.ErrInvalidPeriodRange, req.StartDate, req.EndDate)
	}
	year := req.Year
	if year == 0 {
		year = start.Year()
	}

	now := s.Now()
	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		TenantID:    tenantID,
		Label:       label,
		Year:        year,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(actor, now),
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		clash, err := s.periodRepo.FindOverlappingPeriods(txCtx, tenantID, start, end)
		if err != nil {
			return err
		}
		if len(clash) > 0 {
			return fmt.Errorf("%w: %s intersects %s", apperrors.ErrOverlappingPeriod, label, clash[0].Label)
		}
		if err := s.periodRepo.SavePeriod(txCtx, period); err != nil {
			return err
		}
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionCreate, domain.EntityFiscalPeriod, period.PeriodID,
			fmt.Sprintf("created fiscal period %q (%d) from %s to %s", label, year, req.StartDate, req.EndDate))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create fiscal period", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("tenant_id", tenantID), slog.String("period_id", period.PeriodID))
	return &period, nil
}

func (s *fiscalPeriodService) LockPeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, tenantID, periodID, domain.PeriodLocked, actor)
}

func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, tenantID, periodID, domain.PeriodClosed, actor)
}

// transition holds the period exclusively so no draft creation or post can race it.
func (s *fiscalPeriodService) transition(ctx context.Context, tenantID string, periodID string, target domain.PeriodStatus, actor string) (*domain.FiscalPeriod, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(periodLockKey(tenantID, periodID))
	defer unlock()

	var updated domain.FiscalPeriod
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		period, err := s.periodRepo.FindPeriodForUpdate(txCtx, tenantID, periodID)
		if err != nil {
			return err
		}
		if !period.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, period.Status, target)
		}

		now := s.Now()
		if err := s.periodRepo.UpdatePeriodStatus(txCtx, tenantID, periodID, target, actor, now); err != nil {
			return err
		}
		from := period.Status
		period.Status = target
		period.Touch(actor, now)
		updated = *period

		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionUpdate, domain.EntityFiscalPeriod, periodID,
			fmt.Sprintf("fiscal period %q status %s -> %s", period.Label, from, target))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to change fiscal period status",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID),
			slog.String("target", string(target)))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period status changed",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", periodID),
		slog.String("status", string(target)))
	return &updated, nil
}

// AssertWritable is called by the journal inside its transaction; the share lock taken by
// FindPeriodForShare holds until that transaction ends.
func (s *fiscalPeriodService) AssertWritable(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodForShare(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsWritable() {
		return nil, fmt.Errorf("%w: %q is %s", apperrors.ErrPeriodNotOpen, period.Label, period.Status)
	}
	return period, nil
}

func (s *fiscalPeriodService) GetPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find fiscal period", slog.String("period_id", periodID))
		return nil, err
	}
	return period, nil
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if periods == nil {
		return []domain.FiscalPeriod{}, nil
	}
	return periods, nil
}

func (s *fiscalPeriodService) DeletePeriod(ctx context.Context, tenantID string, periodID string, actor string) error {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return err
	}

	unlock := s.locks.Lock(periodLockKey(tenantID, periodID))
	defer unlock()

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		period, err := s.periodRepo.FindPeriodForUpdate(txCtx, tenantID, periodID)
		if err != nil {
			return err
		}
		n, err := s.journalRepo.CountEntriesByPeriod(txCtx, tenantID, periodID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %q holds %d entries", apperrors.ErrPeriodInUse, period.Label, n)
		}
		if err := s.periodRepo.DeletePeriod(txCtx, tenantID, periodID); err != nil {
			return err
		}
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionDelete, domain.EntityFiscalPeriod, periodID,
			fmt.Sprintf("deleted fiscal period %q", period.Label))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete fiscal period", slog.String("tenant_id", tenantID), slog.String("period_id", periodID))
		return err
	}

	s.LogInfo(ctx, "Fiscal period deleted", slog.String("tenant_id", tenantID), slog.String("period_id", periodID))
	return nil
}
