package services

import (
	"context"
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

type tierService struct {
	BaseService
	tierRepo    portsrepo.TierRepositoryFacade
	journalRepo portsrepo.JournalReader
	auditSvc    portssvc.AuditAppenderSvc
	txManager   portsrepo.TransactionManager
}

// TierServiceOption is a functional option for configuring the tier service
type TierServiceOption func(*tierService)

// WithTierClock overrides the clock used for audit fields.
func WithTierClock(clock func() time.Time) TierServiceOption {
	return func(s *tierService) {
		s.Clock = clock
	}
}

// NewTierService creates a new TierService.
func NewTierService(
	tierRepo portsrepo.TierRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	auditSvc portssvc.AuditAppenderSvc,
	txManager portsrepo.TransactionManager,
	options ...TierServiceOption,
) portssvc.TierSvcFacade {
	svc := &tierService{
		tierRepo:    tierRepo,
		journalRepo: journalRepo,
		auditSvc:    auditSvc,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func parseTierType(raw string) (domain.TierType, error) {
	t := domain.TierType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTierType, raw)
	}
	return t, nil
}

func (s *tierService) CreateTier(ctx context.Context, tenantID string, req dto.CreateTierRequest, actor string) (*domain.Tier, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := requiredField("code", code); err != nil {
		return nil, err
	}
	if err := requiredField("name", req.Name); err != nil {
		return nil, err
	}
	tierType, err := parseTierType(req.Type)
	if err != nil {
		return nil, err
	}

	tier := domain.Tier{
		TierID:      uuid.NewString(),
		TenantID:    tenantID,
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Type:        tierType,
		NIF:         req.NIF,
		NIS:         req.NIS,
		RC:          req.RC,
		AI:          req.AI,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		AuditFields: domain.NewAuditFields(actor, s.Now()),
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.tierRepo.SaveTier(txCtx, tier); err != nil {
			return err
		}
		_, err := s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionCreate, domain.EntityTier, tier.TierID,
			fmt.Sprintf("created tier %s %q (%s)", tier.Code, tier.Name, tier.Type))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create tier", slog.String("tenant_id", tenantID), slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Tier created", slog.String("tenant_id", tenantID), slog.String("tier_id", tier.TierID))
	return &tier, nil
}

func (s *tierService) UpdateTier(ctx context.Context, tenantID string, tierID string, req dto.UpdateTierRequest, actor string) (*domain.Tier, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	var updated domain.Tier
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		tier, err := s.tierRepo.FindTierByID(txCtx, tenantID, tierID)
		if err != nil {
			return err
		}
		if req.Code != nil {
			code := strings.TrimSpace(*req.Code)
			if err := requiredField("code", code); err != nil {
				return err
			}
			tier.Code = code
		}
		if req.Name != nil {
			if err := requiredField("name", *req.Name); err != nil {
				return err
			}
			tier.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			t, err := parseTierType(*req.Type)
			if err != nil {
				return err
			}
			tier.Type = t
		}
		setIfPresent(&tier.NIF, req.NIF)
		setIfPresent(&tier.NIS, req.NIS)
		setIfPresent(&tier.RC, req.RC)
		setIfPresent(&tier.AI, req.AI)
		setIfPresent(&tier.Phone, req.Phone)
		setIfPresent(&tier.Email, req.Email)
		setIfPresent(&tier.Address, req.Address)

		tier.Touch(actor, s.Now())
		if err := s.tierRepo.UpdateTier(txCtx, *tier); err != nil {
			return err
		}
		updated = *tier
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionUpdate, domain.EntityTier, tierID,
			fmt.Sprintf("updated tier %s %q (%s)", tier.Code, tier.Name, tier.Type))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update tier", slog.String("tenant_id", tenantID), slog.String("tier_id", tierID))
		return nil, err
	}

	s.LogInfo(ctx, "Tier updated", slog.String("tenant_id", tenantID), slog.String("tier_id", tierID))
	return &updated, nil
}

func (s *tierService) DeleteTier(ctx context.Context, tenantID string, tierID string, actor string) error {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return err
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		tier, err := s.tierRepo.FindTierByID(txCtx, tenantID, tierID)
		if err != nil {
			return err
		}
		n, err := s.journalRepo.CountLinesByTier(txCtx, tenantID, tierID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s has %d lines", apperrors.ErrTierInUse, tier.Code, n)
		}
		if err := s.tierRepo.DeleteTier(txCtx, tenantID, tierID); err != nil {
			return err
		}
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionDelete, domain.EntityTier, tierID,
			fmt.Sprintf("deleted tier %s %q", tier.Code, tier.Name))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete tier", slog.String("tenant_id", tenantID), slog.String("tier_id", tierID))
		return err
	}

	s.LogInfo(ctx, "Tier deleted", slog.String("tenant_id", tenantID), slog.String("tier_id", tierID))
	return nil
}

func (s *tierService) GetTierByID(ctx context.Context, tenantID string, tierID string) (*domain.Tier, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	tier, err := s.tierRepo.FindTierByID(ctx, tenantID, tierID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find tier", slog.String("tier_id", tierID))
		return nil, err
	}
	return tier, nil
}

func (s *tierService) ListTiers(ctx context.Context, tenantID string, params dto.ListTiersParams) ([]domain.Tier, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	var filter domain.TierType
	if params.Type != "" {
		t, err := parseTierType(params.Type)
		if err != nil {
			return nil, err
		}
		filter = t
	}
	tiers, err := s.tierRepo.ListTiers(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tiers", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if tiers == nil {
		return []domain.Tier{}, nil
	}
	return tiers, nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
