package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// TierReaderSvc defines read operations for third parties
type TierReaderSvc interface {
	GetTierByID(ctx context.Context, tenantID string, tierID string) (*domain.Tier, error)

	ListTiers(ctx context.Context, tenantID string, params dto.ListTiersParams) ([]domain.Tier, error)
}

// TierWriterSvc defines write operations for third parties
type TierWriterSvc interface {
	CreateTier(ctx context.Context, tenantID string, req dto.CreateTierRequest, actor string) (*domain.Tier, error)

	UpdateTier(ctx context.Context, tenantID string, tierID string, req dto.UpdateTierRequest, actor string) (*domain.Tier, error)

	// DeleteTier removes a tier that no journal line references.
	DeleteTier(ctx context.Context, tenantID string, tierID string, actor string) error
}

// TierSvcFacade combines all tier service interfaces
type TierSvcFacade interface {
	TierReaderSvc
	TierWriterSvc
}
