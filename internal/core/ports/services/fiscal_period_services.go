package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// FiscalPeriodReaderSvc defines read operations for fiscal periods
type FiscalPeriodReaderSvc interface {
	GetPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error)

	ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error)

	// AssertWritable returns the period when it is open and fails with ErrPeriodNotOpen otherwise.
	// Inside a transaction the period stays share-locked until commit.
	AssertWritable(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error)
}

// FiscalPeriodWriterSvc defines the lifecycle operations of fiscal periods
type FiscalPeriodWriterSvc interface {
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreateFiscalPeriodRequest, actor string) (*domain.FiscalPeriod, error)

	// LockPeriod moves an open period to locked.
	LockPeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.FiscalPeriod, error)

	// ClosePeriod moves an open or locked period to closed.
	ClosePeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.FiscalPeriod, error)

	// DeletePeriod removes a period that holds no journal entries.
	DeletePeriod(ctx context.Context, tenantID string, periodID string, actor string) error
}

// FiscalPeriodSvcFacade combines all fiscal period service interfaces
type FiscalPeriodSvcFacade interface {
	FiscalPeriodReaderSvc
	FiscalPeriodWriterSvc
}
