package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal periods
type FiscalPeriodReader interface {
	FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error)

	// ListPeriods returns the tenant's periods ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error)

	// FindOverlappingPeriods returns periods intersecting [start, end], bounds inclusive.
	FindOverlappingPeriods(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error)
}

// FiscalPeriodTransactionSupport defines locking reads used inside a transaction
type FiscalPeriodTransactionSupport interface {
	// FindPeriodForShare reads a period and holds a shared lock on it until the transaction ends.
	FindPeriodForShare(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForUpdate reads a period and holds an exclusive lock on it until the transaction ends.
	FindPeriodForUpdate(ctx context.Context, tenantID string, periodID string) (*domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal periods
type FiscalPeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	UpdatePeriodStatus(ctx context.Context, tenantID string, periodID string, status domain.PeriodStatus, actor string, now time.Time) error

	DeletePeriod(ctx context.Context, tenantID string, periodID string) error
}

// FiscalPeriodRepositoryFacade combines all fiscal period repository interfaces
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodTransactionSupport
	FiscalPeriodWriter
}
