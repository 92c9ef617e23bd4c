package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBalanceCache is a mock type for the BalanceCache interface
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Generation(ctx context.Context, tenantID string) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceCache) GetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, tenantID, generation, accountID, periodID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) SetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string, balance decimal.Decimal) error {
	args := m.Called(ctx, tenantID, generation, accountID, periodID, balance)
	return args.Error(0)
}

func (m *MockBalanceCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func TestBalanceService_CacheHitSkipsStore(t *testing.T) {
	cache := new(MockBalanceCache)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewBalanceService(repos.AccountRepo, repos.JournalRepo, repos.TxManager, services.WithBalanceCache(cache))

	cache.On("Generation", mock.Anything, tenantID).Return(int64(7), nil).Once()
	cache.On("GetBalance", mock.Anything, tenantID, int64(7), "acc-1", "").Return(decimal.NewFromInt(42), true, nil).Once()

	bal, err := svc.AccountBalance(context.Background(), tenantID, "acc-1", "")
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(42)))
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceService_CacheMissFillsUnderReadGeneration(t *testing.T) {
	ctx := context.Background()
	cache := new(MockBalanceCache)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(repos)

	fy, err := container.FiscalPeriod.CreatePeriod(ctx, tenantID, dto.CreateFiscalPeriodRequest{Label: "FY", StartDate: "2026-01-01", EndDate: "2026-12-31"}, actor)
	require.NoError(t, err)
	bank, err := container.Account.CreateAccount(ctx, tenantID, dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, actor)
	require.NoError(t, err)
	sales, err := container.Account.CreateAccount(ctx, tenantID, dto.CreateAccountRequest{Number: "700", Label: "Sales", Class: 7}, actor)
	require.NoError(t, err)
	e, err := container.Journal.CreateDraft(ctx, tenantID, draftRequest(fy.PeriodID, "2026-05-05",
		line(bank.AccountID, "12.34", "0"), line(sales.AccountID, "0", "12.34")), actor)
	require.NoError(t, err)
	_, err = container.Journal.Post(ctx, tenantID, e.EntryID, actor)
	require.NoError(t, err)

	svc := services.NewBalanceService(repos.AccountRepo, repos.JournalRepo, repos.TxManager, services.WithBalanceCache(cache))
	cache.On("Generation", mock.Anything, tenantID).Return(int64(3), nil).Once()
	cache.On("GetBalance", mock.Anything, tenantID, int64(3), bank.AccountID, fy.PeriodID).Return(decimal.Zero, false, nil).Once()
	cache.On("SetBalance", mock.Anything, tenantID, int64(3), bank.AccountID, fy.PeriodID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("12.34")) })).Return(nil).Once()

	bal, err := svc.AccountBalance(ctx, tenantID, bank.AccountID, fy.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, "12.34", bal.StringFixed(2))
	cache.AssertExpectations(t)
}

func TestBalanceService_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	cache := new(MockBalanceCache)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(repos)
	bank, err := container.Account.CreateAccount(ctx, tenantID, dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, actor)
	require.NoError(t, err)

	svc := services.NewBalanceService(repos.AccountRepo, repos.JournalRepo, repos.TxManager, services.WithBalanceCache(cache))
	cache.On("Generation", mock.Anything, tenantID).Return(int64(0), errors.New("connection refused")).Once()

	bal, err := svc.AccountBalance(ctx, tenantID, bank.AccountID, "")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "GetBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJournalService_PostInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := new(MockBalanceCache)
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(repos, services.WithContainerBalanceCache(cache))

	fy, err := container.FiscalPeriod.CreatePeriod(ctx, tenantID, dto.CreateFiscalPeriodRequest{Label: "FY", StartDate: "2026-01-01", EndDate: "2026-12-31"}, actor)
	require.NoError(t, err)
	bank, err := container.Account.CreateAccount(ctx, tenantID, dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, actor)
	require.NoError(t, err)
	sales, err := container.Account.CreateAccount(ctx, tenantID, dto.CreateAccountRequest{Number: "700", Label: "Sales", Class: 7}, actor)
	require.NoError(t, err)

	e, err := container.Journal.CreateDraft(ctx, tenantID, draftRequest(fy.PeriodID, "2026-05-05",
		line(bank.AccountID, "1", "0"), line(sales.AccountID, "0", "1")), actor)
	require.NoError(t, err)
	cache.AssertNotCalled(t, "InvalidateTenant", mock.Anything, mock.Anything)

	// a transient failure is retried once
	cache.On("InvalidateTenant", mock.Anything, tenantID).Return(errors.New("timeout")).Once()
	cache.On("InvalidateTenant", mock.Anything, tenantID).Return(nil).Once()
	posted, err := container.Journal.Post(ctx, tenantID, e.EntryID, actor)
	require.NoError(t, err)
	assert.Equal(t, "POSTED", string(posted.Status))
	cache.AssertExpectations(t)
	cache.AssertNumberOfCalls(t, "InvalidateTenant", 2)

	// a persistent failure does not undo the committed post
	cache.On("InvalidateTenant", mock.Anything, tenantID).Return(errors.New("timeout")).Twice()
	e2, err := container.Journal.CreateDraft(ctx, tenantID, draftRequest(fy.PeriodID, "2026-05-06",
		line(bank.AccountID, "2", "0"), line(sales.AccountID, "0", "2")), actor)
	require.NoError(t, err)
	posted, err = container.Journal.Post(ctx, tenantID, e2.EntryID, actor)
	require.NoError(t, err)
	assert.Equal(t, "POSTED", string(posted.Status))
	cache.AssertExpectations(t)
	cache.AssertNumberOfCalls(t, "InvalidateTenant", 4)
}
