package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/handlers"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testTenant = "tenant-http"
	testActor  = "alice"
)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *LedgerHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	container := services.NewServiceContainer(memory.NewRepositoryProvider(memory.NewStore()))
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slogDiscard()))
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container)
}

// do sends body as JSON with the tenant and actor headers set; empty values omit the header.
func (suite *LedgerHandlerTestSuite) do(method, path string, body any, tenant, actor string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(middleware.TenantHeader, tenant)
	}
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) call(method, path string, body any) *httptest.ResponseRecorder {
	return suite.do(method, path, body, testTenant, testActor)
}

func (suite *LedgerHandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *LedgerHandlerTestSuite) createPeriod() dto.FiscalPeriodResponse {
	w := suite.call(http.MethodPost, "/api/v1/periods", dto.CreateFiscalPeriodRequest{
		Label: "FY 2026", StartDate: "2026-01-01", EndDate: "2026-12-31",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var p dto.FiscalPeriodResponse
	suite.decode(w, &p)
	return p
}

func (suite *LedgerHandlerTestSuite) createAccount(number string, class int) dto.AccountResponse {
	w := suite.call(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Number: number, Label: "Account " + number, Class: class,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var a dto.AccountResponse
	suite.decode(w, &a)
	return a
}

func (suite *LedgerHandlerTestSuite) createDraft(periodID, debitID, creditID, debit, credit string) dto.JournalEntryResponse {
	w := suite.call(http.MethodPost, "/api/v1/journal-entries", dto.CreateJournalEntryRequest{
		FiscalPeriodID: periodID,
		Date:           "2026-03-15",
		JournalCode:    "VR",
		Reference:      "INV-001",
		Lines: []dto.JournalLineRequest{
			{AccountID: debitID, Debit: decimal.RequireFromString(debit)},
			{AccountID: creditID, Credit: decimal.RequireFromString(credit)},
		},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var e dto.JournalEntryResponse
	suite.decode(w, &e)
	return e
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil, "", "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestMissingTenantIsRejected() {
	w := suite.do(http.MethodGet, "/api/v1/accounts", nil, "", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), middleware.TenantHeader)
}

func (suite *LedgerHandlerTestSuite) TestMutationRequiresActor() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, testTenant, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), middleware.ActorHeader)

	// reads do not need an actor
	w = suite.do(http.MethodGet, "/api/v1/accounts", nil, testTenant, "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestInvalidBodyIsBadRequest() {
	w := suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{"number": "512", "label": "Bank", "class": 9})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.call(http.MethodPost, "/api/v1/journal-entries", map[string]any{
		"fiscalPeriodID": "p", "date": "2026-03-15", "journalCode": "XX", "lines": []any{},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestUnknownAccountIsNotFound() {
	w := suite.call(http.MethodGet, "/api/v1/accounts/does-not-exist", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestDuplicateAccountNumberIsUnprocessable() {
	suite.createAccount("512", 5)
	w := suite.call(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Number: "512", Label: "Other", Class: 5})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTenantsAreIsolated() {
	acc := suite.createAccount("512", 5)
	w := suite.do(http.MethodGet, "/api/v1/accounts/"+acc.AccountID, nil, "someone-else", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestJournalLifecycle() {
	period := suite.createPeriod()
	bank := suite.createAccount("512", 5)
	sales := suite.createAccount("700", 7)

	draft := suite.createDraft(period.PeriodID, bank.AccountID, sales.AccountID, "100.00", "100.00")
	suite.Equal(domain.Draft, draft.Status)

	w := suite.call(http.MethodPost, "/api/v1/journal-entries/"+draft.EntryID+"/post", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var posted dto.JournalEntryResponse
	suite.decode(w, &posted)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(testActor, posted.PostedBy)

	// posting twice and editing a posted entry are state conflicts
	w = suite.call(http.MethodPost, "/api/v1/journal-entries/"+draft.EntryID+"/post", nil)
	suite.Equal(http.StatusConflict, w.Code)
	w = suite.call(http.MethodDelete, "/api/v1/journal-entries/"+draft.EntryID, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.call(http.MethodGet, "/api/v1/accounts/"+bank.AccountID+"/balance?periodID="+period.PeriodID, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var bal dto.AccountBalanceResponse
	suite.decode(w, &bal)
	suite.True(bal.Balance.Equal(decimal.NewFromInt(100)), bal.Balance.String())

	w = suite.call(http.MethodGet, "/api/v1/balances", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all dto.ListBalancesResponse
	suite.decode(w, &all)
	suite.True(all.Balances[sales.AccountID].Equal(decimal.NewFromInt(-100)))

	// reversal with no body lands in the same period as a draft
	w = suite.call(http.MethodPost, "/api/v1/journal-entries/"+draft.EntryID+"/reverse", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal dto.JournalEntryResponse
	suite.decode(w, &reversal)
	suite.Equal(draft.EntryID, reversal.ReversalOfEntryID)
	suite.Equal(domain.Draft, reversal.Status)

	w = suite.call(http.MethodGet, "/api/v1/journal-entries?status=DRAFT", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListJournalEntriesResponse
	suite.decode(w, &page)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(reversal.EntryID, page.Entries[0].EntryID)

	w = suite.call(http.MethodGet, "/api/v1/audit/verify", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var report domain.VerifyReport
	suite.decode(w, &report)
	suite.True(report.Intact)
	suite.NotEmpty(report.Records)

	w = suite.call(http.MethodGet, "/api/v1/audit?from=1&to=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var records dto.ListAuditRecordsResponse
	suite.decode(w, &records)
	suite.Len(records.Records, 2)
}

func (suite *LedgerHandlerTestSuite) TestUnbalancedEntryIsRejected() {
	period := suite.createPeriod()
	bank := suite.createAccount("512", 5)
	sales := suite.createAccount("700", 7)

	w := suite.call(http.MethodPost, "/api/v1/journal-entries", dto.CreateJournalEntryRequest{
		FiscalPeriodID: period.PeriodID,
		Date:           "2026-03-15",
		JournalCode:    "OD",
		Lines: []dto.JournalLineRequest{
			{AccountID: bank.AccountID, Debit: decimal.RequireFromString("100.00")},
			{AccountID: sales.AccountID, Credit: decimal.RequireFromString("99.98")},
		},
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.call(http.MethodGet, "/api/v1/journal-entries", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListJournalEntriesResponse
	suite.decode(w, &page)
	suite.Empty(page.Entries)
}

func (suite *LedgerHandlerTestSuite) TestLockedPeriodRejectsDrafts() {
	period := suite.createPeriod()
	bank := suite.createAccount("512", 5)
	sales := suite.createAccount("700", 7)

	w := suite.call(http.MethodPost, "/api/v1/periods/"+period.PeriodID+"/lock", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.call(http.MethodPost, "/api/v1/journal-entries", dto.CreateJournalEntryRequest{
		FiscalPeriodID: period.PeriodID,
		Date:           "2026-03-15",
		JournalCode:    "OD",
		Lines: []dto.JournalLineRequest{
			{AccountID: bank.AccountID, Debit: decimal.NewFromInt(1)},
			{AccountID: sales.AccountID, Credit: decimal.NewFromInt(1)},
		},
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.call(http.MethodPost, "/api/v1/periods/"+period.PeriodID+"/close", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	w = suite.call(http.MethodPost, "/api/v1/periods/"+period.PeriodID+"/lock", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestOverlappingPeriodIsConflict() {
	suite.createPeriod()
	w := suite.call(http.MethodPost, "/api/v1/periods", dto.CreateFiscalPeriodRequest{
		Label: "Overlap", StartDate: "2026-06-01", EndDate: "2027-05-31",
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestSeedStandardChartIsIdempotent() {
	w := suite.call(http.MethodPost, "/api/v1/accounts/seed", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var first dto.SeedChartResponse
	suite.decode(w, &first)
	suite.Len(first.Created, len(domain.StandardChart))
	suite.Zero(first.Existing)

	w = suite.call(http.MethodPost, "/api/v1/accounts/seed", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var second dto.SeedChartResponse
	suite.decode(w, &second)
	suite.Empty(second.Created)
	suite.Equal(len(domain.StandardChart), second.Existing)
}

func (suite *LedgerHandlerTestSuite) TestTierCrud() {
	w := suite.call(http.MethodPost, "/api/v1/tiers", dto.CreateTierRequest{Code: "C001", Name: "Client One", Type: "CLIENT"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var tier dto.TierResponse
	suite.decode(w, &tier)

	w = suite.call(http.MethodPost, "/api/v1/tiers", dto.CreateTierRequest{Code: "S001", Name: "Both Ways", Type: "BOTH"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.call(http.MethodGet, "/api/v1/tiers?type=SUPPLIER", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListTiersResponse
	suite.decode(w, &list)
	suite.Len(list.Tiers, 1)

	name := "Client Renamed"
	w = suite.call(http.MethodPut, "/api/v1/tiers/"+tier.TierID, dto.UpdateTierRequest{Name: &name})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.call(http.MethodDelete, "/api/v1/tiers/"+tier.TierID, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w = suite.call(http.MethodGet, "/api/v1/tiers/"+tier.TierID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Run Test Suite ---
func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
