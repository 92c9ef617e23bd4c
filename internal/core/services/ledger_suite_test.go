package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	tenantID = "tenant-a"
	actor    = "alice"
)

// steppingClock returns a strictly increasing time on every call.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type LedgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
	clock *steppingClock
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.repos = memory.NewRepositoryProvider(s.store)
	s.clock = newSteppingClock()
	s.svc = services.NewServiceContainer(s.repos, services.WithContainerClock(s.clock.Now))
}

// rebuild recreates the services over the current repositories.
func (s *LedgerSuite) rebuild() {
	s.svc = services.NewServiceContainer(s.repos, services.WithContainerClock(s.clock.Now))
}

func (s *LedgerSuite) period(label, start, end string) *domain.FiscalPeriod {
	p, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, tenantID, dto.CreateFiscalPeriodRequest{
		Label: label, StartDate: start, EndDate: end,
	}, actor)
	s.Require().NoError(err)
	return p
}

func (s *LedgerSuite) account(number, label string, class int, summary bool, parent *domain.Account) *domain.Account {
	req := dto.CreateAccountRequest{Number: number, Label: label, Class: class, IsSummary: summary}
	if parent != nil {
		req.ParentAccountID = &parent.AccountID
	}
	a, err := s.svc.Account.CreateAccount(s.ctx, tenantID, req, actor)
	s.Require().NoError(err)
	return a
}

func (s *LedgerSuite) tier(code string) *domain.Tier {
	t, err := s.svc.Tier.CreateTier(s.ctx, tenantID, dto.CreateTierRequest{Code: code, Name: code, Type: "CLIENT"}, actor)
	s.Require().NoError(err)
	return t
}

func line(accountID, debit, credit string) dto.JournalLineRequest {
	return dto.JournalLineRequest{
		AccountID: accountID,
		Debit:     decimal.RequireFromString(debit),
		Credit:    decimal.RequireFromString(credit),
	}
}

func draftRequest(periodID, date string, lines ...dto.JournalLineRequest) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		FiscalPeriodID: periodID,
		Date:           date,
		JournalCode:    "OD",
		Reference:      "REF-1",
		Description:    "test entry",
		Lines:          lines,
	}
}

// transfer creates and posts a two line entry moving amount from credit to debit.
func (s *LedgerSuite) transfer(periodID, date, debitID, creditID, amount string) *domain.JournalEntry {
	e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(periodID, date,
		line(debitID, amount, "0"), line(creditID, "0", amount)), actor)
	s.Require().NoError(err)
	posted, err := s.svc.Journal.Post(s.ctx, tenantID, e.EntryID, actor)
	s.Require().NoError(err)
	return posted
}

func (s *LedgerSuite) balance(accountID, periodID string) decimal.Decimal {
	b, err := s.svc.Balance.AccountBalance(s.ctx, tenantID, accountID, periodID)
	s.Require().NoError(err)
	return b
}

func (s *LedgerSuite) auditCount() int {
	records, err := s.svc.Audit.ListRecords(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err)
	return len(records)
}

func (s *LedgerSuite) assertDecimal(want string, got decimal.Decimal, msgAndArgs ...any) {
	s.True(decimal.RequireFromString(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func (s *LedgerSuite) requireIntact() *domain.VerifyReport {
	report, err := s.svc.Audit.Verify(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err)
	s.Require().True(report.Intact)
	return report
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

// --- Journal lifecycle ---

func (s *LedgerSuite) TestDraftPostCloseLifecycle() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	draft, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-03-15",
		line(bank.AccountID, "1000.00", "0"), line(sales.AccountID, "0", "1000.00")), actor)
	s.Require().NoError(err)
	s.Equal(domain.Draft, draft.Status)
	s.Len(draft.Lines, 2)
	for _, l := range draft.Lines {
		s.NotEmpty(l.LineID)
		s.Equal(draft.EntryID, l.EntryID)
	}
	s.assertDecimal("0", s.balance(bank.AccountID, ""), "drafts never contribute")

	posted, err := s.svc.Journal.Post(s.ctx, tenantID, draft.EntryID, actor)
	s.Require().NoError(err)
	s.Equal(domain.Posted, posted.Status)
	s.Require().NotNil(posted.PostedAt)
	s.Equal(actor, posted.PostedBy)

	s.assertDecimal("1000.00", s.balance(bank.AccountID, ""))
	s.assertDecimal("-1000.00", s.balance(sales.AccountID, ""))
	s.assertDecimal("1000.00", s.balance(bank.AccountID, fy.PeriodID))

	ref := "changed"
	_, err = s.svc.Journal.UpdateDraft(s.ctx, tenantID, draft.EntryID, dto.UpdateJournalEntryRequest{Reference: &ref}, actor)
	s.ErrorIs(err, apperrors.ErrEntryNotDraft)
	_, err = s.svc.Journal.UpdateDraft(s.ctx, tenantID, draft.EntryID, dto.UpdateJournalEntryRequest{Lines: []dto.JournalLineRequest{
		line(bank.AccountID, "9999.00", "0"), line(sales.AccountID, "0", "9999.00"),
	}}, actor)
	s.ErrorIs(err, apperrors.ErrEntryNotDraft)
	stored, err := s.svc.Journal.GetEntryByID(s.ctx, tenantID, draft.EntryID)
	s.Require().NoError(err)
	s.Require().Len(stored.Lines, len(posted.Lines))
	for i, l := range stored.Lines {
		s.Equal(posted.Lines[i].LineID, l.LineID)
		s.Equal(posted.Lines[i].AccountID, l.AccountID)
		s.assertDecimal(posted.Lines[i].Debit.String(), l.Debit)
		s.assertDecimal(posted.Lines[i].Credit.String(), l.Credit)
	}
	s.assertDecimal("1000.00", s.balance(bank.AccountID, ""))
	s.ErrorIs(s.svc.Journal.DeleteDraft(s.ctx, tenantID, draft.EntryID, actor), apperrors.ErrEntryNotDraft)
	_, err = s.svc.Journal.Post(s.ctx, tenantID, draft.EntryID, actor)
	s.ErrorIs(err, apperrors.ErrEntryNotDraft)

	closed, err := s.svc.FiscalPeriod.ClosePeriod(s.ctx, tenantID, fy.PeriodID, actor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, closed.Status)

	_, err = s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-04-01",
		line(bank.AccountID, "1", "0"), line(sales.AccountID, "0", "1")), actor)
	s.ErrorIs(err, apperrors.ErrPeriodNotOpen)

	report := s.requireIntact()
	// period, two accounts, create, post, close
	s.Len(report.Records, 6)
	s.EqualValues(6, report.ToSeq)
}

func (s *LedgerSuite) TestCreateDraft_Rejections() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	reserves := s.account("106", "Reserves", 1, true, nil)
	before := s.auditCount()

	tests := []struct {
		name    string
		req     dto.CreateJournalEntryRequest
		wantErr error
	}{
		{
			name:    "unbalanced",
			req:     draftRequest(fy.PeriodID, "2026-03-15", line(bank.AccountID, "1000", "0"), line(sales.AccountID, "0", "900")),
			wantErr: apperrors.ErrUnbalancedEntry,
		},
		{
			name:    "single line",
			req:     draftRequest(fy.PeriodID, "2026-03-15", line(bank.AccountID, "1000", "0")),
			wantErr: apperrors.ErrTooFewLines,
		},
		{
			name:    "summary account",
			req:     draftRequest(fy.PeriodID, "2026-03-15", line(reserves.AccountID, "10", "0"), line(sales.AccountID, "0", "10")),
			wantErr: apperrors.ErrPostingToSummaryAccount,
		},
		{
			name:    "unknown account",
			req:     draftRequest(fy.PeriodID, "2026-03-15", line("missing", "10", "0"), line(sales.AccountID, "0", "10")),
			wantErr: apperrors.ErrUnknownAccount,
		},
		{
			name:    "date after period",
			req:     draftRequest(fy.PeriodID, "2027-01-01", line(bank.AccountID, "10", "0"), line(sales.AccountID, "0", "10")),
			wantErr: apperrors.ErrDateOutOfPeriod,
		},
		{
			name:    "malformed date",
			req:     draftRequest(fy.PeriodID, "15/03/2026", line(bank.AccountID, "10", "0"), line(sales.AccountID, "0", "10")),
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown period",
			req:     draftRequest("nope", "2026-03-15", line(bank.AccountID, "10", "0"), line(sales.AccountID, "0", "10")),
			wantErr: apperrors.ErrNotFound,
		},
		{
			name: "unknown journal code",
			req: func() dto.CreateJournalEntryRequest {
				r := draftRequest(fy.PeriodID, "2026-03-15", line(bank.AccountID, "10", "0"), line(sales.AccountID, "0", "10"))
				r.JournalCode = "ZZ"
				return r
			}(),
			wantErr: apperrors.ErrInvalidJournalCode,
		},
		{
			name: "unknown tier",
			req: func() dto.CreateJournalEntryRequest {
				l := line(bank.AccountID, "10", "0")
				ghost := "ghost"
				l.TierID = &ghost
				return draftRequest(fy.PeriodID, "2026-03-15", l, line(sales.AccountID, "0", "10"))
			}(),
			wantErr: apperrors.ErrUnknownTier,
		},
		{
			name:    "line with both sides",
			req:     draftRequest(fy.PeriodID, "2026-03-15", line(bank.AccountID, "10", "10"), line(sales.AccountID, "0", "0")),
			wantErr: apperrors.ErrInvalidLine,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, tt.req, actor)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	page, err := s.svc.Journal.ListEntries(s.ctx, tenantID, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Empty(page.Entries, "rejected drafts leave nothing behind")
	s.Equal(before, s.auditCount(), "rejected drafts are not audited")
}

func (s *LedgerSuite) TestCreateDraft_WithTier() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	client := s.account("411", "Clients", 4, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	acme := s.tier("C001")

	l := line(client.AccountID, "250", "0")
	l.TierID = &acme.TierID
	e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-02-01", l, line(sales.AccountID, "0", "250")), actor)
	s.Require().NoError(err)
	s.Equal(acme.TierID, e.Lines[0].TierID)

	s.ErrorIs(s.svc.Tier.DeleteTier(s.ctx, tenantID, acme.TierID, actor), apperrors.ErrTierInUse)
}

func (s *LedgerSuite) TestUpdateDraft_ReplacesLines() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	vat := s.account("4457", "VAT collected", 4, false, nil)

	e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-03-15",
		line(bank.AccountID, "100", "0"), line(sales.AccountID, "0", "100")), actor)
	s.Require().NoError(err)

	date := "2026-03-20"
	updated, err := s.svc.Journal.UpdateDraft(s.ctx, tenantID, e.EntryID, dto.UpdateJournalEntryRequest{
		Date: &date,
		Lines: []dto.JournalLineRequest{
			line(bank.AccountID, "119", "0"),
			line(sales.AccountID, "0", "100"),
			line(vat.AccountID, "0", "19"),
		},
	}, actor)
	s.Require().NoError(err)
	s.Len(updated.Lines, 3)
	s.Equal("2026-03-20", updated.Date.Format(dto.DateLayout))

	stored, err := s.svc.Journal.GetEntryByID(s.ctx, tenantID, e.EntryID)
	s.Require().NoError(err)
	s.Len(stored.Lines, 3)
	debit, credit := stored.Totals()
	s.assertDecimal("119", debit)
	s.assertDecimal("119", credit)

	_, err = s.svc.Journal.UpdateDraft(s.ctx, tenantID, e.EntryID, dto.UpdateJournalEntryRequest{
		Lines: []dto.JournalLineRequest{line(bank.AccountID, "5", "0"), line(sales.AccountID, "0", "4")},
	}, actor)
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	again, err := s.svc.Journal.GetEntryByID(s.ctx, tenantID, e.EntryID)
	s.Require().NoError(err)
	s.Len(again.Lines, 3, "a rejected update changes nothing")
}

func (s *LedgerSuite) TestDeleteDraft() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-03-15",
		line(bank.AccountID, "100", "0"), line(sales.AccountID, "0", "100")), actor)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Journal.DeleteDraft(s.ctx, tenantID, e.EntryID, actor))

	_, err = s.svc.Journal.GetEntryByID(s.ctx, tenantID, e.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, tenantID, bank.AccountID, actor), "deleted drafts release their accounts")
}

func (s *LedgerSuite) TestLockedPeriodRejectsWrites() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-03-15",
		line(bank.AccountID, "100", "0"), line(sales.AccountID, "0", "100")), actor)
	s.Require().NoError(err)

	_, err = s.svc.FiscalPeriod.LockPeriod(s.ctx, tenantID, fy.PeriodID, actor)
	s.Require().NoError(err)

	_, err = s.svc.Journal.Post(s.ctx, tenantID, e.EntryID, actor)
	s.ErrorIs(err, apperrors.ErrPeriodNotOpen)
	s.ErrorIs(s.svc.Journal.DeleteDraft(s.ctx, tenantID, e.EntryID, actor), apperrors.ErrPeriodNotOpen)
	desc := "x"
	_, err = s.svc.Journal.UpdateDraft(s.ctx, tenantID, e.EntryID, dto.UpdateJournalEntryRequest{Description: &desc}, actor)
	s.ErrorIs(err, apperrors.ErrPeriodNotOpen)

	stored, err := s.svc.Journal.GetEntryByID(s.ctx, tenantID, e.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Draft, stored.Status)
}

func (s *LedgerSuite) TestReverseEntry() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	draft, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-03-15",
		line(bank.AccountID, "300", "0"), line(sales.AccountID, "0", "300")), actor)
	s.Require().NoError(err)
	_, err = s.svc.Journal.ReverseEntry(s.ctx, tenantID, draft.EntryID, dto.ReverseJournalEntryRequest{}, actor)
	s.ErrorIs(err, apperrors.ErrEntryNotPosted)

	_, err = s.svc.Journal.Post(s.ctx, tenantID, draft.EntryID, actor)
	s.Require().NoError(err)

	date := "2026-03-31"
	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, tenantID, draft.EntryID, dto.ReverseJournalEntryRequest{Date: &date}, actor)
	s.Require().NoError(err)
	s.Equal(domain.Draft, reversal.Status)
	s.Equal(draft.EntryID, reversal.ReversalOfEntryID)
	s.Equal("Reversal of REF-1", reversal.Description)
	s.assertDecimal("300", reversal.Lines[0].Credit)
	s.assertDecimal("300", s.balance(bank.AccountID, ""), "a reversal counts only once posted")

	_, err = s.svc.Journal.Post(s.ctx, tenantID, reversal.EntryID, actor)
	s.Require().NoError(err)
	s.assertDecimal("0", s.balance(bank.AccountID, ""))
	s.assertDecimal("0", s.balance(sales.AccountID, ""))
}

func (s *LedgerSuite) TestListEntries() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	for _, date := range []string{"2026-01-10", "2026-02-10", "2026-03-10"} {
		s.transfer(fy.PeriodID, date, bank.AccountID, sales.AccountID, "10")
	}
	_, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-04-10",
		line(bank.AccountID, "5", "0"), line(sales.AccountID, "0", "5")), actor)
	s.Require().NoError(err)

	page, err := s.svc.Journal.ListEntries(s.ctx, tenantID, dto.ListJournalEntriesParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 2)
	s.Equal("2026-04-10", page.Entries[0].Date)
	s.assertDecimal("5", page.Entries[0].TotalDebit)
	s.Require().NotNil(page.NextToken)

	rest, err := s.svc.Journal.ListEntries(s.ctx, tenantID, dto.ListJournalEntriesParams{Limit: 2, NextToken: *page.NextToken})
	s.Require().NoError(err)
	s.Len(rest.Entries, 2)
	s.Nil(rest.NextToken)

	posted, err := s.svc.Journal.ListEntries(s.ctx, tenantID, dto.ListJournalEntriesParams{Status: "POSTED"})
	s.Require().NoError(err)
	s.Len(posted.Entries, 3)

	_, err = s.svc.Journal.ListEntries(s.ctx, tenantID, dto.ListJournalEntriesParams{Status: "VOID"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- Periods ---

func (s *LedgerSuite) TestPeriodTransitions() {
	p := s.period("FY2026", "2026-01-01", "2026-12-31")
	s.Equal(2026, p.Year)

	locked, err := s.svc.FiscalPeriod.LockPeriod(s.ctx, tenantID, p.PeriodID, actor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodLocked, locked.Status)

	_, err = s.svc.FiscalPeriod.LockPeriod(s.ctx, tenantID, p.PeriodID, actor)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, tenantID, p.PeriodID, actor)
	s.Require().NoError(err)

	_, err = s.svc.FiscalPeriod.LockPeriod(s.ctx, tenantID, p.PeriodID, actor)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = s.svc.FiscalPeriod.ClosePeriod(s.ctx, tenantID, p.PeriodID, actor)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	stored, err := s.svc.FiscalPeriod.GetPeriodByID(s.ctx, tenantID, p.PeriodID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, stored.Status)
}

func (s *LedgerSuite) TestCreatePeriod_Rejections() {
	s.period("FY2026", "2026-01-01", "2026-12-31")

	_, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, tenantID, dto.CreateFiscalPeriodRequest{
		Label: "overlap", StartDate: "2026-12-31", EndDate: "2027-06-30",
	}, actor)
	s.ErrorIs(err, apperrors.ErrOverlappingPeriod)

	_, err = s.svc.FiscalPeriod.CreatePeriod(s.ctx, tenantID, dto.CreateFiscalPeriodRequest{
		Label: "backwards", StartDate: "2027-12-31", EndDate: "2027-01-01",
	}, actor)
	s.ErrorIs(err, apperrors.ErrInvalidPeriodRange)

	next, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, tenantID, dto.CreateFiscalPeriodRequest{
		Label: "single day", StartDate: "2027-01-01", EndDate: "2027-01-01",
	}, actor)
	s.Require().NoError(err)
	s.True(next.Contains(next.StartDate))

	other, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, "tenant-b", dto.CreateFiscalPeriodRequest{
		Label: "FY2026", StartDate: "2026-01-01", EndDate: "2026-12-31",
	}, actor)
	s.Require().NoError(err, "periods only overlap within a tenant")
	s.Equal(domain.PeriodOpen, other.Status)

	periods, err := s.svc.FiscalPeriod.ListPeriods(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Len(periods, 2)
}

func (s *LedgerSuite) TestDeletePeriod() {
	used := s.period("FY2026", "2026-01-01", "2026-12-31")
	empty := s.period("FY2027", "2027-01-01", "2027-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	_, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(used.PeriodID, "2026-05-01",
		line(bank.AccountID, "1", "0"), line(sales.AccountID, "0", "1")), actor)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.FiscalPeriod.DeletePeriod(s.ctx, tenantID, used.PeriodID, actor), apperrors.ErrPeriodInUse)
	s.Require().NoError(s.svc.FiscalPeriod.DeletePeriod(s.ctx, tenantID, empty.PeriodID, actor))
	_, err = s.svc.FiscalPeriod.GetPeriodByID(s.ctx, tenantID, empty.PeriodID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Chart of accounts ---

func (s *LedgerSuite) TestAccountRules() {
	bank := s.account("512", "Bank", 5, false, nil)

	_, err := s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "512", Label: "Dup", Class: 5}, actor)
	s.ErrorIs(err, apperrors.ErrDuplicateAccountNumber)

	ghost := "ghost"
	_, err = s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "513", Label: "Orphan", Class: 5, ParentAccountID: &ghost}, actor)
	s.ErrorIs(err, apperrors.ErrUnknownParent)

	_, err = s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "900", Label: "Bad", Class: 8}, actor)
	s.ErrorIs(err, apperrors.ErrInvalidClass)

	_, err = s.svc.Account.CreateAccount(s.ctx, "tenant-b", dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, actor)
	s.NoError(err, "numbers are unique per tenant")

	_, err = s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "514", Label: "No actor", Class: 5}, "")
	s.ErrorIs(err, apperrors.ErrMissingActor)

	label := "Main bank"
	updated, err := s.svc.Account.UpdateAccount(s.ctx, tenantID, bank.AccountID, dto.UpdateAccountRequest{Label: &label}, actor)
	s.Require().NoError(err)
	s.Equal("Main bank", updated.Label)
	s.Equal(actor, updated.LastUpdatedBy)
}

func (s *LedgerSuite) TestAccountHierarchyRules() {
	root := s.account("44", "State", 4, true, nil)
	mid := s.account("445", "VAT", 4, true, root)
	leaf := s.account("4456", "VAT deductible", 4, false, mid)

	rootID := root.AccountID
	_, err := s.svc.Account.UpdateAccount(s.ctx, tenantID, root.AccountID, dto.UpdateAccountRequest{ParentAccountID: &leaf.AccountID}, actor)
	s.ErrorIs(err, apperrors.ErrParentCycle)
	_, err = s.svc.Account.UpdateAccount(s.ctx, tenantID, root.AccountID, dto.UpdateAccountRequest{ParentAccountID: &rootID}, actor)
	s.ErrorIs(err, apperrors.ErrParentCycle)

	s.ErrorIs(s.svc.Account.DeleteAccount(s.ctx, tenantID, mid.AccountID, actor), apperrors.ErrAccountHasChildren)

	notSummary := false
	_, err = s.svc.Account.UpdateAccount(s.ctx, tenantID, mid.AccountID, dto.UpdateAccountRequest{IsSummary: &notSummary}, actor)
	s.ErrorIs(err, apperrors.ErrAccountHasChildren)
	stored, err := s.svc.Account.GetAccountByID(s.ctx, tenantID, mid.AccountID)
	s.Require().NoError(err)
	s.True(stored.IsSummary)

	bank := s.account("512", "Bank", 5, false, nil)
	_, err = s.svc.Account.UpdateAccount(s.ctx, tenantID, leaf.AccountID, dto.UpdateAccountRequest{ParentAccountID: &bank.AccountID}, actor)
	s.ErrorIs(err, apperrors.ErrParentNotSummary)
	_, err = s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "5121", Label: "Sub bank", Class: 5, ParentAccountID: &bank.AccountID}, actor)
	s.ErrorIs(err, apperrors.ErrParentNotSummary)
	s.ErrorIs(err, apperrors.ErrValidation)

	detach := ""
	moved, err := s.svc.Account.UpdateAccount(s.ctx, tenantID, leaf.AccountID, dto.UpdateAccountRequest{ParentAccountID: &detach}, actor)
	s.Require().NoError(err)
	s.False(moved.HasParent())
	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, tenantID, mid.AccountID, actor))
}

func (s *LedgerSuite) TestAccountInUse() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	s.transfer(fy.PeriodID, "2026-06-01", bank.AccountID, sales.AccountID, "50")

	s.ErrorIs(s.svc.Account.DeleteAccount(s.ctx, tenantID, bank.AccountID, actor), apperrors.ErrAccountInUse)
	summary := true
	_, err := s.svc.Account.UpdateAccount(s.ctx, tenantID, bank.AccountID, dto.UpdateAccountRequest{IsSummary: &summary}, actor)
	s.ErrorIs(err, apperrors.ErrAccountInUse)
}

func (s *LedgerSuite) TestSeedStandardChart() {
	s.account("512", "My bank", 5, false, nil)

	created, err := s.svc.Account.SeedStandardChart(s.ctx, tenantID, actor)
	s.Require().NoError(err)
	s.Len(created, len(domain.StandardChart)-1, "existing numbers are kept")

	accounts, err := s.svc.Account.ListAccounts(s.ctx, tenantID)
	s.Require().NoError(err)
	byNumber := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
	}
	s.Equal("My bank", byNumber["512"].Label)
	s.True(byNumber["106"].IsSummary)
	s.Equal(byNumber["106"].AccountID, byNumber["1061"].ParentAccountID)
	s.True(byNumber["411"].IsAuxiliary)

	again, err := s.svc.Account.SeedStandardChart(s.ctx, tenantID, actor)
	s.Require().NoError(err)
	s.Empty(again)
	s.requireIntact()
}

// --- Balances ---

func (s *LedgerSuite) TestSummaryBalanceIsSumOfChildren() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	h1 := s.period("FY2027", "2027-01-01", "2027-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	root := s.account("44", "State", 4, true, nil)
	vat := s.account("445", "VAT", 4, true, root)
	deductible := s.account("4456", "VAT deductible", 4, false, vat)
	collected := s.account("4457", "VAT collected", 4, false, vat)
	other := s.account("447", "Other taxes", 4, false, root)

	s.transfer(fy.PeriodID, "2026-02-01", deductible.AccountID, bank.AccountID, "190.00")
	s.transfer(fy.PeriodID, "2026-02-02", bank.AccountID, collected.AccountID, "380.00")
	s.transfer(fy.PeriodID, "2026-02-03", other.AccountID, bank.AccountID, "25.50")
	s.transfer(h1.PeriodID, "2027-02-03", other.AccountID, bank.AccountID, "4.50")

	s.assertDecimal("190.00", s.balance(deductible.AccountID, ""))
	s.assertDecimal("-380.00", s.balance(collected.AccountID, ""))
	s.assertDecimal("-190.00", s.balance(vat.AccountID, ""))
	s.assertDecimal("-160.00", s.balance(root.AccountID, ""))
	s.assertDecimal("-164.50", s.balance(root.AccountID, fy.PeriodID))
	s.assertDecimal("4.50", s.balance(root.AccountID, h1.PeriodID))

	s.True(s.balance(root.AccountID, "").Equal(s.balance(vat.AccountID, "").Add(s.balance(other.AccountID, ""))))

	all, err := s.svc.Balance.AccountBalances(s.ctx, tenantID, "")
	s.Require().NoError(err)
	for id, b := range all {
		s.True(b.Equal(s.balance(id, "")), "bulk and single balances agree for %s", id)
	}

	_, err = s.svc.Balance.AccountBalance(s.ctx, tenantID, "missing", "")
	s.ErrorIs(err, apperrors.ErrNotFound)

	// a posting account cannot hold children, so a deep leaf always rolls up
	cash := s.account("10", "Cash", 1, true, nil)
	tills := s.account("101", "Tills", 1, false, nil)
	sub := "1011"
	_, err = s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: sub, Label: "Till 1", Class: 1, ParentAccountID: &tills.AccountID}, actor)
	s.ErrorIs(err, apperrors.ErrParentNotSummary)

	summary := true
	_, err = s.svc.Account.UpdateAccount(s.ctx, tenantID, tills.AccountID, dto.UpdateAccountRequest{IsSummary: &summary, ParentAccountID: &cash.AccountID}, actor)
	s.Require().NoError(err)
	till := s.account(sub, "Till 1", 1, false, tills)
	s.transfer(fy.PeriodID, "2026-03-01", bank.AccountID, till.AccountID, "500")

	s.assertDecimal("-500", s.balance(till.AccountID, ""))
	s.assertDecimal("-500", s.balance(tills.AccountID, ""))
	s.assertDecimal("-500", s.balance(cash.AccountID, ""))
}

// --- Audit ---

func (s *LedgerSuite) TestAuditCoversEveryMutation() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	e := s.transfer(fy.PeriodID, "2026-01-05", bank.AccountID, sales.AccountID, "10")
	_, err := s.svc.FiscalPeriod.LockPeriod(s.ctx, tenantID, fy.PeriodID, actor)
	s.Require().NoError(err)

	// reads never append
	_, _ = s.svc.Balance.AccountBalance(s.ctx, tenantID, bank.AccountID, "")
	_, _ = s.svc.Journal.GetEntryByID(s.ctx, tenantID, e.EntryID)
	_, _ = s.svc.Audit.Verify(s.ctx, tenantID, 0, 0)

	records, err := s.svc.Audit.ListRecords(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err)
	want := []struct {
		action domain.AuditAction
		entity domain.AuditEntityType
	}{
		{domain.ActionCreate, domain.EntityFiscalPeriod},
		{domain.ActionCreate, domain.EntityAccount},
		{domain.ActionCreate, domain.EntityAccount},
		{domain.ActionCreate, domain.EntityJournalEntry},
		{domain.ActionPost, domain.EntityJournalEntry},
		{domain.ActionUpdate, domain.EntityFiscalPeriod},
	}
	s.Require().Len(records, len(want))
	for i, w := range want {
		s.EqualValues(i+1, records[i].SequenceID)
		s.Equal(w.action, records[i].Action)
		s.Equal(w.entity, records[i].EntityType)
		s.Equal(actor, records[i].Actor)
		if i > 0 {
			s.Equal(records[i-1].Hash, records[i].PreviousHash)
			s.False(records[i].Timestamp.Before(records[i-1].Timestamp))
		}
	}
	s.Equal(domain.GenesisHash, records[0].PreviousHash)
	s.Equal(e.EntryID, records[4].EntityID)
}

func (s *LedgerSuite) TestAuditChainsArePerTenant() {
	s.period("FY2026", "2026-01-01", "2026-12-31")
	_, err := s.svc.FiscalPeriod.CreatePeriod(s.ctx, "tenant-b", dto.CreateFiscalPeriodRequest{
		Label: "FY2026", StartDate: "2026-01-01", EndDate: "2026-12-31",
	}, "bob")
	s.Require().NoError(err)

	b, err := s.svc.Audit.ListRecords(s.ctx, "tenant-b", 0, 0)
	s.Require().NoError(err)
	s.Require().Len(b, 1)
	s.EqualValues(1, b[0].SequenceID)
	s.Equal(domain.GenesisHash, b[0].PreviousHash)
	s.Equal("bob", b[0].Actor)
}

func (s *LedgerSuite) TestVerifyDetectsTampering() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)
	s.transfer(fy.PeriodID, "2026-01-05", bank.AccountID, sales.AccountID, "10")
	s.requireIntact()

	s.repos.AuditRepo = &tamperingAuditRepo{AuditRepositoryFacade: s.repos.AuditRepo, seq: 3}
	s.rebuild()

	report, err := s.svc.Audit.Verify(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err, "integrity failures are reported, not returned")
	s.False(report.Intact)
	s.Require().Len(report.Records, 5)
	s.Equal(domain.VerifyValid, report.Records[0].Status)
	s.Equal(domain.VerifyValid, report.Records[1].Status)
	s.Equal(domain.VerifyHashMismatch, report.Records[2].Status)
	s.NotEqual(report.Records[2].StoredHash, report.Records[2].ComputedHash)
	s.Equal(domain.VerifyChainBreak, report.Records[3].Status)
	s.Equal(domain.VerifyChainBreak, report.Records[4].Status)
	s.ErrorIs(report.Err(), apperrors.ErrHashMismatch)
	s.ErrorIs(report.Err(), apperrors.ErrIntegrity)
	s.Contains(report.Err().Error(), "sequence 3")

	// a range starting after the tampered record still verifies
	tail, err := s.svc.Audit.Verify(s.ctx, tenantID, 4, 0)
	s.Require().NoError(err)
	s.True(tail.Intact)
	s.NoError(tail.Err())
	s.Len(tail.Records, 2)

	// a range starting on it anchors to the untouched predecessor
	from3, err := s.svc.Audit.Verify(s.ctx, tenantID, 3, 4)
	s.Require().NoError(err)
	s.False(from3.Intact)
	s.Equal(domain.VerifyHashMismatch, from3.Records[0].Status)
}

func (s *LedgerSuite) TestVerifyRejectsBadRange() {
	_, err := s.svc.Audit.Verify(s.ctx, tenantID, 5, 2)
	s.ErrorIs(err, apperrors.ErrValidation)

	empty, err := s.svc.Audit.Verify(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err)
	s.True(empty.Intact)
	s.Empty(empty.Records)
}

func (s *LedgerSuite) TestFailedAuditRollsBackMutation() {
	s.repos.AuditRepo = &failingAuditRepo{AuditRepositoryFacade: s.repos.AuditRepo}
	s.rebuild()

	_, err := s.svc.Account.CreateAccount(s.ctx, tenantID, dto.CreateAccountRequest{Number: "512", Label: "Bank", Class: 5}, actor)
	s.Require().Error(err)

	accounts, err := s.svc.Account.ListAccounts(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Empty(accounts, "the account is not saved without its audit record")
}

// --- Concurrency ---

func (s *LedgerSuite) TestConcurrentPostsKeepChainAndBalances() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	const n = 40
	ids := make([]string, n)
	for i := range ids {
		e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-07-01",
			line(bank.AccountID, "2.50", "0"), line(sales.AccountID, "0", "2.50")), actor)
		s.Require().NoError(err)
		ids[i] = e.EntryID
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for _, id := range ids {
		wg.Add(2)
		// each draft is posted twice at once; exactly one must win
		for k := 0; k < 2; k++ {
			go func(id string) {
				defer wg.Done()
				_, err := s.svc.Journal.Post(s.ctx, tenantID, id, actor)
				errs <- err
			}(id)
		}
	}
	wg.Wait()
	close(errs)

	var ok, notDraft int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case s.ErrorIs(err, apperrors.ErrEntryNotDraft):
			notDraft++
		}
	}
	s.Equal(n, ok)
	s.Equal(n, notDraft)
	s.assertDecimal("100.00", s.balance(bank.AccountID, ""))

	report := s.requireIntact()
	s.Len(report.Records, 3+2*n)
}

func (s *LedgerSuite) TestCloseRacingPostsIsLinearizable() {
	fy := s.period("FY2026", "2026-01-01", "2026-12-31")
	bank := s.account("512", "Bank", 5, false, nil)
	sales := s.account("700", "Sales", 7, false, nil)

	const n = 30
	ids := make([]string, n)
	for i := range ids {
		e, err := s.svc.Journal.CreateDraft(s.ctx, tenantID, draftRequest(fy.PeriodID, "2026-07-01",
			line(bank.AccountID, "1", "0"), line(sales.AccountID, "0", "1")), actor)
		s.Require().NoError(err)
		ids[i] = e.EntryID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	posted := 0
	for i, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.svc.Journal.Post(s.ctx, tenantID, id, actor)
			if err == nil {
				mu.Lock()
				posted++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, apperrors.ErrPeriodNotOpen)
		}(id)
		if i == n/2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.svc.FiscalPeriod.ClosePeriod(s.ctx, tenantID, fy.PeriodID, actor)
				s.NoError(err)
			}()
		}
	}
	wg.Wait()

	records, err := s.svc.Audit.ListRecords(s.ctx, tenantID, 0, 0)
	s.Require().NoError(err)
	var closeSeq int64
	postSeqs := make([]int64, 0, n)
	for _, r := range records {
		switch {
		case r.EntityType == domain.EntityFiscalPeriod && r.Action == domain.ActionUpdate:
			closeSeq = r.SequenceID
		case r.Action == domain.ActionPost:
			postSeqs = append(postSeqs, r.SequenceID)
		}
	}
	s.Require().NotZero(closeSeq)
	s.Len(postSeqs, posted)
	for _, seq := range postSeqs {
		s.Less(seq, closeSeq, "no post lands after the period closed")
	}
	s.assertDecimal(decimal.NewFromInt(int64(posted)).String(), s.balance(bank.AccountID, ""))
	s.requireIntact()
}

// tamperingAuditRepo rewrites the details of one stored record as it is read back.
type tamperingAuditRepo struct {
	portsrepo.AuditRepositoryFacade
	seq int64
}

func (r *tamperingAuditRepo) tamper(rec domain.AuditRecord) domain.AuditRecord {
	if rec.SequenceID == r.seq {
		rec.Details += " (edited)"
	}
	return rec
}

func (r *tamperingAuditRepo) ListRecords(ctx context.Context, tenantID string, fromSeq, toSeq int64) ([]domain.AuditRecord, error) {
	records, err := r.AuditRepositoryFacade.ListRecords(ctx, tenantID, fromSeq, toSeq)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditRecord, len(records))
	for i, rec := range records {
		out[i] = r.tamper(rec)
	}
	return out, nil
}

func (r *tamperingAuditRepo) FindRecordBySequence(ctx context.Context, tenantID string, sequenceID int64) (*domain.AuditRecord, error) {
	rec, err := r.AuditRepositoryFacade.FindRecordBySequence(ctx, tenantID, sequenceID)
	if err != nil {
		return nil, err
	}
	t := r.tamper(*rec)
	return &t, nil
}

type failingAuditRepo struct {
	portsrepo.AuditRepositoryFacade
}

func (r *failingAuditRepo) AppendRecord(ctx context.Context, record domain.AuditRecord) error {
	return apperrors.NewAppError(500, "audit store unavailable", context.DeadlineExceeded)
}
