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
	"github.com/SscSPs/general_ledger/internal/utils/accounting"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// journalService drives entries through Draft -> Posted.
//
// Every mutation takes the period's shared lock, then the entry's exclusive lock, then
// opens a transaction. Lock and close take the period's exclusive lock, so no draft can
// be written or posted into a period while it changes status.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	tierRepo    portsrepo.TierReader
	periodSvc   portssvc.FiscalPeriodReaderSvc
	auditSvc    portssvc.AuditAppenderSvc
	txManager   portsrepo.TransactionManager
	locks       *LockRegistry
	cache       portsrepo.BalanceCache
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalLocks shares a lock registry with the fiscal period service.
func WithJournalLocks(locks *LockRegistry) JournalServiceOption {
	return func(s *journalService) {
		s.locks = locks
	}
}

// WithJournalBalanceCache invalidates cached balances after every post.
func WithJournalBalanceCache(cache portsrepo.BalanceCache) JournalServiceOption {
	return func(s *journalService) {
		s.cache = cache
	}
}

// WithJournalClock overrides the clock used for audit fields and posting time.
func WithJournalClock(clock func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.Clock = clock
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	tierRepo portsrepo.TierReader,
	periodSvc portssvc.FiscalPeriodReaderSvc,
	auditSvc portssvc.AuditAppenderSvc,
	txManager portsrepo.TransactionManager,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		tierRepo:    tierRepo,
		periodSvc:   periodSvc,
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

func (s *journalService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	if err := requiredField("fiscalPeriodID", req.FiscalPeriodID); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	entry := domain.JournalEntry{
		TenantID:       tenantID,
		FiscalPeriodID: req.FiscalPeriodID,
		Date:           date,
		JournalCode:    domain.JournalCode(strings.ToUpper(strings.TrimSpace(req.JournalCode))),
		Reference:      strings.TrimSpace(req.Reference),
		Description:    strings.TrimSpace(req.Description),
		Lines:          linesFromRequest(req.Lines),
	}
	created, err := s.insertDraft(ctx, entry, actor,
		fmt.Sprintf("created draft %s on %s", describeEntry(entry), req.Date))
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create journal entry",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", req.FiscalPeriodID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", created.EntryID),
		slog.Int("lines", len(created.Lines)))
	return created, nil
}

// insertDraft validates entry against its period and stores it as a new draft.
func (s *journalService) insertDraft(ctx context.Context, entry domain.JournalEntry, actor string, details string) (*domain.JournalEntry, error) {
	unlock := s.locks.RLock(periodLockKey(entry.TenantID, entry.FiscalPeriodID))
	defer unlock()

	now := s.Now()
	entry.EntryID = uuid.NewString()
	entry.Status = domain.Draft
	entry.AuditFields = domain.NewAuditFields(actor, now)
	assignLineIDs(&entry)

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		period, err := s.periodSvc.AssertWritable(txCtx, entry.TenantID, entry.FiscalPeriodID)
		if err != nil {
			return err
		}
		if err := s.validateEntry(txCtx, period, entry); err != nil {
			return err
		}
		if err := s.journalRepo.SaveEntry(txCtx, entry); err != nil {
			return err
		}
		_, err = s.auditSvc.Append(txCtx, entry.TenantID, actor, domain.ActionCreate, domain.EntityJournalEntry, entry.EntryID, details)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *journalService) UpdateDraft(ctx context.Context, tenantID string, entryID string, req dto.UpdateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}
	var date *time.Time
	if req.Date != nil {
		d, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		date = &d
	}

	var updated domain.JournalEntry
	err := s.withEntryLocked(ctx, tenantID, entryID, func(txCtx context.Context, entry *domain.JournalEntry) error {
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, entryID, entry.Status)
		}
		period, err := s.periodSvc.AssertWritable(txCtx, tenantID, entry.FiscalPeriodID)
		if err != nil {
			return err
		}

		if date != nil {
			entry.Date = *date
		}
		if req.JournalCode != nil {
			entry.JournalCode = domain.JournalCode(strings.ToUpper(strings.TrimSpace(*req.JournalCode)))
		}
		if req.Reference != nil {
			entry.Reference = strings.TrimSpace(*req.Reference)
		}
		if req.Description != nil {
			entry.Description = strings.TrimSpace(*req.Description)
		}
		if req.Lines != nil {
			entry.Lines = linesFromRequest(req.Lines)
			assignLineIDs(entry)
		}
		entry.Touch(actor, s.Now())

		if err := s.validateEntry(txCtx, period, *entry); err != nil {
			return err
		}
		if err := s.journalRepo.ReplaceEntry(txCtx, *entry); err != nil {
			return err
		}
		updated = *entry
		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionUpdate, domain.EntityJournalEntry, entryID,
			fmt.Sprintf("updated draft %s", describeEntry(*entry)))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update journal entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
	return &updated, nil
}

func (s *journalService) DeleteDraft(ctx context.Context, tenantID string, entryID string, actor string) error {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return err
	}

	err := s.withEntryLocked(ctx, tenantID, entryID, func(txCtx context.Context, entry *domain.JournalEntry) error {
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, entryID, entry.Status)
		}
		if _, err := s.periodSvc.AssertWritable(txCtx, tenantID, entry.FiscalPeriodID); err != nil {
			return err
		}
		if err := s.journalRepo.DeleteEntry(txCtx, tenantID, entryID); err != nil {
			return err
		}
		_, err := s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionDelete, domain.EntityJournalEntry, entryID,
			fmt.Sprintf("deleted draft %s", describeEntry(*entry)))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to delete journal entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
	return nil
}

// Post re-checks everything a draft was checked against, since accounts and tiers may
// have changed since it was written.
func (s *journalService) Post(ctx context.Context, tenantID string, entryID string, actor string) (*domain.JournalEntry, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	var posted domain.JournalEntry
	err := s.withEntryLocked(ctx, tenantID, entryID, func(txCtx context.Context, entry *domain.JournalEntry) error {
		if !entry.IsDraft() {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotDraft, entryID, entry.Status)
		}
		period, err := s.periodSvc.AssertWritable(txCtx, tenantID, entry.FiscalPeriodID)
		if err != nil {
			return err
		}
		if err := s.validateEntry(txCtx, period, *entry); err != nil {
			return err
		}

		now := s.Now()
		if err := s.journalRepo.MarkEntryPosted(txCtx, tenantID, entryID, actor, now); err != nil {
			return err
		}
		entry.Status = domain.Posted
		entry.PostedAt = &now
		entry.PostedBy = actor
		entry.Touch(actor, now)
		posted = *entry

		_, err = s.auditSvc.Append(txCtx, tenantID, actor, domain.ActionPost, domain.EntityJournalEntry, entryID,
			fmt.Sprintf("posted %s", describeEntry(*entry)))
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to post journal entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return nil, err
	}

	invalidateBalances(ctx, &s.BaseService, s.cache, tenantID)
	s.LogInfo(ctx, "Journal entry posted", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
	return &posted, nil
}

// ReverseEntry records a draft that offsets a posted entry line for line.
func (s *journalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, req dto.ReverseJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	if err := requireTenantAndActor(tenantID, actor); err != nil {
		return nil, err
	}

	original, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find journal entry to reverse", slog.String("entry_id", entryID))
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s is %s", apperrors.ErrEntryNotPosted, entryID, original.Status)
	}

	reversal := domain.JournalEntry{
		TenantID:          tenantID,
		FiscalPeriodID:    original.FiscalPeriodID,
		Date:              original.Date,
		JournalCode:       original.JournalCode,
		Reference:         original.Reference,
		Description:       "Reversal of " + referenceOf(*original),
		Lines:             accounting.ReverseLines(original.Lines),
		ReversalOfEntryID: original.EntryID,
	}
	if req.FiscalPeriodID != nil && strings.TrimSpace(*req.FiscalPeriodID) != "" {
		reversal.FiscalPeriodID = strings.TrimSpace(*req.FiscalPeriodID)
	}
	if req.Date != nil {
		d, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		reversal.Date = d
	}

	created, err := s.insertDraft(ctx, reversal, actor,
		fmt.Sprintf("created reversal of %s as %s", entryID, describeEntry(reversal)))
	if err != nil {
		s.LogFailure(ctx, err, "Failed to reverse journal entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", entryID),
		slog.String("reversal_id", created.EntryID))
	return created, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	filter := domain.EntryFilter{
		FiscalPeriodID: params.FiscalPeriodID,
		Status:         domain.EntryStatus(strings.ToUpper(params.Status)),
		Limit:          pagination.NormalizeLimit(params.Limit),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
	}
	if params.NextToken != "" {
		token := params.NextToken
		filter.NextToken = &token
	}

	entries, next, err := s.journalRepo.ListEntries(ctx, tenantID, filter)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, err
	}

	resp := &dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: next,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	s.LogDebug(ctx, "Journal entries listed", slog.String("tenant_id", tenantID), slog.Int("count", len(entries)))
	return resp, nil
}

// withEntryLocked takes the period and entry locks in order and runs fn in a transaction
// with the entry row locked.
func (s *journalService) withEntryLocked(ctx context.Context, tenantID, entryID string, fn func(txCtx context.Context, entry *domain.JournalEntry) error) error {
	// the period of an entry never changes, so it can be read before locking
	current, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return err
	}

	unlockPeriod := s.locks.RLock(periodLockKey(tenantID, current.FiscalPeriodID))
	defer unlockPeriod()
	unlockEntry := s.locks.Lock(entryLockKey(tenantID, entryID))
	defer unlockEntry()

	return s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		entry, err := s.journalRepo.FindEntryForUpdate(txCtx, tenantID, entryID)
		if err != nil {
			return err
		}
		return fn(txCtx, entry)
	})
}

// validateEntry runs every check of a draft in a fixed order: date, journal code,
// accounts, tiers, then line structure and balance.
func (s *journalService) validateEntry(ctx context.Context, period *domain.FiscalPeriod, entry domain.JournalEntry) error {
	if !period.Contains(entry.Date) {
		return fmt.Errorf("%w: %s not in %s..%s", apperrors.ErrDateOutOfPeriod,
			entry.Date.Format(dto.DateLayout), period.StartDate.Format(dto.DateLayout), period.EndDate.Format(dto.DateLayout))
	}
	if !entry.JournalCode.IsValid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidJournalCode, entry.JournalCode)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, entry.TenantID, entry.AccountIDs())
	if err != nil {
		return err
	}
	for _, l := range entry.Lines {
		account, ok := accounts[l.AccountID]
		if !ok {
			return fmt.Errorf("%w: %q on line %d", apperrors.ErrUnknownAccount, l.AccountID, l.Position)
		}
		if account.IsSummary {
			return fmt.Errorf("%w: %s on line %d", apperrors.ErrPostingToSummaryAccount, account.Number, l.Position)
		}
	}

	if tierIDs := entry.TierIDs(); len(tierIDs) > 0 {
		tiers, err := s.tierRepo.FindTiersByIDs(ctx, entry.TenantID, tierIDs)
		if err != nil {
			return err
		}
		for _, id := range tierIDs {
			if _, ok := tiers[id]; !ok {
				return fmt.Errorf("%w: %q", apperrors.ErrUnknownTier, id)
			}
		}
	}

	return accounting.ValidateEntryLines(entry.Lines)
}

func linesFromRequest(reqs []dto.JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		tierID := ""
		if r.TierID != nil {
			tierID = strings.TrimSpace(*r.TierID)
		}
		lines[i] = domain.JournalLine{
			Position:  i,
			AccountID: strings.TrimSpace(r.AccountID),
			TierID:    tierID,
			Label:     r.Label,
			Debit:     r.Debit,
			Credit:    r.Credit,
		}
	}
	return lines
}

func assignLineIDs(entry *domain.JournalEntry) {
	for i := range entry.Lines {
		entry.Lines[i].LineID = uuid.NewString()
		entry.Lines[i].EntryID = entry.EntryID
		entry.Lines[i].Position = i
	}
}

func referenceOf(e domain.JournalEntry) string {
	if e.Reference != "" {
		return e.Reference
	}
	return e.EntryID
}

func describeEntry(e domain.JournalEntry) string {
	debit, credit := e.Totals()
	return fmt.Sprintf("%s %q [%s] %d lines, debit %s credit %s",
		e.JournalCode, e.Reference, e.FiscalPeriodID, len(e.Lines), debit.StringFixed(2), credit.StringFixed(2))
}
