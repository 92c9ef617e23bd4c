package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries.
	ListEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the posting state machine
type JournalWriterSvc interface {
	// CreateDraft validates and records a new draft entry.
	CreateDraft(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error)

	// UpdateDraft re-validates and replaces a draft entry. Lines are replaced wholesale.
	UpdateDraft(ctx context.Context, tenantID string, entryID string, req dto.UpdateJournalEntryRequest, actor string) (*domain.JournalEntry, error)

	// DeleteDraft removes a draft entry.
	DeleteDraft(ctx context.Context, tenantID string, entryID string, actor string) error

	// Post finalizes a draft entry. Posted entries are immutable.
	Post(ctx context.Context, tenantID string, entryID string, actor string) (*domain.JournalEntry, error)

	// ReverseEntry creates a draft offsetting a posted entry.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, req dto.ReverseJournalEntryRequest, actor string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
