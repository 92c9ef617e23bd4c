package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest defines one debit or credit line of an entry.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	TierID    *string         `json:"tierID"`
	Label     string          `json:"label"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest defines the data needed to record a draft entry.
type CreateJournalEntryRequest struct {
	FiscalPeriodID string               `json:"fiscalPeriodID" binding:"required"`
	Date           string               `json:"date" binding:"required,datetime=2006-01-02"`
	JournalCode    string               `json:"journalCode" binding:"required,journalcode"`
	Reference      string               `json:"reference"`
	Description    string               `json:"description"`
	Lines          []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateJournalEntryRequest replaces fields of a draft entry.
// A non-nil Lines replaces the whole line set.
type UpdateJournalEntryRequest struct {
	Date        *string              `json:"date" binding:"omitempty,datetime=2006-01-02"`
	JournalCode *string              `json:"journalCode" binding:"omitempty,journalcode"`
	Reference   *string              `json:"reference"`
	Description *string              `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ReverseJournalEntryRequest controls where the offsetting draft is recorded.
// Both fields default to those of the original entry.
type ReverseJournalEntryRequest struct {
	FiscalPeriodID *string `json:"fiscalPeriodID"`
	Date           *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	FiscalPeriodID string `form:"periodID"`
	Status         string `form:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	Limit          int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken      string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	Position  int             `json:"position"`
	AccountID string          `json:"accountID"`
	TierID    string          `json:"tierID,omitempty"`
	Label     string          `json:"label"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	FiscalPeriodID    string                `json:"fiscalPeriodID"`
	Date              string                `json:"date"`
	JournalCode       domain.JournalCode    `json:"journalCode"`
	Reference         string                `json:"reference"`
	Description       string                `json:"description"`
	Status            domain.EntryStatus    `json:"status"`
	ReversalOfEntryID string                `json:"reversalOfEntryID,omitempty"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	Lines             []JournalLineResponse `json:"lines"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          string                `json:"postedBy,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO, computing totals.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	debit, credit := e.Totals()
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:    l.LineID,
			Position:  l.Position,
			AccountID: l.AccountID,
			TierID:    l.TierID,
			Label:     l.Label,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		FiscalPeriodID:    e.FiscalPeriodID,
		Date:              e.Date.Format(DateLayout),
		JournalCode:       e.JournalCode,
		Reference:         e.Reference,
		Description:       e.Description,
		Status:            e.Status,
		ReversalOfEntryID: e.ReversalOfEntryID,
		TotalDebit:        debit,
		TotalCredit:       credit,
		Lines:             lines,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ListJournalEntriesResponse wraps a page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
