package mapping

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row and line rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	entry := models.JournalEntry{
		EntryID:           d.EntryID,
		TenantID:          d.TenantID,
		FiscalPeriodID:    d.FiscalPeriodID,
		EntryDate:         d.Date,
		JournalCode:       string(d.JournalCode),
		Reference:         d.Reference,
		Description:       d.Description,
		Status:            string(d.Status),
		ReversalOfEntryID: nullable(d.ReversalOfEntryID),
		PostedAt:          d.PostedAt,
		PostedBy:          nullable(d.PostedBy),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = ToModelJournalLine(d.TenantID, l)
	}
	return entry, lines
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(tenantID string, d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:    d.LineID,
		EntryID:   d.EntryID,
		TenantID:  tenantID,
		Position:  int32(d.Position),
		AccountID: d.AccountID,
		TierID:    nullable(d.TierID),
		Label:     d.Label,
		Debit:     d.Debit,
		Credit:    d.Credit,
	}
}

// ToDomainJournalEntry assembles a domain JournalEntry from its header and lines.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	var postedAt *time.Time
	if m.PostedAt != nil {
		t := m.PostedAt.UTC()
		postedAt = &t
	}
	d := domain.JournalEntry{
		EntryID:           m.EntryID,
		TenantID:          m.TenantID,
		FiscalPeriodID:    m.FiscalPeriodID,
		Date:              domain.CivilDate(m.EntryDate),
		JournalCode:       domain.JournalCode(m.JournalCode),
		Reference:         m.Reference,
		Description:       m.Description,
		Status:            domain.EntryStatus(m.Status),
		ReversalOfEntryID: deref(m.ReversalOfEntryID),
		PostedAt:          postedAt,
		PostedBy:          deref(m.PostedBy),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		Lines:             make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = ToDomainJournalLine(l)
	}
	return d
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		Position:  int(m.Position),
		AccountID: m.AccountID,
		TierID:    deref(m.TierID),
		Label:     m.Label,
		Debit:     m.Debit,
		Credit:    m.Credit,
	}
}
