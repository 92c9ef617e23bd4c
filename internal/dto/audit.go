package dto

import "github.com/SscSPs/general_ledger/internal/core/domain"

// AuditRangeParams selects a range of the audit chain. Zero values mean unbounded.
type AuditRangeParams struct {
	FromSeq int64 `form:"from" binding:"omitempty,min=1"`
	ToSeq   int64 `form:"to" binding:"omitempty,min=1"`
}

// ListAuditRecordsResponse wraps a range of audit records.
type ListAuditRecordsResponse struct {
	Records []domain.AuditRecord `json:"records"`
}

// SeedChartResponse lists accounts created by chart seeding.
type SeedChartResponse struct {
	Created  []AccountResponse `json:"created"`
	Existing int               `json:"existing"`
}
