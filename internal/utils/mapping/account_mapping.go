package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Number:          d.Number,
		Label:           d.Label,
		Class:           int16(d.Class),
		IsSummary:       d.IsSummary,
		IsAuxiliary:     d.IsAuxiliary,
		ParentAccountID: nullable(d.ParentAccountID),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Number:          m.Number,
		Label:           m.Label,
		Class:           domain.AccountClass(m.Class),
		IsSummary:       m.IsSummary,
		IsAuxiliary:     m.IsAuxiliary,
		ParentAccountID: deref(m.ParentAccountID),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
