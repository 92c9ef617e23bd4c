package mapping

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/models"
)

// ToModelTier converts a domain Tier to a model Tier
func ToModelTier(d domain.Tier) models.Tier {
	return models.Tier{
		TierID:      d.TierID,
		TenantID:    d.TenantID,
		Code:        d.Code,
		Name:        d.Name,
		Type:        string(d.Type),
		NIF:         d.NIF,
		NIS:         d.NIS,
		RC:          d.RC,
		AI:          d.AI,
		Phone:       d.Phone,
		Email:       d.Email,
		Address:     d.Address,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTier converts a model Tier to a domain Tier
func ToDomainTier(m models.Tier) domain.Tier {
	return domain.Tier{
		TierID:      m.TierID,
		TenantID:    m.TenantID,
		Code:        m.Code,
		Name:        m.Name,
		Type:        domain.TierType(m.Type),
		NIF:         m.NIF,
		NIS:         m.NIS,
		RC:          m.RC,
		AI:          m.AI,
		Phone:       m.Phone,
		Email:       m.Email,
		Address:     m.Address,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
