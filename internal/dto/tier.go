package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// CreateTierRequest defines the data needed to register a third party.
type CreateTierRequest struct {
	Code    string `json:"code" binding:"required,max=30"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,tiertype"`
	NIF     string `json:"nif"`
	NIS     string `json:"nis"`
	RC      string `json:"rc"`
	AI      string `json:"ai"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// UpdateTierRequest defines the fields of a tier that may change.
type UpdateTierRequest struct {
	Code    *string `json:"code" binding:"omitempty,max=30"`
	Name    *string `json:"name"`
	Type    *string `json:"type" binding:"omitempty,tiertype"`
	NIF     *string `json:"nif"`
	NIS     *string `json:"nis"`
	RC      *string `json:"rc"`
	AI      *string `json:"ai"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// ListTiersParams defines query parameters for listing tiers.
type ListTiersParams struct {
	Type string `form:"type" binding:"omitempty,tiertype"`
}

// TierResponse defines the data returned for a tier.
type TierResponse struct {
	TierID        string          `json:"tierID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          domain.TierType `json:"type"`
	NIF           string          `json:"nif,omitempty"`
	NIS           string          `json:"nis,omitempty"`
	RC            string          `json:"rc,omitempty"`
	AI            string          `json:"ai,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToTierResponse converts a domain.Tier to its DTO.
func ToTierResponse(t *domain.Tier) TierResponse {
	return TierResponse{
		TierID:        t.TierID,
		Code:          t.Code,
		Name:          t.Name,
		Type:          t.Type,
		NIF:           t.NIF,
		NIS:           t.NIS,
		RC:            t.RC,
		AI:            t.AI,
		Phone:         t.Phone,
		Email:         t.Email,
		Address:       t.Address,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListTiersResponse wraps the list of tiers.
type ListTiersResponse struct {
	Tiers []TierResponse `json:"tiers"`
}

// ToListTiersResponse converts tiers to their DTOs.
func ToListTiersResponse(tiers []domain.Tier) ListTiersResponse {
	res := make([]TierResponse, len(tiers))
	for i := range tiers {
		res[i] = ToTierResponse(&tiers[i])
	}
	return ListTiersResponse{Tiers: res}
}
