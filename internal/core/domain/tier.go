package domain

// TierType tells whether a third party buys from us, sells to us, or both.
type TierType string

const (
	TierClient   TierType = "CLIENT"
	TierSupplier TierType = "SUPPLIER"
	TierBoth     TierType = "BOTH"
)

// IsValid reports whether t is a known tier type.
func (t TierType) IsValid() bool {
	switch t {
	case TierClient, TierSupplier, TierBoth:
		return true
	default:
		return false
	}
}

// Matches reports whether a tier of type t should appear when filtering by want.
func (t TierType) Matches(want TierType) bool {
	if want == "" || want == TierBoth {
		return true
	}
	return t == want || t == TierBoth
}

// Tier is a client or supplier referenced by journal lines.
type Tier struct {
	TierID   string   `json:"tierID"`
	TenantID string   `json:"tenantID"`
	Code     string   `json:"code"` // Unique within a tenant
	Name     string   `json:"name"`
	Type     TierType `json:"type"`
	NIF      string   `json:"nif"` // Tax identification number
	NIS      string   `json:"nis"` // Statistical identification number
	RC       string   `json:"rc"`  // Trade register number
	AI       string   `json:"ai"`  // Tax article number
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Address  string   `json:"address"`
	AuditFields
}
