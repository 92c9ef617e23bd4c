package models

// Tier is a row of the tiers table.
type Tier struct {
	TierID   string `db:"tier_id"`
	TenantID string `db:"tenant_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	Type     string `db:"type"`
	NIF      string `db:"nif"`
	NIS      string `db:"nis"`
	RC       string `db:"rc"`
	AI       string `db:"ai"`
	Phone    string `db:"phone"`
	Email    string `db:"email"`
	Address  string `db:"address"`
	AuditFields
}
