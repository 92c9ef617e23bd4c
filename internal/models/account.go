package models

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	TenantID        string  `db:"tenant_id"`
	Number          string  `db:"number"`
	Label           string  `db:"label"`
	Class           int16   `db:"class"`
	IsSummary       bool    `db:"is_summary"`
	IsAuxiliary     bool    `db:"is_auxiliary"`
	ParentAccountID *string `db:"parent_account_id"` // Nullable
	AuditFields
}
