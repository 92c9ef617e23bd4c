package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Number          string  `json:"number" binding:"required,max=20"`
	Label           string  `json:"label" binding:"required"`
	Class           int     `json:"class" binding:"required,accountclass"`
	IsSummary       bool    `json:"isSummary"`
	IsAuxiliary     bool    `json:"isAuxiliary"`
	ParentAccountID *string `json:"parentAccountID"` // Optional, use pointer for nullability
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// An empty ParentAccountID detaches the account from its parent.
type UpdateAccountRequest struct {
	Number          *string `json:"number" binding:"omitempty,max=20"`
	Label           *string `json:"label"`
	Class           *int    `json:"class" binding:"omitempty,accountclass"`
	IsSummary       *bool   `json:"isSummary"`
	IsAuxiliary     *bool   `json:"isAuxiliary"`
	ParentAccountID *string `json:"parentAccountID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	Number          string                `json:"number"`
	Label           string                `json:"label"`
	Class           int                   `json:"class"`
	Classification  domain.Classification `json:"classification"`
	IsSummary       bool                  `json:"isSummary"`
	IsAuxiliary     bool                  `json:"isAuxiliary"`
	ParentAccountID string                `json:"parentAccountID"` // Note: Empty string for root accounts
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	classification, _ := acc.Classification()
	return AccountResponse{
		AccountID:       acc.AccountID,
		Number:          acc.Number,
		Label:           acc.Label,
		Class:           int(acc.Class),
		Classification:  classification,
		IsSummary:       acc.IsSummary,
		IsAuxiliary:     acc.IsAuxiliary,
		ParentAccountID: acc.ParentAccountID,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceParams defines query parameters for a balance lookup.
type AccountBalanceParams struct {
	PeriodID string `form:"periodID"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	PeriodID  string          `json:"periodID,omitempty"`
	IsSummary bool            `json:"isSummary"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListBalancesResponse maps account ids to their balance.
type ListBalancesResponse struct {
	PeriodID string                     `json:"periodID,omitempty"`
	Balances map[string]decimal.Decimal `json:"balances"`
}
