package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		balanceService: bs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/seed", h.seedStandardChart)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the tenant's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Parent account not found"
// @Failure 422 {object} map[string]string "Validation error (duplicate number, invalid class)"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateAccount body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	logger.Info("Received request to create account", slog.String("number", req.Number))

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// seedStandardChart godoc
// @Summary Seed the standard chart of accounts
// @Description Creates the standard accounts (classes 1 to 7) missing from the tenant's chart
// @Tags accounts
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Success 200 {object} dto.SeedChartResponse
// @Failure 500 {object} map[string]string "Failed to seed chart"
// @Router /accounts/seed [post]
func (h *accountHandler) seedStandardChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor := tenantAndActor(c)

	created, err := h.accountService.SeedStandardChart(c.Request.Context(), tenantID, actor)
	if err != nil {
		respondError(c, err, "Failed to seed chart")
		return
	}

	logger.Info("Standard chart seeded", slog.Int("created", len(created)))
	c.JSON(http.StatusOK, dto.SeedChartResponse{
		Created:  dto.ToListAccountResponse(created),
		Existing: len(domain.StandardChart) - len(created),
	})
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	tenantID, _ := tenantAndActor(c)

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Retrieves every account of the tenant ordered by number
// @Tags accounts
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _ := tenantAndActor(c)

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates an account's number, label, class, flags or parent
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account is referenced by journal lines"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateAccount body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	account, err := h.accountService.UpdateAccount(c.Request.Context(), tenantID, accountID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes an account that has no children and no journal lines
// @Tags accounts
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Account ID to delete"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account in use or has children"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	tenantID, actor := tenantAndActor(c)

	if err := h.accountService.DeleteAccount(c.Request.Context(), tenantID, accountID, actor); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Debit minus credit of posted lines; summary accounts return the sum of their descendants
// @Tags accounts
// @Produce json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   id path string true "Account ID"
// @Param   periodID query string false "Restrict to one fiscal period"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	accountID := c.Param("id")
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "AccountBalance query")
		return
	}
	tenantID, _ := tenantAndActor(c)

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	balance, err := h.balanceService.AccountBalance(c.Request.Context(), tenantID, accountID, params.PeriodID)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		PeriodID:  params.PeriodID,
		IsSummary: account.IsSummary,
		Balance:   balance,
	})
}
