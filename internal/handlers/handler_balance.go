package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := &balanceHandler{balanceService: balanceService}
	rg.GET("/balances", h.listBalances)
}

// listBalances godoc
// @Summary List balances of every account
// @Description Balances of the whole chart computed from one consistent snapshot
// @Tags balances
// @Produce json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   periodID query string false "Restrict to one fiscal period"
// @Success 200 {object} dto.ListBalancesResponse
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Router /balances [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListBalances query")
		return
	}
	tenantID, _ := tenantAndActor(c)

	balances, err := h.balanceService.AccountBalances(c.Request.Context(), tenantID, params.PeriodID)
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, dto.ListBalancesResponse{PeriodID: params.PeriodID, Balances: balances})
}
