package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalPeriodHandler handles HTTP requests related to fiscal periods.
type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

// registerFiscalPeriodRoutes registers routes related to fiscal periods.
func registerFiscalPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := &fiscalPeriodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
		periods.DELETE("/:id", h.deletePeriod)
		periods.POST("/:id/lock", h.lockPeriod)
		periods.POST("/:id/close", h.closePeriod)
	}
}

// createPeriod godoc
// @Summary Open a fiscal period
// @Description Creates an OPEN period; its date range may not overlap another period of the tenant
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   period body dto.CreateFiscalPeriodRequest true "Period details"
// @Success 201 {object} dto.FiscalPeriodResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 422 {object} map[string]string "Invalid or overlapping date range"
// @Failure 500 {object} map[string]string "Failed to create fiscal period"
// @Router /periods [post]
func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateFiscalPeriod body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	period, err := h.periodService.CreatePeriod(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to create fiscal period")
		return
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags periods
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Success 200 {object} dto.ListFiscalPeriodsResponse
// @Failure 500 {object} map[string]string "Failed to list fiscal periods"
// @Router /periods [get]
func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	tenantID, _ := tenantAndActor(c)
	periods, err := h.periodService.ListPeriods(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListFiscalPeriodsResponse(periods))
}

// getPeriod godoc
// @Summary Get a fiscal period by ID
// @Tags periods
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal period"
// @Router /periods/{id} [get]
func (h *fiscalPeriodHandler) getPeriod(c *gin.Context) {
	tenantID, _ := tenantAndActor(c)
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// deletePeriod godoc
// @Summary Delete a fiscal period
// @Description Only periods without journal entries can be deleted
// @Tags periods
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Period ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period has journal entries"
// @Failure 500 {object} map[string]string "Failed to delete fiscal period"
// @Router /periods/{id} [delete]
func (h *fiscalPeriodHandler) deletePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")
	tenantID, actor := tenantAndActor(c)

	if err := h.periodService.DeletePeriod(c.Request.Context(), tenantID, periodID, actor); err != nil {
		respondError(c, err, "Failed to delete fiscal period")
		return
	}
	logger.Info("Fiscal period deleted", slog.String("period_id", periodID))
	c.Status(http.StatusNoContent)
}

// lockPeriod godoc
// @Summary Lock a fiscal period
// @Description Moves an OPEN period to LOCKED; no further entries can be written to it
// @Tags periods
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period is not open"
// @Failure 500 {object} map[string]string "Failed to lock fiscal period"
// @Router /periods/{id}/lock [post]
func (h *fiscalPeriodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, h.periodService.LockPeriod, "Failed to lock fiscal period")
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Moves an OPEN or LOCKED period to CLOSED. Closed is terminal.
// @Tags periods
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Period already closed"
// @Failure 500 {object} map[string]string "Failed to close fiscal period"
// @Router /periods/{id}/close [post]
func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	h.transition(c, h.periodService.ClosePeriod, "Failed to close fiscal period")
}

type periodTransition func(ctx context.Context, tenantID, periodID, actor string) (*domain.FiscalPeriod, error)

func (h *fiscalPeriodHandler) transition(c *gin.Context, apply periodTransition, failure string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor := tenantAndActor(c)

	period, err := apply(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondError(c, err, failure)
		return
	}
	logger.Info("Fiscal period status changed", slog.String("period_id", period.PeriodID), slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}
