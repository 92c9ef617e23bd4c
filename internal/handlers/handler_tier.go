package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tierHandler handles HTTP requests related to third parties.
type tierHandler struct {
	tierService portssvc.TierSvcFacade
}

// registerTierRoutes registers routes related to tiers.
func registerTierRoutes(rg *gin.RouterGroup, tierService portssvc.TierSvcFacade) {
	h := &tierHandler{tierService: tierService}

	tiers := rg.Group("/tiers")
	{
		tiers.POST("", h.createTier)
		tiers.GET("", h.listTiers)
		tiers.GET("/:id", h.getTier)
		tiers.PUT("/:id", h.updateTier)
		tiers.DELETE("/:id", h.deleteTier)
	}
}

// createTier godoc
// @Summary Register a third party
// @Description Creates a client, supplier or mixed tier
// @Tags tiers
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   tier body dto.CreateTierRequest true "Tier details"
// @Success 201 {object} dto.TierResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 422 {object} map[string]string "Duplicate code or invalid type"
// @Failure 500 {object} map[string]string "Failed to create tier"
// @Router /tiers [post]
func (h *tierHandler) createTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateTier body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	tier, err := h.tierService.CreateTier(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to create tier")
		return
	}

	logger.Info("Tier created", slog.String("tier_id", tier.TierID))
	c.JSON(http.StatusCreated, dto.ToTierResponse(tier))
}

// listTiers godoc
// @Summary List tiers
// @Description A type filter of CLIENT or SUPPLIER also returns BOTH tiers
// @Tags tiers
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   type query string false "CLIENT, SUPPLIER or BOTH"
// @Success 200 {object} dto.ListTiersResponse
// @Failure 400 {object} map[string]string "Invalid type"
// @Failure 500 {object} map[string]string "Failed to list tiers"
// @Router /tiers [get]
func (h *tierHandler) listTiers(c *gin.Context) {
	var params dto.ListTiersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListTiers query")
		return
	}
	tenantID, _ := tenantAndActor(c)

	tiers, err := h.tierService.ListTiers(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list tiers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTiersResponse(tiers))
}

// getTier godoc
// @Summary Get a tier by ID
// @Tags tiers
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   id path string true "Tier ID"
// @Success 200 {object} dto.TierResponse
// @Failure 404 {object} map[string]string "Tier not found"
// @Failure 500 {object} map[string]string "Failed to retrieve tier"
// @Router /tiers/{id} [get]
func (h *tierHandler) getTier(c *gin.Context) {
	tenantID, _ := tenantAndActor(c)
	tier, err := h.tierService.GetTierByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve tier")
		return
	}
	c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

// updateTier godoc
// @Summary Update a tier
// @Tags tiers
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Tier ID"
// @Param   tier body dto.UpdateTierRequest true "Fields to update"
// @Success 200 {object} dto.TierResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Tier not found"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to update tier"
// @Router /tiers/{id} [put]
func (h *tierHandler) updateTier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tierID := c.Param("id")
	var req dto.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateTier body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	tier, err := h.tierService.UpdateTier(c.Request.Context(), tenantID, tierID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to update tier")
		return
	}
	logger.Info("Tier updated", slog.String("tier_id", tierID))
	c.JSON(http.StatusOK, dto.ToTierResponse(tier))
}

// deleteTier godoc
// @Summary Delete a tier
// @Description Tiers referenced by journal lines cannot be deleted
// @Tags tiers
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Tier ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Tier not found"
// @Failure 409 {object} map[string]string "Tier in use"
// @Failure 500 {object} map[string]string "Failed to delete tier"
// @Router /tiers/{id} [delete]
func (h *tierHandler) deleteTier(c *gin.Context) {
	tierID := c.Param("id")
	tenantID, actor := tenantAndActor(c)
	if err := h.tierService.DeleteTier(c.Request.Context(), tenantID, tierID, actor); err != nil {
		respondError(c, err, "Failed to delete tier")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Tier deleted", slog.String("tier_id", tierID))
	c.Status(http.StatusNoContent)
}
