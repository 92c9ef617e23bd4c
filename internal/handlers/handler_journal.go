package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateDraft)
		entries.DELETE("/:id", h.deleteDraft)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
	}
}

// createDraft godoc
// @Summary Create a draft journal entry
// @Description Records a balanced draft in an OPEN period
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Period, account or tier not found"
// @Failure 409 {object} map[string]string "Period not open"
// @Failure 422 {object} map[string]string "Invalid lines or date outside period"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Router /journal-entries [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateJournalEntry body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	logger = logger.With(slog.String("period_id", req.FiscalPeriodID), slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.CreateDraft(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}

	logger.Info("Draft journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first using token-based pagination
// @Tags journal-entries
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   periodID query string false "Filter by fiscal period"
// @Param   status query string false "DRAFT or POSTED"
// @Param   limit query int false "Maximum number of entries to return (default 20)"
// @Param   nextToken query string false "Token for fetching the next page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListJournalEntries query")
		return
	}
	tenantID, _ := tenantAndActor(c)

	resp, err := h.journalService.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal-entries
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	tenantID, _ := tenantAndActor(c)
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateDraft godoc
// @Summary Update a draft journal entry
// @Description Replaces header fields and, when lines are given, the whole line set
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or period not open"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Router /journal-entries/{id} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateJournalEntry body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	entry, err := h.journalService.UpdateDraft(c.Request.Context(), tenantID, entryID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}
	logger.Info("Draft journal entry updated", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteDraft godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or period not open"
// @Failure 500 {object} map[string]string "Failed to delete journal entry"
// @Router /journal-entries/{id} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	entryID := c.Param("id")
	tenantID, actor := tenantAndActor(c)
	if err := h.journalService.DeleteDraft(c.Request.Context(), tenantID, entryID, actor); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Draft journal entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Validates balance, accounts, tiers and period, then makes the entry immutable
// @Tags journal-entries
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or period not open"
// @Failure 422 {object} map[string]string "Entry unbalanced or invalid"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	tenantID, actor := tenantAndActor(c)

	entry, err := h.journalService.Post(c.Request.Context(), tenantID, entryID, actor)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates a draft whose lines swap the debits and credits of the posted entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   X-Tenant-ID header string true "Tenant ID"
// @Param   X-Actor header string true "Acting user"
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Target period and date"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry not posted or target period not open"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")
	var req dto.ReverseJournalEntryRequest
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err, "ReverseJournalEntry body")
		return
	}

	tenantID, actor := tenantAndActor(c)
	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), tenantID, entryID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
