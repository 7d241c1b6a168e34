package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/service"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
	"github.com/flightdeskhq/flightdesk-api/pkg/response"
)

type rosterService interface {
	List(ctx context.Context, claims *models.JWTClaims, filter models.RosterRuleFilter) ([]models.RosterRule, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateRosterRuleRequest) (*models.RosterRule, error)
	Update(ctx context.Context, claims *models.JWTClaims, ruleID string, req dto.UpdateRosterRuleRequest) (*models.RosterRule, error)
	Void(ctx context.Context, claims *models.JWTClaims, ruleID string) error
	FindConflictingDays(ctx context.Context, claims *models.JWTClaims, req dto.PreviewRosterRuleRequest) (*dto.PreviewRosterRuleResponse, error)
}

type rosterExportService interface {
	WeeklySheet(ctx context.Context, claims *models.JWTClaims, instructorID string, format service.ExportFormat) (*service.ExportResult, error)
}

type exportArchive interface {
	Open(token string) (io.ReadCloser, string, string, error)
}

// RosterHandler exposes roster rule lifecycle endpoints.
type RosterHandler struct {
	service rosterService
	exports rosterExportService
	archive exportArchive
}

// NewRosterHandler builds a new handler. The exports and archive
// collaborators may be nil when downloads are disabled.
func NewRosterHandler(service rosterService, exports rosterExportService, archive exportArchive) *RosterHandler {
	return &RosterHandler{service: service, exports: exports, archive: archive}
}

// List godoc
// @Summary List live roster rules
// @Tags Roster
// @Produce json
// @Param instructorId query string false "Instructor filter"
// @Param dayOfWeek query integer false "Weekday filter (0 = Sunday)"
// @Success 200 {object} response.Envelope
// @Router /roster/rules [get]
func (h *RosterHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	filter := models.RosterRuleFilter{
		InstructorID: c.Query("instructorId"),
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 0 || day > 6 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be an integer between 0 and 6"))
			return
		}
		filter.DayOfWeek = &day
	}
	rules, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Create godoc
// @Summary Create a roster rule
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.CreateRosterRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /roster/rules [post]
func (h *RosterHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateRosterRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster rule payload"))
		return
	}
	rule, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// Update godoc
// @Summary Replace a roster rule
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param payload body dto.UpdateRosterRuleRequest true "Rule payload"
// @Success 200 {object} response.Envelope
// @Router /roster/rules/{id} [put]
func (h *RosterHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.UpdateRosterRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster rule payload"))
		return
	}
	rule, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Void godoc
// @Summary Void a roster rule
// @Tags Roster
// @Param id path string true "Rule ID"
// @Success 204
// @Router /roster/rules/{id} [delete]
func (h *RosterHandler) Void(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Void(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Preview godoc
// @Summary Preview conflicts for a multi-day creation
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.PreviewRosterRuleRequest true "Preview payload"
// @Success 200 {object} response.Envelope
// @Router /roster/rules/preview [post]
func (h *RosterHandler) Preview(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.PreviewRosterRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	result, err := h.service.FindConflictingDays(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download an instructor's weekly roster sheet
// @Tags Roster
// @Produce text/csv
// @Produce application/pdf
// @Param instructorId query string true "Instructor ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /roster/export [get]
func (h *RosterHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "roster exports are disabled"))
		return
	}
	claims := claimsFromContext(c)
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.WeeklySheet(c.Request.Context(), claims, c.Query("instructorId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.ArchiveToken != "" {
		c.Header("X-Archive-Token", result.ArchiveToken)
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// DownloadArchived godoc
// @Summary Re-download a previously generated roster sheet
// @Tags Roster
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed archive token"
// @Success 200 {file} binary
// @Router /roster/export/archive [get]
func (h *RosterHandler) DownloadArchived(c *gin.Context) {
	if h.archive == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "roster exports are disabled"))
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter is required"))
		return
	}
	file, contentType, filename, err := h.archive.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
