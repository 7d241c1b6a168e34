package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
	"github.com/flightdeskhq/flightdesk-api/pkg/response"
)

type timelineService interface {
	DayView(ctx context.Context, claims *models.JWTClaims, date string) (*dto.DayViewResponse, error)
	MapClick(ctx context.Context, claims *models.JWTClaims, req dto.TimelineClickRequest) (*dto.TimelineClickResponse, error)
}

// TimelineHandler exposes the day view grid and click mapping.
type TimelineHandler struct {
	service timelineService
}

// NewTimelineHandler builds a new handler.
func NewTimelineHandler(service timelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// DayView godoc
// @Summary Rendered roster grid for one day
// @Tags Timeline
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /roster/day [get]
func (h *TimelineHandler) DayView(c *gin.Context) {
	claims := claimsFromContext(c)
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}
	view, err := h.service.DayView(c.Request.Context(), claims, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// MapClick godoc
// @Summary Map a timeline click to a draft time range
// @Tags Timeline
// @Accept json
// @Produce json
// @Param payload body dto.TimelineClickRequest true "Click payload"
// @Success 200 {object} response.Envelope
// @Router /roster/day/click [post]
func (h *TimelineHandler) MapClick(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.TimelineClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid click payload"))
		return
	}
	result, err := h.service.MapClick(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
