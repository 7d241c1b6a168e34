package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
	"github.com/flightdeskhq/flightdesk-api/pkg/response"
)

type instructorService interface {
	List(ctx context.Context, claims *models.JWTClaims, filter models.InstructorFilter) ([]models.Instructor, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Instructor, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateInstructorRequest) (*models.Instructor, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error)
	Deactivate(ctx context.Context, claims *models.JWTClaims, id string) error
}

// InstructorHandler exposes staff directory endpoints.
type InstructorHandler struct {
	service instructorService
}

// NewInstructorHandler builds a new handler.
func NewInstructorHandler(service instructorService) *InstructorHandler {
	return &InstructorHandler{service: service}
}

// List godoc
// @Summary List instructors
// @Tags Instructors
// @Produce json
// @Param search query string false "Name or email search"
// @Param active query boolean false "Active filter"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	filter := models.InstructorFilter{Search: c.Query("search")}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &active
	}
	instructors, err := h.service.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// Get godoc
// @Summary Get one instructor
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	instructor, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Create godoc
// @Summary Register an instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /instructors [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Update godoc
// @Summary Update an instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.UpdateInstructorRequest true "Instructor payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id} [put]
func (h *InstructorHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.service.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructor, nil)
}

// Deactivate godoc
// @Summary Deactivate an instructor
// @Tags Instructors
// @Param id path string true "Instructor ID"
// @Success 204
// @Router /instructors/{id} [delete]
func (h *InstructorHandler) Deactivate(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Deactivate(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
