package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

type instructorRepo interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Instructor, error)
	List(ctx context.Context, tenantID string, filter models.InstructorFilter) ([]models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, tenantID, id string, instructor *models.Instructor) (*models.Instructor, error)
	Deactivate(ctx context.Context, tenantID, id string) error
}

// InstructorService manages the staff directory backing the roster engine.
type InstructorService struct {
	repo      instructorRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstructorService builds the service.
func NewInstructorService(repo instructorRepo, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{repo: repo, validator: validate, logger: logger}
}

// List returns instructors in the tenant.
func (s *InstructorService) List(ctx context.Context, claims *models.JWTClaims, filter models.InstructorFilter) ([]models.Instructor, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	instructors, err := s.repo.List(ctx, claims.TenantID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// Get returns one instructor.
func (s *InstructorService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Instructor, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	instructor, err := s.repo.FindByID(ctx, claims.TenantID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	return instructor, nil
}

// Create registers an instructor. Only roster managers may do so.
func (s *InstructorService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.authorize(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}

	instructor := &models.Instructor{
		TenantID: claims.TenantID,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Ratings:  req.Ratings,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// Update replaces an instructor's profile.
func (s *InstructorService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	if err := s.authorize(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}

	payload := &models.Instructor{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Ratings:  req.Ratings,
		Active:   req.Active,
	}
	updated, err := s.repo.Update(ctx, claims.TenantID, id, payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update instructor")
	}
	return updated, nil
}

// Deactivate retires an instructor from the roster without deleting history.
func (s *InstructorService) Deactivate(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.authorize(claims); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, claims.TenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate instructor")
	}
	return nil
}

func (s *InstructorService) authorize(claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if !claims.Role.CanManageRoster() {
		return appErrors.Clone(appErrors.ErrForbidden, "your role cannot manage instructors")
	}
	return nil
}
