package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flightdeskhq/flightdesk-api/internal/models"
)

const instructorColumns = `id, tenant_id, full_name, email, phone, ratings, active, created_at, updated_at`

// InstructorRepository persists instructors.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs the repository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// Exists reports whether an active instructor belongs to the tenant.
func (r *InstructorRepository) Exists(ctx context.Context, tenantID, instructorID string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM instructors WHERE tenant_id = $1 AND id = $2 AND active = TRUE
	)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, tenantID, instructorID); err != nil {
		return false, fmt.Errorf("check instructor exists: %w", err)
	}
	return exists, nil
}

// FindByID fetches one instructor inside the tenant. Returns nil when absent.
func (r *InstructorRepository) FindByID(ctx context.Context, tenantID, id string) (*models.Instructor, error) {
	query := `SELECT ` + instructorColumns + ` FROM instructors WHERE tenant_id = $1 AND id = $2`
	var instructor models.Instructor
	if err := r.db.GetContext(ctx, &instructor, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find instructor: %w", err)
	}
	return &instructor, nil
}

// List returns instructors for the tenant with optional filtering.
func (r *InstructorRepository) List(ctx context.Context, tenantID string, filter models.InstructorFilter) ([]models.Instructor, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + instructorColumns + ` FROM instructors WHERE tenant_id = $1`)

	args := []interface{}{tenantID}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		fmt.Fprintf(&query, " AND active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&query, " AND (full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}
	query.WriteString(" ORDER BY full_name ASC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.PageSize)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
		args = append(args, (page-1)*filter.PageSize)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// Create inserts a new instructor.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	if instructor.ID == "" {
		instructor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now
	instructor.Active = true

	const query = `INSERT INTO instructors (id, tenant_id, full_name, email, phone, ratings, active, created_at, updated_at)
		VALUES (:id, :tenant_id, :full_name, :email, :phone, :ratings, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instructor); err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	return nil
}

// Update replaces instructor profile fields.
func (r *InstructorRepository) Update(ctx context.Context, tenantID, id string, instructor *models.Instructor) (*models.Instructor, error) {
	const query = `UPDATE instructors
		SET full_name = $3, email = $4, phone = $5, ratings = $6, active = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + instructorColumns

	var updated models.Instructor
	err := r.db.GetContext(ctx, &updated, query,
		tenantID, id,
		instructor.FullName, instructor.Email, instructor.Phone, instructor.Ratings, instructor.Active,
		time.Now().UTC(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("update instructor: %w", err)
	}
	return &updated, nil
}

// Deactivate marks an instructor inactive without deleting history.
func (r *InstructorRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	const query = `UPDATE instructors SET active = FALSE, updated_at = $3 WHERE tenant_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, tenantID, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate instructor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate instructor: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
