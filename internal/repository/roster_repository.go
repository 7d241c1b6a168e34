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
	"github.com/lib/pq"

	"github.com/flightdeskhq/flightdesk-api/internal/models"
)

// ErrUniqueViolation signals that a write collided with the roster natural
// key (tenant, instructor, day_of_week, start_time, end_time). Callers use
// it to drive the recycle protocol, so it must stay distinguishable from
// other write failures.
var ErrUniqueViolation = errors.New("roster rule natural key already exists")

const pqUniqueViolation = "23505"

const rosterColumns = `id, tenant_id, instructor_id, day_of_week, start_time, end_time,
	effective_from, effective_until, is_active, voided_at, notes, created_at, updated_at`

// ConflictQuery describes a single-day overlap probe against live rules.
type ConflictQuery struct {
	TenantID       string
	InstructorID   string
	DayOfWeek      int
	StartTime      string
	EndTime        string
	EffectiveFrom  string
	EffectiveUntil *string
	ExcludeID      string
}

// RosterRepository persists roster rules.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Insert writes a new live rule. The id and bookkeeping timestamps are
// assigned here when absent.
func (r *RosterRepository) Insert(ctx context.Context, rule *models.RosterRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	rule.IsActive = true
	rule.VoidedAt = nil

	const query = `INSERT INTO roster_rules (id, tenant_id, instructor_id, day_of_week, start_time, end_time,
		effective_from, effective_until, is_active, voided_at, notes, created_at, updated_at)
		VALUES (:id, :tenant_id, :instructor_id, :day_of_week, :start_time, :end_time,
		:effective_from, :effective_until, :is_active, :voided_at, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return mapWriteError("insert roster rule", err)
	}
	return nil
}

// Replace overwrites every mutable field of the identified rule and
// reactivates it. Used both by the update operation and by the in-place
// recycle branch of create.
func (r *RosterRepository) Replace(ctx context.Context, tenantID, id string, rule *models.RosterRule) (*models.RosterRule, error) {
	const query = `UPDATE roster_rules
		SET instructor_id = $3,
		    day_of_week = $4,
		    start_time = $5,
		    end_time = $6,
		    effective_from = $7,
		    effective_until = $8,
		    notes = $9,
		    is_active = TRUE,
		    voided_at = NULL,
		    updated_at = $10
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + rosterColumns

	var updated models.RosterRule
	err := r.db.GetContext(ctx, &updated, query,
		tenantID, id,
		rule.InstructorID, rule.DayOfWeek, rule.StartTime, rule.EndTime,
		rule.EffectiveFrom, rule.EffectiveUntil, rule.Notes,
		time.Now().UTC(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, mapWriteError("replace roster rule", err)
	}
	return &updated, nil
}

// Void soft-deletes a rule, leaving the row (and its natural key) behind.
func (r *RosterRepository) Void(ctx context.Context, tenantID, id string, now time.Time) error {
	const query = `UPDATE roster_rules
		SET is_active = FALSE, voided_at = COALESCE(voided_at, $3), updated_at = $3
		WHERE tenant_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, tenantID, id, now)
	if err != nil {
		return fmt.Errorf("void roster rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("void roster rule: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID fetches a rule inside the tenant. Returns nil when absent.
func (r *RosterRepository) FindByID(ctx context.Context, tenantID, id string) (*models.RosterRule, error) {
	query := `SELECT ` + rosterColumns + ` FROM roster_rules WHERE tenant_id = $1 AND id = $2`
	var rule models.RosterRule
	if err := r.db.GetContext(ctx, &rule, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find roster rule: %w", err)
	}
	return &rule, nil
}

// FindByNaturalKey fetches the row occupying the natural key, live or
// voided. At most one can exist thanks to the unique constraint.
func (r *RosterRepository) FindByNaturalKey(ctx context.Context, tenantID, instructorID string, dayOfWeek int, startTime, endTime string) (*models.RosterRule, error) {
	query := `SELECT ` + rosterColumns + ` FROM roster_rules
		WHERE tenant_id = $1 AND instructor_id = $2 AND day_of_week = $3
		  AND start_time = $4 AND end_time = $5`
	var rule models.RosterRule
	if err := r.db.GetContext(ctx, &rule, query, tenantID, instructorID, dayOfWeek, startTime, endTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find roster rule by natural key: %w", err)
	}
	return &rule, nil
}

// QueryConflict returns the first live rule overlapping the candidate on
// both the time-of-day and date-validity axes, or nil when the day is
// clear. Times overlap as half-open intervals, so a rule ending exactly
// when the candidate starts does not match. A NULL effective_until extends
// the row's validity to +infinity.
func (r *RosterRepository) QueryConflict(ctx context.Context, q ConflictQuery) (*models.RosterRule, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + rosterColumns + ` FROM roster_rules
		WHERE tenant_id = $1 AND instructor_id = $2 AND day_of_week = $3
		  AND is_active = TRUE AND voided_at IS NULL
		  AND start_time < $5 AND end_time > $4
		  AND ($6::text IS NULL OR effective_from <= $6)
		  AND (effective_until IS NULL OR effective_until >= $7)`)

	args := []interface{}{q.TenantID, q.InstructorID, q.DayOfWeek, q.StartTime, q.EndTime, q.EffectiveUntil, q.EffectiveFrom}
	if q.ExcludeID != "" {
		args = append(args, q.ExcludeID)
		fmt.Fprintf(&query, " AND id <> $%d", len(args))
	}
	query.WriteString(" LIMIT 1")

	var rule models.RosterRule
	if err := r.db.GetContext(ctx, &rule, query.String(), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query roster conflicts: %w", err)
	}
	return &rule, nil
}

// List returns rules for the tenant, newest first, optionally filtered by
// instructor and weekday. Voided rows are excluded unless requested.
func (r *RosterRepository) List(ctx context.Context, tenantID string, filter models.RosterRuleFilter) ([]models.RosterRule, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + rosterColumns + ` FROM roster_rules WHERE tenant_id = $1`)

	args := []interface{}{tenantID}
	if !filter.IncludeVoid {
		query.WriteString(" AND is_active = TRUE AND voided_at IS NULL")
	}
	if filter.InstructorID != "" {
		args = append(args, filter.InstructorID)
		fmt.Fprintf(&query, " AND instructor_id = $%d", len(args))
	}
	if filter.DayOfWeek != nil {
		args = append(args, *filter.DayOfWeek)
		fmt.Fprintf(&query, " AND day_of_week = $%d", len(args))
	}
	query.WriteString(" ORDER BY day_of_week ASC, start_time ASC")

	var rules []models.RosterRule
	if err := r.db.SelectContext(ctx, &rules, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list roster rules: %w", err)
	}
	return rules, nil
}

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrUniqueViolation
	}
	return fmt.Errorf("%s: %w", op, err)
}
