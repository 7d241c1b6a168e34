package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/repository"
	"github.com/flightdeskhq/flightdesk-api/internal/timeutil"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

type rosterRuleRepo interface {
	Insert(ctx context.Context, rule *models.RosterRule) error
	Replace(ctx context.Context, tenantID, id string, rule *models.RosterRule) (*models.RosterRule, error)
	Void(ctx context.Context, tenantID, id string, now time.Time) error
	FindByID(ctx context.Context, tenantID, id string) (*models.RosterRule, error)
	FindByNaturalKey(ctx context.Context, tenantID, instructorID string, dayOfWeek int, startTime, endTime string) (*models.RosterRule, error)
	QueryConflict(ctx context.Context, q repository.ConflictQuery) (*models.RosterRule, error)
	List(ctx context.Context, tenantID string, filter models.RosterRuleFilter) ([]models.RosterRule, error)
}

type instructorDirectory interface {
	Exists(ctx context.Context, tenantID, instructorID string) (bool, error)
}

type dayViewInvalidator interface {
	InvalidateDayViews(ctx context.Context, tenantID string)
}

// RosterService orchestrates the roster rule lifecycle: validation,
// conflict detection, persistence and the natural-key recycle protocol.
type RosterService struct {
	rules       rosterRuleRepo
	instructors instructorDirectory
	views       dayViewInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
}

// NewRosterService builds the service. The views and metrics collaborators
// are optional.
func NewRosterService(rules rosterRuleRepo, instructors instructorDirectory, views dayViewInvalidator, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		rules:       rules,
		instructors: instructors,
		views:       views,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
	}
}

// List returns live rules for the tenant. Any authenticated role may read.
func (s *RosterService) List(ctx context.Context, claims *models.JWTClaims, filter models.RosterRuleFilter) ([]models.RosterRule, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	rules, err := s.rules.List(ctx, claims.TenantID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster rules")
	}
	return rules, nil
}

// Create validates a candidate rule, checks its single day for overlap and
// inserts it. When the insert trips the natural-key constraint, the one
// recoverable case is an occupying row that is a one-off strictly in the
// past: that row is archived and the insert retried, falling back to an
// in-place reuse of the old row when another writer got there first. Every
// other collision surfaces as an exact-key conflict telling the caller to
// edit the existing entry.
func (s *RosterService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateRosterRuleRequest) (*models.RosterRule, error) {
	if err := s.authorizeWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster rule payload")
	}

	window, err := ValidateRuleWindow(req.StartTime, req.EndTime, req.EffectiveFrom, req.EffectiveUntil)
	if err != nil {
		return nil, err
	}

	if err := s.requireInstructor(ctx, claims.TenantID, req.InstructorID); err != nil {
		return nil, err
	}

	conflict, err := s.findConflict(ctx, claims.TenantID, req.InstructorID, req.DayOfWeek, window, "")
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		if s.metrics != nil {
			s.metrics.ObserveRosterConflict()
		}
		return nil, appErrors.Clone(appErrors.ErrRosterConflict, conflictMessage([]int{req.DayOfWeek}))
	}

	candidate := &models.RosterRule{
		TenantID:       claims.TenantID,
		InstructorID:   req.InstructorID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      window.StartTime,
		EndTime:        window.EndTime,
		EffectiveFrom:  window.EffectiveFrom,
		EffectiveUntil: window.EffectiveUntil,
		Notes:          req.Notes,
	}

	if err := s.rules.Insert(ctx, candidate); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return s.recycle(ctx, claims, candidate, window)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to create roster rule")
	}

	s.afterWrite(ctx, claims, "roster_rule_created", candidate)
	if s.metrics != nil {
		s.metrics.ObserveRosterRuleCreated()
	}
	return candidate, nil
}

// recycle handles the natural-key collision branch of Create. The existing
// row qualifies for automatic reuse only when it is a one-off whose single
// date lies strictly before the candidate's effective_from: a past single
// occurrence can never recur, so its key is safely reclaimable.
func (s *RosterService) recycle(ctx context.Context, claims *models.JWTClaims, candidate *models.RosterRule, window *RuleWindow) (*models.RosterRule, error) {
	existing, err := s.rules.FindByNaturalKey(ctx, claims.TenantID, candidate.InstructorID, candidate.DayOfWeek, candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to inspect conflicting roster rule")
	}
	if existing == nil {
		// The occupying row vanished between insert and fetch; one clean retry.
		retry := *candidate
		retry.ID = ""
		if err := s.rules.Insert(ctx, &retry); err != nil {
			return nil, s.exactKeyError(nil)
		}
		s.afterWrite(ctx, claims, "roster_rule_created", &retry)
		return &retry, nil
	}

	eligible := existing.IsOneOff() && timeutil.CompareDates(existing.EffectiveFrom, window.EffectiveFrom) < 0
	if !eligible {
		return nil, s.exactKeyError(existing)
	}

	if err := s.rules.Void(ctx, claims.TenantID, existing.ID, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to archive stale roster rule")
	}

	retry := *candidate
	retry.ID = ""
	err = s.rules.Insert(ctx, &retry)
	if err == nil {
		s.logger.Info("recycled roster slot via archive",
			zap.String("tenant_id", claims.TenantID),
			zap.String("archived_rule_id", existing.ID),
			zap.String("new_rule_id", retry.ID),
		)
		s.afterWrite(ctx, claims, "roster_rule_recycled", &retry)
		if s.metrics != nil {
			s.metrics.ObserveRosterRecycle()
		}
		return &retry, nil
	}
	if !errors.Is(err, repository.ErrUniqueViolation) {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to create roster rule")
	}

	// Raced: another writer reused the key between fetch and archive. Reuse
	// the existing row in place instead of inserting.
	updated, err := s.rules.Replace(ctx, claims.TenantID, existing.ID, candidate)
	if err != nil {
		return nil, s.exactKeyError(existing)
	}
	s.logger.Info("recycled roster slot in place",
		zap.String("tenant_id", claims.TenantID),
		zap.String("rule_id", updated.ID),
	)
	s.afterWrite(ctx, claims, "roster_rule_recycled", updated)
	if s.metrics != nil {
		s.metrics.ObserveRosterRecycle()
	}
	return updated, nil
}

// Update replaces every mutable field of a rule, re-validating and
// re-checking conflicts with the rule excluded from its own check. An
// update always reactivates the row. No recycling is attempted here: a
// natural-key collision with a different row is always an error.
func (s *RosterService) Update(ctx context.Context, claims *models.JWTClaims, ruleID string, req dto.UpdateRosterRuleRequest) (*models.RosterRule, error) {
	if err := s.authorizeWrite(claims); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster rule payload")
	}

	existing, err := s.rules.FindByID(ctx, claims.TenantID, ruleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster rule")
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "roster rule not found")
	}

	window, err := ValidateRuleWindow(req.StartTime, req.EndTime, req.EffectiveFrom, req.EffectiveUntil)
	if err != nil {
		return nil, err
	}

	if err := s.requireInstructor(ctx, claims.TenantID, req.InstructorID); err != nil {
		return nil, err
	}

	conflict, err := s.findConflict(ctx, claims.TenantID, req.InstructorID, req.DayOfWeek, window, ruleID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		if s.metrics != nil {
			s.metrics.ObserveRosterConflict()
		}
		return nil, appErrors.Clone(appErrors.ErrRosterConflict, conflictMessage([]int{req.DayOfWeek}))
	}

	payload := &models.RosterRule{
		InstructorID:   req.InstructorID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      window.StartTime,
		EndTime:        window.EndTime,
		EffectiveFrom:  window.EffectiveFrom,
		EffectiveUntil: window.EffectiveUntil,
		Notes:          req.Notes,
	}

	updated, err := s.rules.Replace(ctx, claims.TenantID, ruleID, payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "roster rule not found")
		}
		if errors.Is(err, repository.ErrUniqueViolation) {
			other, lookupErr := s.rules.FindByNaturalKey(ctx, claims.TenantID, req.InstructorID, req.DayOfWeek, window.StartTime, window.EndTime)
			if lookupErr == nil && other != nil && other.ID != ruleID {
				return nil, s.exactKeyError(other)
			}
			return nil, s.exactKeyError(nil)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to update roster rule")
	}

	s.afterWrite(ctx, claims, "roster_rule_updated", updated)
	return updated, nil
}

// Void soft-deletes a rule. Voiding an already-voided rule is not an error
// and keeps the original voided_at.
func (s *RosterService) Void(ctx context.Context, claims *models.JWTClaims, ruleID string) error {
	if err := s.authorizeWrite(claims); err != nil {
		return err
	}

	existing, err := s.rules.FindByID(ctx, claims.TenantID, ruleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster rule")
	}
	if existing == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "roster rule not found")
	}

	if err := s.rules.Void(ctx, claims.TenantID, ruleID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "roster rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistenceFailed.Code, appErrors.ErrPersistenceFailed.Status, "failed to void roster rule")
	}

	s.afterWrite(ctx, claims, "roster_rule_voided", existing)
	return nil
}

// FindConflictingDays runs the single-day overlap check independently for
// each unique weekday, concurrently, and returns the sorted subset that
// conflicted. Each day targets a disjoint partition, so results are simply
// unioned.
func (s *RosterService) FindConflictingDays(ctx context.Context, claims *models.JWTClaims, req dto.PreviewRosterRuleRequest) (*dto.PreviewRosterRuleResponse, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}

	window, err := ValidateRuleWindow(req.StartTime, req.EndTime, req.EffectiveFrom, req.EffectiveUntil)
	if err != nil {
		return nil, err
	}

	days := uniqueSortedDays(req.Days)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		conflicting []int
		firstErr    error
	)
	for _, day := range days {
		day := day
		wg.Add(1)
		go func() {
			defer wg.Done()
			match, err := s.rules.QueryConflict(ctx, repository.ConflictQuery{
				TenantID:       claims.TenantID,
				InstructorID:   req.InstructorID,
				DayOfWeek:      day,
				StartTime:      window.StartTime,
				EndTime:        window.EndTime,
				EffectiveFrom:  window.EffectiveFrom,
				EffectiveUntil: window.EffectiveUntil,
				ExcludeID:      req.ExcludeRuleID,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if match != nil {
				conflicting = append(conflicting, day)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		// A failed check is never "no conflict".
		return nil, appErrors.Wrap(firstErr, appErrors.ErrConflictCheckFailed.Code, appErrors.ErrConflictCheckFailed.Status, appErrors.ErrConflictCheckFailed.Message)
	}

	sort.Ints(conflicting)
	resp := &dto.PreviewRosterRuleResponse{
		ConflictingDays: conflicting,
		DayNames:        dayNames(conflicting),
	}
	if len(conflicting) > 0 {
		resp.Message = conflictMessage(conflicting)
	}
	return resp, nil
}

func (s *RosterService) findConflict(ctx context.Context, tenantID, instructorID string, dayOfWeek int, window *RuleWindow, excludeID string) (*models.RosterRule, error) {
	match, err := s.rules.QueryConflict(ctx, repository.ConflictQuery{
		TenantID:       tenantID,
		InstructorID:   instructorID,
		DayOfWeek:      dayOfWeek,
		StartTime:      window.StartTime,
		EndTime:        window.EndTime,
		EffectiveFrom:  window.EffectiveFrom,
		EffectiveUntil: window.EffectiveUntil,
		ExcludeID:      excludeID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflictCheckFailed.Code, appErrors.ErrConflictCheckFailed.Status, appErrors.ErrConflictCheckFailed.Message)
	}
	return match, nil
}

func (s *RosterService) authorizeWrite(claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if !claims.Role.CanManageRoster() {
		return appErrors.Clone(appErrors.ErrForbidden, "your role cannot modify the roster")
	}
	return nil
}

func (s *RosterService) requireInstructor(ctx context.Context, tenantID, instructorID string) error {
	exists, err := s.instructors.Exists(ctx, tenantID, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify instructor")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrInstructorNotFound, "")
	}
	return nil
}

func (s *RosterService) exactKeyError(existing *models.RosterRule) error {
	if existing == nil {
		return appErrors.Clone(appErrors.ErrExactKeyConflict, "an identical roster rule already exists; edit the existing entry instead of creating a new one")
	}
	msg := fmt.Sprintf("an identical roster rule already exists (effective %s); edit that entry instead of creating a new one", existing.EffectiveRange())
	return appErrors.Clone(appErrors.ErrExactKeyConflict, msg)
}

func (s *RosterService) afterWrite(ctx context.Context, claims *models.JWTClaims, event string, rule *models.RosterRule) {
	s.logger.Info(event,
		zap.String("tenant_id", claims.TenantID),
		zap.String("actor_id", claims.UserID),
		zap.String("rule_id", rule.ID),
		zap.String("instructor_id", rule.InstructorID),
		zap.Int("day_of_week", rule.DayOfWeek),
	)
	if s.views != nil {
		s.views.InvalidateDayViews(ctx, claims.TenantID)
	}
}

func uniqueSortedDays(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, day := range days {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

func dayNames(days []int) []string {
	names := make([]string, len(days))
	for i, day := range days {
		names[i] = timeutil.WeekdayName(day)
	}
	return names
}

func conflictMessage(days []int) string {
	names := dayNames(days)
	if len(names) == 1 {
		return fmt.Sprintf("this time range overlaps an existing roster rule on %s", names[0])
	}
	return fmt.Sprintf("this time range overlaps existing roster rules on %s", strings.Join(names, ", "))
}
