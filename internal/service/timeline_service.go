package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flightdeskhq/flightdesk-api/internal/dto"
	"github.com/flightdeskhq/flightdesk-api/internal/models"
	"github.com/flightdeskhq/flightdesk-api/internal/timeline"
	"github.com/flightdeskhq/flightdesk-api/internal/timeutil"
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

const isoDate = "2006-01-02"

type timelineRuleRepo interface {
	List(ctx context.Context, tenantID string, filter models.RosterRuleFilter) ([]models.RosterRule, error)
}

// TimelineService renders the day view grid and resolves clicks into draft
// time ranges. The geometry itself lives in the timeline package; this
// layer adds storage access and a per-tenant versioned redis cache.
type TimelineService struct {
	rules   timelineRuleRepo
	cache   *redis.Client
	cfg     timeline.Config
	ttl     time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewTimelineService builds the service. The cache and metrics are optional.
func NewTimelineService(rules timelineRuleRepo, cache *redis.Client, cfg timeline.Config, ttl time.Duration, logger *zap.Logger, metrics *MetricsService) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{
		rules:   rules,
		cache:   cache,
		cfg:     cfg,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// DayView returns the slot grid and positioned rule boxes for one calendar
// day. Rules outside the visible window, or not effective on the date, are
// omitted.
func (s *TimelineService) DayView(ctx context.Context, claims *models.JWTClaims, date string) (*dto.DayViewResponse, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	day, err := time.Parse(isoDate, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	if cached := s.cacheGet(ctx, claims.TenantID, date); cached != nil {
		return cached, nil
	}

	dayOfWeek := int(day.Weekday())
	rules, err := s.rules.List(ctx, claims.TenantID, models.RosterRuleFilter{DayOfWeek: &dayOfWeek})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster rules")
	}

	slots := timeline.BuildTimeSlots(day, s.cfg)

	// Window minutes are computed from the configured start, not the clock
	// of slots.End: a day-end hour of 24 normalizes to next-day midnight.
	windowStartMin := s.cfg.DayStartHour * 60
	windowEndMin := windowStartMin + int(slots.End.Sub(slots.Start).Minutes())

	resp := &dto.DayViewResponse{
		Date:        date,
		WindowStart: clockLabel(windowStartMin),
		WindowEnd:   clockLabel(windowEndMin),
		SlotTimes:   make([]string, 0, len(slots.Slots)),
		Rules:       []dto.DayViewRule{},
	}
	for _, slot := range slots.Slots {
		resp.SlotTimes = append(resp.SlotTimes, slot.Format("15:04"))
	}

	for _, rule := range rules {
		if !effectiveOn(&rule, date) {
			continue
		}
		startMinute, err := timeutil.MinuteOfDay(rule.StartTime)
		if err != nil {
			s.logger.Warn("skipping rule with malformed start time", zap.String("rule_id", rule.ID), zap.Error(err))
			continue
		}
		endMinute, err := timeutil.MinuteOfDay(rule.EndTime)
		if err != nil {
			s.logger.Warn("skipping rule with malformed end time", zap.String("rule_id", rule.ID), zap.Error(err))
			continue
		}

		ruleStart := slots.Start.Add(time.Duration(startMinute-s.cfg.DayStartHour*60) * time.Minute)
		ruleEnd := slots.Start.Add(time.Duration(endMinute-s.cfg.DayStartHour*60) * time.Minute)
		box, visible := timeline.LayoutBox(ruleStart, ruleEnd, slots.Start, slots.End)
		if !visible {
			continue
		}
		resp.Rules = append(resp.Rules, dto.DayViewRule{
			RuleID:       rule.ID,
			InstructorID: rule.InstructorID,
			StartTime:    rule.StartTime,
			EndTime:      rule.EndTime,
			Box:          box,
		})
	}

	s.cacheSet(ctx, claims.TenantID, date, resp)
	return resp, nil
}

// MapClick converts a click on the day strip into the default one-interval
// draft shift for the clicked slot.
func (s *TimelineService) MapClick(ctx context.Context, claims *models.JWTClaims, req dto.TimelineClickRequest) (*dto.TimelineClickResponse, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	day, err := time.Parse(isoDate, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	slots := timeline.BuildTimeSlots(day, s.cfg)
	index := timeline.MapClickToSlot(req.ClickX, req.ContainerLeft, req.ContainerWidth, len(slots.Slots))
	if index < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timeline window has no slots")
	}

	start, end, ok := timeline.DraftRange(slots, index, s.cfg.IntervalMinutes)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "click does not map to a slot")
	}

	startMinute := s.cfg.DayStartHour*60 + int(start.Sub(slots.Start).Minutes())
	endMinute := s.cfg.DayStartHour*60 + int(end.Sub(slots.Start).Minutes())
	// A draft clamped to a window ending at hour 24 keeps the last minute
	// of the clicked day, so the returned range stays ordered and parseable.
	if endMinute > 23*60+59 {
		endMinute = 23*60 + 59
	}

	return &dto.TimelineClickResponse{
		SlotIndex: index,
		StartTime: timeutil.FormatMinuteOfDay(startMinute),
		EndTime:   timeutil.FormatMinuteOfDay(endMinute),
		DayOfWeek: int(day.Weekday()),
	}, nil
}

func clockLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// InvalidateDayViews bumps the tenant's cache version so subsequent day
// view reads recompute. Failures only log; the cache is advisory.
func (s *TimelineService) InvalidateDayViews(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, dayViewVersionKey(tenantID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate day view cache", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}

func (s *TimelineService) cacheGet(ctx context.Context, tenantID, date string) *dto.DayViewResponse {
	if s.cache == nil {
		return nil
	}
	key, err := s.dayViewKey(ctx, tenantID, date)
	if err != nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("day view cache read failed", zap.Error(err))
		}
		s.metrics.ObserveCacheMiss()
		return nil
	}
	var resp dto.DayViewResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	s.metrics.ObserveCacheHit()
	return &resp
}

func (s *TimelineService) cacheSet(ctx context.Context, tenantID, date string, resp *dto.DayViewResponse) {
	if s.cache == nil {
		return
	}
	key, err := s.dayViewKey(ctx, tenantID, date)
	if err != nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("day view cache write failed", zap.Error(err))
	}
}

func (s *TimelineService) dayViewKey(ctx context.Context, tenantID, date string) (string, error) {
	version, err := s.cache.Get(ctx, dayViewVersionKey(tenantID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", err
		}
		version = "0"
	}
	return fmt.Sprintf("dayview:%s:%s:%s", tenantID, version, date), nil
}

func dayViewVersionKey(tenantID string) string {
	return "dayview:ver:" + tenantID
}

func effectiveOn(rule *models.RosterRule, date string) bool {
	if timeutil.CompareDates(rule.EffectiveFrom, date) > 0 {
		return false
	}
	if rule.EffectiveUntil != nil && timeutil.CompareDates(*rule.EffectiveUntil, date) < 0 {
		return false
	}
	return true
}
