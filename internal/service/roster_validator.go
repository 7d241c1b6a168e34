package service

import (
	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"

	"github.com/flightdeskhq/flightdesk-api/internal/timeutil"
)

// RuleWindow is the validated, normalised shape of a candidate rule's time
// range and effective-date range. Times are canonical "HH:MM:SS".
type RuleWindow struct {
	StartTime      string
	EndTime        string
	StartMinute    int
	EndMinute      int
	EffectiveFrom  string
	EffectiveUntil *string
}

// ValidateRuleWindow checks the shape of a candidate window without side
// effects. Day-of-week bounds are enforced at the HTTP boundary via
// request validation and are not re-checked here.
func ValidateRuleWindow(startTime, endTime, effectiveFrom string, effectiveUntil *string) (*RuleWindow, error) {
	startMinute, err := timeutil.MinuteOfDay(startTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidTime.Code, appErrors.ErrInvalidTime.Status, "invalid start time")
	}
	endMinute, err := timeutil.MinuteOfDay(endTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidTime.Code, appErrors.ErrInvalidTime.Status, "invalid end time")
	}

	if endMinute <= startMinute {
		return nil, appErrors.Clone(appErrors.ErrEndBeforeStart, "")
	}

	if effectiveUntil != nil && timeutil.CompareDates(*effectiveUntil, effectiveFrom) < 0 {
		return nil, appErrors.Clone(appErrors.ErrRangeInverted, "")
	}

	return &RuleWindow{
		StartTime:      timeutil.FormatMinuteOfDay(startMinute),
		EndTime:        timeutil.FormatMinuteOfDay(endMinute),
		StartMinute:    startMinute,
		EndMinute:      endMinute,
		EffectiveFrom:  effectiveFrom,
		EffectiveUntil: effectiveUntil,
	}, nil
}
