package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/flightdeskhq/flightdesk-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestValidateRuleWindow(t *testing.T) {
	window, err := ValidateRuleWindow("9:00", "10:30", "2026-03-01", nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", window.StartTime)
	assert.Equal(t, "10:30:00", window.EndTime)
	assert.Equal(t, 540, window.StartMinute)
	assert.Equal(t, 630, window.EndMinute)
	assert.Equal(t, "2026-03-01", window.EffectiveFrom)
	assert.Nil(t, window.EffectiveUntil)
}

func TestValidateRuleWindowTruncatesSeconds(t *testing.T) {
	window, err := ValidateRuleWindow("09:00:45", "10:00:15", "2026-03-01", nil)
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", window.StartTime)
	assert.Equal(t, "10:00:00", window.EndTime)
}

func TestValidateRuleWindowInvalidTime(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
	}{
		{name: "garbage start", start: "not-a-time", end: "10:00"},
		{name: "garbage end", start: "09:00", end: "10:xx"},
		{name: "hour out of range", start: "25:00", end: "26:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateRuleWindow(tc.start, tc.end, "2026-03-01", nil)
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrInvalidTime.Code, appErr.Code)
		})
	}
}

func TestValidateRuleWindowEndBeforeStart(t *testing.T) {
	_, err := ValidateRuleWindow("10:00", "09:00", "2026-03-01", nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrEndBeforeStart.Code, appErr.Code)

	// Equal start and end is an empty interval, also rejected.
	_, err = ValidateRuleWindow("09:00", "09:00", "2026-03-01", nil)
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrEndBeforeStart.Code, appErr.Code)
}

func TestValidateRuleWindowRangeInverted(t *testing.T) {
	_, err := ValidateRuleWindow("09:00", "10:00", "2026-03-10", strPtr("2026-03-01"))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrRangeInverted.Code, appErr.Code)

	// A one-off (until == from) is valid.
	window, err := ValidateRuleWindow("09:00", "10:00", "2026-03-10", strPtr("2026-03-10"))
	require.NoError(t, err)
	require.NotNil(t, window.EffectiveUntil)
	assert.Equal(t, "2026-03-10", *window.EffectiveUntil)
}
