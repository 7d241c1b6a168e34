package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinuteOfDay(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain", input: "09:00", want: 540},
		{name: "single digit hour", input: "9:00", want: 540},
		{name: "with seconds", input: "09:00:30", want: 540},
		{name: "midnight", input: "00:00", want: 0},
		{name: "end of day", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "09:60", wantErr: true},
		{name: "seconds out of range", input: "09:00:61", wantErr: true},
		{name: "missing minute", input: "09", wantErr: true},
		{name: "not numeric", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1:00", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MinuteOfDay(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", got)

	got, err = Normalize("09:05:45")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", got, "seconds are truncated to minute precision")

	_, err = Normalize("25:00")
	require.Error(t, err)
}

func TestFormatMinuteOfDay(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatMinuteOfDay(0))
	assert.Equal(t, "09:30:00", FormatMinuteOfDay(570))
	assert.Equal(t, "23:59:00", FormatMinuteOfDay(1439))
}

func TestCompareDates(t *testing.T) {
	assert.Equal(t, -1, CompareDates("2026-01-01", "2026-01-02"))
	assert.Equal(t, 1, CompareDates("2026-02-01", "2026-01-31"))
	assert.Equal(t, 0, CompareDates("2026-01-01", "2026-01-01"))
	assert.Equal(t, -1, CompareDates("2025-12-31", "2026-01-01"))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Sunday", WeekdayName(0))
	assert.Equal(t, "Wednesday", WeekdayName(3))
	assert.Equal(t, "Saturday", WeekdayName(6))
	assert.Equal(t, "Day 7", WeekdayName(7))
	assert.Equal(t, "Day -1", WeekdayName(-1))
}
