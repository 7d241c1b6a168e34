package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultConfig = Config{DayStartHour: 6, DayEndHour: 22, IntervalMinutes: 30}

func day(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2026-03-10")
	require.NoError(t, err)
	return d
}

func TestBuildTimeSlots(t *testing.T) {
	slots := BuildTimeSlots(day(t), defaultConfig)

	require.Len(t, slots.Slots, 32)
	assert.Equal(t, "06:00", slots.Slots[0].Format("15:04"))
	assert.Equal(t, "06:30", slots.Slots[1].Format("15:04"))
	assert.Equal(t, "21:30", slots.Slots[31].Format("15:04"))
	assert.Equal(t, "22:00", slots.End.Format("15:04"))
}

func TestBuildTimeSlotsDeterministic(t *testing.T) {
	first := BuildTimeSlots(day(t), defaultConfig)
	second := BuildTimeSlots(day(t), defaultConfig)
	assert.Equal(t, first, second)
}

func TestBuildTimeSlotsDegenerateWindow(t *testing.T) {
	slots := BuildTimeSlots(day(t), Config{DayStartHour: 10, DayEndHour: 10, IntervalMinutes: 30})
	assert.Empty(t, slots.Slots)

	slots = BuildTimeSlots(day(t), Config{DayStartHour: 6, DayEndHour: 22, IntervalMinutes: 0})
	assert.Empty(t, slots.Slots)
}

func TestMapClickToSlot(t *testing.T) {
	cases := []struct {
		name   string
		clickX float64
		want   int
	}{
		{name: "left edge", clickX: 0, want: 0},
		{name: "first slot interior", clickX: 10, want: 0},
		{name: "middle", clickX: 320, want: 16},
		{name: "right edge clamps to last", clickX: 640, want: 31},
		{name: "past right edge clamps", clickX: 900, want: 31},
		{name: "left of container clamps to zero", clickX: -50, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapClickToSlot(tc.clickX, 0, 640, 32))
		})
	}
}

func TestMapClickToSlotInvalidContainer(t *testing.T) {
	assert.Equal(t, -1, MapClickToSlot(100, 0, 0, 32))
	assert.Equal(t, -1, MapClickToSlot(100, 0, -5, 32))
	assert.Equal(t, -1, MapClickToSlot(100, 0, 640, 0))
}

func TestMapClickToSlotHonoursContainerLeft(t *testing.T) {
	// A click at absolute x=420 inside a container starting at x=100 lands
	// exactly halfway through a 640-wide strip.
	assert.Equal(t, 16, MapClickToSlot(420, 100, 640, 32))
}

func TestDraftRange(t *testing.T) {
	slots := BuildTimeSlots(day(t), defaultConfig)

	start, end, ok := DraftRange(slots, 0, 30)
	require.True(t, ok)
	assert.Equal(t, "06:00", start.Format("15:04"))
	assert.Equal(t, "06:30", end.Format("15:04"))

	start, end, ok = DraftRange(slots, 31, 30)
	require.True(t, ok)
	assert.Equal(t, "21:30", start.Format("15:04"))
	assert.Equal(t, "22:00", end.Format("15:04"))

	// An interval reaching past the window clamps to the window end.
	_, end, ok = DraftRange(slots, 31, 90)
	require.True(t, ok)
	assert.Equal(t, "22:00", end.Format("15:04"))

	_, _, ok = DraftRange(slots, -1, 30)
	assert.False(t, ok)
	_, _, ok = DraftRange(slots, 32, 30)
	assert.False(t, ok)
}

func TestLayoutBox(t *testing.T) {
	base := day(t)
	windowStart := base.Add(6 * time.Hour)
	windowEnd := base.Add(22 * time.Hour)

	t.Run("fully inside", func(t *testing.T) {
		box, ok := LayoutBox(base.Add(9*time.Hour), base.Add(11*time.Hour), windowStart, windowEnd)
		require.True(t, ok)
		assert.InDelta(t, 18.75, box.LeftPct, 0.0001)
		assert.InDelta(t, 12.5, box.WidthPct, 0.0001)
	})

	t.Run("clips at window start", func(t *testing.T) {
		box, ok := LayoutBox(base.Add(5*time.Hour), base.Add(7*time.Hour), windowStart, windowEnd)
		require.True(t, ok)
		assert.InDelta(t, 0, box.LeftPct, 0.0001)
		assert.InDelta(t, 6.25, box.WidthPct, 0.0001)
	})

	t.Run("clips at window end", func(t *testing.T) {
		box, ok := LayoutBox(base.Add(21*time.Hour), base.Add(23*time.Hour), windowStart, windowEnd)
		require.True(t, ok)
		assert.InDelta(t, 93.75, box.LeftPct, 0.0001)
		assert.InDelta(t, 6.25, box.WidthPct, 0.0001)
	})

	t.Run("spans whole window", func(t *testing.T) {
		box, ok := LayoutBox(base, base.Add(24*time.Hour), windowStart, windowEnd)
		require.True(t, ok)
		assert.InDelta(t, 0, box.LeftPct, 0.0001)
		assert.InDelta(t, 100, box.WidthPct, 0.0001)
	})

	t.Run("entirely outside window", func(t *testing.T) {
		_, ok := LayoutBox(base.Add(23*time.Hour), base.Add(25*time.Hour), windowStart, windowEnd)
		assert.False(t, ok)
	})

	t.Run("touching window start only", func(t *testing.T) {
		_, ok := LayoutBox(base.Add(4*time.Hour), base.Add(6*time.Hour), windowStart, windowEnd)
		assert.False(t, ok, "a span ending exactly at the window start renders nothing")
	})

	t.Run("degenerate window", func(t *testing.T) {
		_, ok := LayoutBox(base.Add(9*time.Hour), base.Add(11*time.Hour), windowStart, windowStart)
		assert.False(t, ok)
	})
}

func TestLayoutBoxDeterministic(t *testing.T) {
	base := day(t)
	windowStart := base.Add(6 * time.Hour)
	windowEnd := base.Add(22 * time.Hour)

	first, ok1 := LayoutBox(base.Add(9*time.Hour), base.Add(10*time.Hour), windowStart, windowEnd)
	second, ok2 := LayoutBox(base.Add(9*time.Hour), base.Add(10*time.Hour), windowStart, windowEnd)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}
