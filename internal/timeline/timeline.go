// Package timeline is the pure geometry core of the roster day view. It
// converts between calendar time and the discrete visual grid: slot
// generation for a bounded day window, click-to-slot resolution, and
// rule-to-box layout for absolute positioning. Nothing in here touches
// storage or holds state; identical inputs always produce identical output.
package timeline

import "time"

// Config bounds the visible day window and its granularity.
type Config struct {
	DayStartHour    int
	DayEndHour      int
	IntervalMinutes int
}

// DaySlots is the generated grid for one calendar day. Slots holds the
// start boundary of each interval from Start (inclusive) up to End
// (exclusive); End itself is not a slot.
type DaySlots struct {
	Slots []time.Time
	Start time.Time
	End   time.Time
}

// Box positions a clipped rule span inside the window as percentages of
// the total window width, for absolute positioning in the rendering layer.
type Box struct {
	LeftPct  float64 `json:"left_pct"`
	WidthPct float64 `json:"width_pct"`
}

// BuildTimeSlots produces the ordered slot boundaries for the given day.
// A 06:00–22:00 window at 30-minute granularity yields 32 slots.
func BuildTimeSlots(day time.Time, cfg Config) DaySlots {
	start := time.Date(day.Year(), day.Month(), day.Day(), cfg.DayStartHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), cfg.DayEndHour, 0, 0, 0, day.Location())

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if interval <= 0 || !end.After(start) {
		return DaySlots{Start: start, End: end}
	}

	count := int(end.Sub(start) / interval)
	slots := make([]time.Time, 0, count)
	for cursor := start; cursor.Before(end); cursor = cursor.Add(interval) {
		slots = append(slots, cursor)
	}

	return DaySlots{Slots: slots, Start: start, End: end}
}

// MapClickToSlot converts a horizontal pixel offset into a slot index by
// linear proportion, clamped to the valid index range. Returns -1 when the
// grid is empty or the container has no width.
func MapClickToSlot(clickX, containerLeft, containerWidth float64, slotCount int) int {
	if slotCount <= 0 || containerWidth <= 0 {
		return -1
	}

	index := int((clickX - containerLeft) / containerWidth * float64(slotCount))
	if index < 0 {
		return 0
	}
	if index >= slotCount {
		return slotCount - 1
	}
	return index
}

// DraftRange turns a clicked slot into the default one-interval candidate
// range: the slot's start time, and start plus one interval clamped to the
// window end. The second return is false for an invalid index.
func DraftRange(slots DaySlots, index, intervalMinutes int) (time.Time, time.Time, bool) {
	if index < 0 || index >= len(slots.Slots) {
		return time.Time{}, time.Time{}, false
	}
	start := slots.Slots[index]
	end := start.Add(time.Duration(intervalMinutes) * time.Minute)
	if end.After(slots.End) {
		end = slots.End
	}
	return start, end, true
}

// LayoutBox clips the half-open rule span [ruleStart, ruleEnd) to the
// visible [windowStart, windowEnd) window and expresses the clipped span
// as left/width percentages. The second return is false when the rule has
// no overlap with the window at all.
func LayoutBox(ruleStart, ruleEnd, windowStart, windowEnd time.Time) (Box, bool) {
	total := windowEnd.Sub(windowStart)
	if total <= 0 {
		return Box{}, false
	}
	if !ruleStart.Before(windowEnd) || !ruleEnd.After(windowStart) {
		return Box{}, false
	}

	clippedStart := ruleStart
	if clippedStart.Before(windowStart) {
		clippedStart = windowStart
	}
	clippedEnd := ruleEnd
	if clippedEnd.After(windowEnd) {
		clippedEnd = windowEnd
	}

	left := float64(clippedStart.Sub(windowStart)) / float64(total) * 100
	width := float64(clippedEnd.Sub(clippedStart)) / float64(total) * 100

	return Box{LeftPct: left, WidthPct: width}, true
}
