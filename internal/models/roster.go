package models

import "time"

// RosterRule is an instructor's availability window on a single weekday,
// optionally bounded by an effective date range. Times are stored in the
// canonical "HH:MM:SS" form and dates as ISO "YYYY-MM-DD" strings.
//
// The tuple (tenant_id, instructor_id, day_of_week, start_time, end_time)
// is unique across all rows, voided ones included. Voided rows stay behind
// for history, which is why creating over a stale one-off slot goes through
// the recycle protocol instead of a plain insert.
type RosterRule struct {
	ID             string     `db:"id" json:"id"`
	TenantID       string     `db:"tenant_id" json:"tenant_id"`
	InstructorID   string     `db:"instructor_id" json:"instructor_id"`
	DayOfWeek      int        `db:"day_of_week" json:"day_of_week"`
	StartTime      string     `db:"start_time" json:"start_time"`
	EndTime        string     `db:"end_time" json:"end_time"`
	EffectiveFrom  string     `db:"effective_from" json:"effective_from"`
	EffectiveUntil *string    `db:"effective_until" json:"effective_until,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	VoidedAt       *time.Time `db:"voided_at" json:"voided_at,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOneOff reports whether the rule governs a single calendar date.
func (r *RosterRule) IsOneOff() bool {
	return r.EffectiveUntil != nil && *r.EffectiveUntil == r.EffectiveFrom
}

// IsRecurring reports whether the rule repeats weekly, either indefinitely
// or within a multi-day window.
func (r *RosterRule) IsRecurring() bool {
	return !r.IsOneOff()
}

// EffectiveRange renders the validity window for user-facing messages.
func (r *RosterRule) EffectiveRange() string {
	if r.EffectiveUntil == nil {
		return r.EffectiveFrom + " onwards"
	}
	if *r.EffectiveUntil == r.EffectiveFrom {
		return r.EffectiveFrom
	}
	return r.EffectiveFrom + " to " + *r.EffectiveUntil
}

// RosterRuleFilter narrows rule listings.
type RosterRuleFilter struct {
	InstructorID string
	DayOfWeek    *int
	IncludeVoid  bool
}
