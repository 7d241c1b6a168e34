package dto

import "github.com/flightdeskhq/flightdesk-api/internal/timeline"

// CreateRosterRuleRequest is the payload for creating a roster rule.
// Times accept "HH:MM" or "HH:MM:SS"; dates are ISO "YYYY-MM-DD".
type CreateRosterRuleRequest struct {
	InstructorID   string  `json:"instructor_id" validate:"required"`
	DayOfWeek      int     `json:"day_of_week" validate:"min=0,max=6"`
	StartTime      string  `json:"start_time" validate:"required"`
	EndTime        string  `json:"end_time" validate:"required"`
	EffectiveFrom  string  `json:"effective_from" validate:"required,datetime=2006-01-02"`
	EffectiveUntil *string `json:"effective_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string `json:"notes,omitempty"`
}

// UpdateRosterRuleRequest replaces every mutable field of a rule.
type UpdateRosterRuleRequest struct {
	InstructorID   string  `json:"instructor_id" validate:"required"`
	DayOfWeek      int     `json:"day_of_week" validate:"min=0,max=6"`
	StartTime      string  `json:"start_time" validate:"required"`
	EndTime        string  `json:"end_time" validate:"required"`
	EffectiveFrom  string  `json:"effective_from" validate:"required,datetime=2006-01-02"`
	EffectiveUntil *string `json:"effective_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string `json:"notes,omitempty"`
}

// PreviewRosterRuleRequest asks which of several weekdays would conflict
// for the same time range and date window, ahead of a batch creation.
type PreviewRosterRuleRequest struct {
	InstructorID   string  `json:"instructor_id" validate:"required"`
	Days           []int   `json:"days" validate:"required,min=1,dive,min=0,max=6"`
	StartTime      string  `json:"start_time" validate:"required"`
	EndTime        string  `json:"end_time" validate:"required"`
	EffectiveFrom  string  `json:"effective_from" validate:"required,datetime=2006-01-02"`
	EffectiveUntil *string `json:"effective_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExcludeRuleID  string  `json:"exclude_rule_id,omitempty"`
}

// PreviewRosterRuleResponse reports the conflicting subset of days.
type PreviewRosterRuleResponse struct {
	ConflictingDays []int    `json:"conflicting_days"`
	DayNames        []string `json:"day_names"`
	Message         string   `json:"message,omitempty"`
}

// TimelineClickRequest maps a click on the day strip to a draft range.
type TimelineClickRequest struct {
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	ClickX         float64 `json:"click_x"`
	ContainerLeft  float64 `json:"container_left"`
	ContainerWidth float64 `json:"container_width" validate:"gt=0"`
}

// TimelineClickResponse is the one-interval draft shift produced by a click.
type TimelineClickResponse struct {
	SlotIndex int    `json:"slot_index"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	DayOfWeek int    `json:"day_of_week"`
}

// DayViewRule pairs a rule with its layout box inside the visible window.
type DayViewRule struct {
	RuleID       string       `json:"rule_id"`
	InstructorID string       `json:"instructor_id"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Box          timeline.Box `json:"box"`
}

// DayViewResponse is the rendered grid for one calendar day.
type DayViewResponse struct {
	Date        string        `json:"date"`
	WindowStart string        `json:"window_start"`
	WindowEnd   string        `json:"window_end"`
	SlotTimes   []string      `json:"slot_times"`
	Rules       []DayViewRule `json:"rules"`
}

// CreateInstructorRequest registers a staff member.
type CreateInstructorRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Ratings  string `json:"ratings,omitempty"`
}

// UpdateInstructorRequest edits a staff member.
type UpdateInstructorRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Ratings  string `json:"ratings,omitempty"`
	Active   bool   `json:"active"`
}
