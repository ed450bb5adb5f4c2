package models

import "time"

// ScheduleEntry assigns a template to one weekday within a recurring plan.
// DayOfWeek is a full weekday name ("Monday" ... "Sunday").
type ScheduleEntry struct {
	DayOfWeek  string `json:"day_of_week"`
	TemplateID string `json:"template_id"`
	Time       string `json:"time,omitempty"` // HH:MM
}

// ScheduleDefinition is a recurring weekly plan. Definitions are persisted
// only in the local store; they drive generation of concrete instances.
type ScheduleDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	Entries     []ScheduleEntry `json:"entries"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ScheduleInstance is a concrete, dated assignment of one template to one
// calendar date. At most one instance exists per (user, date); upserts on
// that key overwrite.
type ScheduleInstance struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TemplateID    string    `json:"template_id"`
	ScheduledDate string    `json:"scheduled_date"` // YYYY-MM-DD
	Template      *Template `json:"template,omitempty"`
}
