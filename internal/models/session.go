package models

import "time"

// Status is the state of a workout for a given date. Sessions persist only
// the last three values; NoWorkout and NotStarted are derived by the resolver
// from the absence or presence of a schedule instance without a session.
type Status string

const (
	StatusNoWorkout  Status = "no_workout"
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Session is the record of an actual workout performed on a specific date.
type Session struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	TemplateID           *string           `json:"template_id,omitempty"`
	Name                 string            `json:"name"`
	Date                 string            `json:"date"` // YYYY-MM-DD
	Status               Status            `json:"status"`
	StartedAt            time.Time         `json:"started_at"`
	EndedAt              *time.Time        `json:"ended_at,omitempty"`
	TotalSets            int               `json:"total_sets"`
	Snapshot             *Template         `json:"session_snapshot,omitempty"`
	CurrentExerciseIndex int               `json:"current_exercise_index"`
	CurrentSetIndex      int               `json:"current_set_index"`
	Exercises            []SessionExercise `json:"exercises,omitempty"`
}

// SessionExercise is one exercise within a session, snapshotted from a
// template exercise at session-creation time. SetsCount, MinWeight and
// MaxWeight are derived by the state resolver, never stored.
type SessionExercise struct {
	ID                 string  `json:"id"`
	SessionID          string  `json:"session_id"`
	TemplateExerciseID *string `json:"template_exercise_id,omitempty"`
	ExerciseConfig
	Sets      []WorkoutSet `json:"sets,omitempty"`
	SetsCount int          `json:"sets_count"`
	MinWeight *float64     `json:"min_weight,omitempty"`
	MaxWeight *float64     `json:"max_weight,omitempty"`
}

// WorkoutSet is one completed unit of work logged against a session exercise.
// SetNumber is 1-based, contiguous and append-only.
type WorkoutSet struct {
	ID                string    `json:"id"`
	SessionExerciseID string    `json:"session_exercise_id"`
	SetNumber         int       `json:"set_number"`
	Weight            *float64  `json:"weight,omitempty"`
	Reps              *int      `json:"reps,omitempty"`
	DurationSeconds   *int      `json:"duration_seconds,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
}

// SessionUpdate is a partial update to a session row. Nil fields are left
// unchanged.
type SessionUpdate struct {
	Status               *Status
	EndedAt              *time.Time
	TotalSets            *int
	CurrentExerciseIndex *int
	CurrentSetIndex      *int
}

// WorkoutState is the resolver's answer for one (user, date).
type WorkoutState struct {
	Schedule *ScheduleInstance `json:"schedule"`
	Session  *Session          `json:"session"`
	Status   Status            `json:"status"`
}
