package models

// ExerciseType describes how a single exercise is measured.
type ExerciseType string

const (
	ExerciseTime          ExerciseType = "time"
	ExerciseWeightReps    ExerciseType = "weight_reps"
	ExerciseRepsOnly      ExerciseType = "reps_only"
	ExerciseTimeAndWeight ExerciseType = "time_and_weight"
)

// ProgressionType describes how targets change across the sets of an exercise.
type ProgressionType string

const (
	ProgressionNone     ProgressionType = "none"
	ProgressionIncrease ProgressionType = "increase"
	ProgressionDecrease ProgressionType = "decrease"
	ProgressionPyramid  ProgressionType = "pyramid"
)

// SetConfig is the per-set target for one set of an exercise. Set is 1-based.
// Which of the optional fields are populated depends on the exercise type.
type SetConfig struct {
	Set             int      `json:"set"`
	Reps            *int     `json:"reps,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

// ExerciseConfig is the full configuration of one exercise. It is embedded by
// value in both TemplateExercise and SessionExercise so that starting a
// session copies the entire configuration in one assignment rather than
// field-by-field.
type ExerciseConfig struct {
	Name                        string          `json:"name"`
	MuscleGroup                 string          `json:"muscle_group,omitempty"`
	OrderIndex                  int             `json:"order_index"`
	ExerciseType                ExerciseType    `json:"exercise_type"`
	DefaultSets                 int             `json:"default_sets"`
	PerSetConfig                []SetConfig     `json:"per_set_config,omitempty"`
	ProgressionType             ProgressionType `json:"progression_type"`
	RestSeconds                 int             `json:"rest_seconds"`
	RestBetweenExercisesEnabled bool            `json:"rest_between_exercises_enabled"`
	RestBetweenExercisesSeconds int             `json:"rest_between_exercises_seconds"`
	HasTimer                    bool            `json:"has_timer"`
}

// Template is a reusable, user-authored workout definition.
type Template struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateExercise is one exercise within a template.
type TemplateExercise struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	ExerciseConfig
}

// Normalize reindexes exercises 0-based contiguous by their current order and
// keeps each exercise's PerSetConfig in sync with DefaultSets: missing entries
// are padded, extra entries dropped, set numbers rewritten 1-based.
func (t *Template) Normalize() {
	for i := range t.Exercises {
		ex := &t.Exercises[i]
		ex.OrderIndex = i
		if ex.DefaultSets <= 0 {
			ex.DefaultSets = len(ex.PerSetConfig)
		}
		if ex.DefaultSets == 0 {
			continue
		}
		cfg := ex.PerSetConfig
		if len(cfg) > ex.DefaultSets {
			cfg = cfg[:ex.DefaultSets]
		}
		for len(cfg) < ex.DefaultSets {
			cfg = append(cfg, SetConfig{})
		}
		for s := range cfg {
			cfg[s].Set = s + 1
		}
		ex.PerSetConfig = cfg
	}
}

// Clone returns a deep copy of the template, used when snapshotting a
// template into a session so later template edits cannot reach the session.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Exercises = make([]TemplateExercise, len(t.Exercises))
	for i, ex := range t.Exercises {
		exCp := ex
		exCp.PerSetConfig = append([]SetConfig(nil), ex.PerSetConfig...)
		cp.Exercises[i] = exCp
	}
	return &cp
}
