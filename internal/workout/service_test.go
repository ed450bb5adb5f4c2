package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// testDay is a Tuesday.
var testDay = time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

func newTestService(store *memStore) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, store, log, WithClock(func() time.Time { return testDay }))
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func seedTemplate(t *testing.T, svc *Service, user, name string) models.Template {
	t.Helper()
	tpl, err := svc.SaveTemplate(context.Background(), user, models.Template{
		Name: name,
		Exercises: []models.TemplateExercise{
			{ExerciseConfig: models.ExerciseConfig{
				Name:            "Bench Press",
				MuscleGroup:     "chest",
				ExerciseType:    models.ExerciseWeightReps,
				DefaultSets:     3,
				ProgressionType: models.ProgressionIncrease,
				RestSeconds:     90,
				PerSetConfig: []models.SetConfig{
					{Reps: intp(10), Weight: floatp(60)},
					{Reps: intp(8), Weight: floatp(70)},
					{Reps: intp(6), Weight: floatp(80)},
				},
			}},
			{ExerciseConfig: models.ExerciseConfig{
				Name:         "Plank",
				ExerciseType: models.ExerciseTime,
				DefaultSets:  2,
				HasTimer:     true,
				PerSetConfig: []models.SetConfig{
					{DurationSeconds: intp(60)},
					{DurationSeconds: intp(45)},
				},
			}},
		},
	})
	if err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	return *tpl
}

func TestWorkoutStateFreshDate(t *testing.T) {
	svc := newTestService(&memStore{})

	state := svc.GetWorkoutState(context.Background(), "u1", "2025-06-10")
	if state.Status != models.StatusNoWorkout {
		t.Errorf("status = %q, want %q", state.Status, models.StatusNoWorkout)
	}
	if state.Schedule != nil || state.Session != nil {
		t.Errorf("expected nil schedule and session, got %+v / %+v", state.Schedule, state.Session)
	}
}

func TestStatusDerivationTotality(t *testing.T) {
	tests := []struct {
		name          string
		schedule      bool
		sessionStatus models.Status // empty = no session
		want          models.Status
	}{
		{"nothing", false, "", models.StatusNoWorkout},
		{"schedule only", true, "", models.StatusNotStarted},
		{"session in progress, no schedule", false, models.StatusInProgress, models.StatusInProgress},
		{"session in progress, with schedule", true, models.StatusInProgress, models.StatusInProgress},
		{"session completed, no schedule", false, models.StatusCompleted, models.StatusCompleted},
		{"session completed, with schedule", true, models.StatusCompleted, models.StatusCompleted},
		{"session abandoned, no schedule", false, models.StatusAbandoned, models.StatusAbandoned},
		{"session abandoned, with schedule", true, models.StatusAbandoned, models.StatusAbandoned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			svc := newTestService(store)
			ctx := context.Background()

			if tt.schedule {
				store.instances = append(store.instances, models.ScheduleInstance{
					ID: "i1", UserID: "u1", TemplateID: "t1", ScheduledDate: "2025-06-10",
				})
			}
			if tt.sessionStatus != "" {
				store.sessions = append(store.sessions, models.Session{
					ID: "s1", UserID: "u1", Date: "2025-06-10", Status: tt.sessionStatus,
				})
			}

			state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
			if state.Status != tt.want {
				t.Errorf("status = %q, want %q", state.Status, tt.want)
			}
		})
	}
}

func TestScheduledState(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	if _, err := svc.ScheduleWorkout(ctx, "u1", tpl.ID, "2025-06-10"); err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	if state.Status != models.StatusNotStarted {
		t.Errorf("status = %q, want %q", state.Status, models.StatusNotStarted)
	}
	if state.Schedule == nil || state.Schedule.TemplateID != tpl.ID {
		t.Errorf("schedule template = %+v, want %s", state.Schedule, tpl.ID)
	}
}

func TestStartWorkoutFromTemplate(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")

	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}

	if result.Session.Status != models.StatusInProgress {
		t.Errorf("session status = %q, want in_progress", result.Session.Status)
	}
	if result.Session.Date != "2025-06-10" {
		t.Errorf("session date = %q, want 2025-06-10", result.Session.Date)
	}
	if result.Session.Snapshot == nil {
		t.Fatal("expected session snapshot")
	}
	if len(result.Exercises) != len(tpl.Exercises) {
		t.Fatalf("exercises = %d, want %d", len(result.Exercises), len(tpl.Exercises))
	}

	// Every config field must survive the copy; progression and rest
	// timings in particular drive session-time display.
	for i, ex := range result.Exercises {
		src := tpl.Exercises[i]
		if ex.Name != src.Name || ex.ExerciseType != src.ExerciseType {
			t.Errorf("exercise %d: name/type not copied", i)
		}
		if ex.ProgressionType != src.ProgressionType {
			t.Errorf("exercise %d: progression_type = %q, want %q", i, ex.ProgressionType, src.ProgressionType)
		}
		if ex.RestSeconds != src.RestSeconds || ex.HasTimer != src.HasTimer {
			t.Errorf("exercise %d: rest fields not copied", i)
		}
		if len(ex.PerSetConfig) != len(src.PerSetConfig) {
			t.Errorf("exercise %d: per_set_config length = %d, want %d", i, len(ex.PerSetConfig), len(src.PerSetConfig))
		}
		if ex.OrderIndex != i {
			t.Errorf("exercise %d: order_index = %d", i, ex.OrderIndex)
		}
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	if state.Status != models.StatusInProgress {
		t.Errorf("resolved status = %q, want in_progress", state.Status)
	}
	if len(state.Session.Exercises) != len(tpl.Exercises) {
		t.Errorf("resolved session exercises = %d, want %d", len(state.Session.Exercises), len(tpl.Exercises))
	}
}

func TestStartWorkoutTemplateNotFound(t *testing.T) {
	svc := newTestService(&memStore{})

	_, err := svc.StartWorkoutFromTemplate(context.Background(), "u1", "nope")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestStartEmptySession(t *testing.T) {
	svc := newTestService(&memStore{})

	session, err := svc.StartEmptySession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("StartEmptySession: %v", err)
	}
	if session.Name != "Quick Workout" {
		t.Errorf("name = %q, want Quick Workout", session.Name)
	}
	if session.TemplateID != nil {
		t.Errorf("template_id = %v, want nil", session.TemplateID)
	}
	if session.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", session.Status)
	}
}

func TestSetNumberingMonotonic(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}
	exID := result.Exercises[0].ID

	for i := 1; i <= 5; i++ {
		set, err := svc.LogSet(ctx, exID, SetInput{Weight: floatp(60), Reps: intp(10)})
		if err != nil {
			t.Fatalf("LogSet %d: %v", i, err)
		}
		if set.SetNumber != i {
			t.Errorf("set_number = %d, want %d", set.SetNumber, i)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}
	origReps := *result.Exercises[0].PerSetConfig[0].Reps

	// Edit the template after the session started.
	edited := tpl
	edited.Exercises[0].PerSetConfig[0] = models.SetConfig{Set: 1, Reps: intp(99)}
	if _, err := svc.SaveTemplate(ctx, "u1", edited); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	got := *state.Session.Exercises[0].PerSetConfig[0].Reps
	if got != origReps {
		t.Errorf("session per_set_config reps = %d, want %d (template edit leaked into session)", got, origReps)
	}
}

func TestCompleteWorkoutRecomputesTotals(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}
	exID := result.Exercises[0].ID
	for i := 0; i < 3; i++ {
		if _, err := svc.LogSet(ctx, exID, SetInput{Weight: floatp(60), Reps: intp(10)}); err != nil {
			t.Fatalf("LogSet: %v", err)
		}
	}

	session, err := svc.CompleteWorkout(ctx, result.Session.ID)
	if err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	if session.TotalSets != 3 {
		t.Errorf("total_sets = %d, want 3", session.TotalSets)
	}
	if session.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", session.Status)
	}
	if session.EndedAt == nil {
		t.Error("ended_at not set")
	}
}

func TestResetPreservesSchedule(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	if _, err := svc.ScheduleWorkout(ctx, "u1", tpl.ID, "2025-06-10"); err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}
	if _, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID); err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}

	if err := svc.ResetWorkout(ctx, "u1", "2025-06-10"); err != nil {
		t.Fatalf("ResetWorkout: %v", err)
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	if state.Status != models.StatusNotStarted {
		t.Errorf("status after reset = %q, want not_started", state.Status)
	}
	if state.Session != nil {
		t.Error("session still present after reset")
	}
	if state.Schedule == nil {
		t.Error("schedule instance lost by reset")
	}
}

func TestChangeScheduledWorkoutDeletesSession(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl1 := seedTemplate(t, svc, "u1", "Push Day")
	tpl2 := seedTemplate(t, svc, "u1", "Pull Day")

	if _, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl1.ID); err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}

	inst, err := svc.ChangeScheduledWorkout(ctx, "u1", "2025-06-10", tpl2.ID)
	if err != nil {
		t.Fatalf("ChangeScheduledWorkout: %v", err)
	}
	if inst.TemplateID != tpl2.ID {
		t.Errorf("instance template = %q, want %q", inst.TemplateID, tpl2.ID)
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	if state.Session != nil {
		t.Error("session survived the schedule change")
	}
	if state.Status != models.StatusNotStarted {
		t.Errorf("status = %q, want not_started", state.Status)
	}
}

func TestDerivedWeightBounds(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}

	benchID := result.Exercises[0].ID
	for _, w := range []float64{60, 80, 70} {
		if _, err := svc.LogSet(ctx, benchID, SetInput{Weight: floatp(w), Reps: intp(8)}); err != nil {
			t.Fatalf("LogSet: %v", err)
		}
	}
	// Timed exercise: sets without positive weight must not produce bounds.
	plankID := result.Exercises[1].ID
	if _, err := svc.LogSet(ctx, plankID, SetInput{DurationSeconds: intp(60)}); err != nil {
		t.Fatalf("LogSet: %v", err)
	}

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	bench := state.Session.Exercises[0]
	if bench.SetsCount != 3 {
		t.Errorf("bench sets_count = %d, want 3", bench.SetsCount)
	}
	if bench.MinWeight == nil || *bench.MinWeight != 60 {
		t.Errorf("bench min_weight = %v, want 60", bench.MinWeight)
	}
	if bench.MaxWeight == nil || *bench.MaxWeight != 80 {
		t.Errorf("bench max_weight = %v, want 80", bench.MaxWeight)
	}

	plank := state.Session.Exercises[1]
	if plank.SetsCount != 1 {
		t.Errorf("plank sets_count = %d, want 1", plank.SetsCount)
	}
	if plank.MinWeight != nil || plank.MaxWeight != nil {
		t.Errorf("plank weight bounds = %v/%v, want nil/nil", plank.MinWeight, plank.MaxWeight)
	}
}

func TestStateDegradesOnStoreError(t *testing.T) {
	store := &memStore{err: errors.New("connection refused")}
	svc := newTestService(store)

	state := svc.GetWorkoutState(context.Background(), "u1", "2025-06-10")
	if state.Status != models.StatusNoWorkout {
		t.Errorf("status = %q, want no_workout on store failure", state.Status)
	}
	if state.Schedule != nil || state.Session != nil {
		t.Error("expected empty state on store failure")
	}
}

func TestUpdateSessionStateBestEffort(t *testing.T) {
	store := &memStore{err: errors.New("connection refused")}
	svc := newTestService(store)

	// Must not panic or surface the failure.
	svc.UpdateSessionState(context.Background(), "s1", 2, 1)
}

func TestUpdateSessionStatePersistsCursor(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)
	ctx := context.Background()

	tpl := seedTemplate(t, svc, "u1", "Push Day")
	result, err := svc.StartWorkoutFromTemplate(ctx, "u1", tpl.ID)
	if err != nil {
		t.Fatalf("StartWorkoutFromTemplate: %v", err)
	}

	svc.UpdateSessionState(ctx, result.Session.ID, 1, 2)

	state := svc.GetWorkoutState(ctx, "u1", "2025-06-10")
	if state.Session.CurrentExerciseIndex != 1 || state.Session.CurrentSetIndex != 2 {
		t.Errorf("cursor = (%d,%d), want (1,2)",
			state.Session.CurrentExerciseIndex, state.Session.CurrentSetIndex)
	}
}
