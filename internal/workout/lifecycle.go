package workout

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// SetInput carries the values for one logged set. Which fields apply
// depends on the exercise type.
type SetInput struct {
	Weight          *float64 `json:"weight,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
}

// StartResult is the outcome of starting a session.
type StartResult struct {
	Session   models.Session          `json:"session"`
	Exercises []models.SessionExercise `json:"session_exercises"`
}

// StartWorkoutFromTemplate creates an in-progress session for today from a
// template, snapshotting the template so later edits cannot reach the
// session. The session header is inserted first, then one session exercise
// per template exercise in order. A failure between the two steps leaves the
// header in place; the error from the failing step is returned as-is.
func (s *Service) StartWorkoutFromTemplate(ctx context.Context, userID, templateID string) (*StartResult, error) {
	tpl, err := s.store.GetTemplate(ctx, userID, templateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("fetching template: %w", err)
	}

	now := s.now()
	session := models.Session{
		UserID:     userID,
		TemplateID: &tpl.ID,
		Name:       tpl.Name,
		Date:       s.today(),
		Status:     models.StatusInProgress,
		StartedAt:  now,
		Snapshot:   tpl.Clone(),
	}
	session, err = s.store.InsertSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	exercises := make([]models.SessionExercise, len(tpl.Exercises))
	for i, tex := range tpl.Exercises {
		id := tex.ID
		exercises[i] = models.SessionExercise{
			SessionID:          session.ID,
			TemplateExerciseID: &id,
			// Whole-config copy: progression, per-set targets and rest
			// timings must reflect the template as it existed right now.
			ExerciseConfig: tex.ExerciseConfig,
		}
		exercises[i].PerSetConfig = append([]models.SetConfig(nil), tex.PerSetConfig...)
	}
	exercises, err = s.store.InsertSessionExercises(ctx, session.ID, exercises)
	if err != nil {
		// No rollback of the session header; a retry simply starts a
		// fresh session and the orphan is inert.
		s.log.Error("session exercises insert failed after header insert",
			"session", session.ID, "error", err)
		return nil, fmt.Errorf("creating session exercises: %w", err)
	}
	session.Exercises = exercises

	return &StartResult{Session: session, Exercises: exercises}, nil
}

// StartEmptySession creates an ad hoc session with no template and no
// exercises; exercises get added during the workout.
func (s *Service) StartEmptySession(ctx context.Context, userID string) (*models.Session, error) {
	session := models.Session{
		UserID:    userID,
		Name:      "Quick Workout",
		Date:      s.today(),
		Status:    models.StatusInProgress,
		StartedAt: s.now(),
	}
	session, err := s.store.InsertSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("creating empty session: %w", err)
	}
	return &session, nil
}

// LogSet appends one set to a session exercise. The set number is always
// count(existing)+1: 1-based, contiguous, append-only.
func (s *Service) LogSet(ctx context.Context, sessionExerciseID string, in SetInput) (*models.WorkoutSet, error) {
	count, err := s.store.CountSets(ctx, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	set := models.WorkoutSet{
		SessionExerciseID: sessionExerciseID,
		SetNumber:         count + 1,
		Weight:            in.Weight,
		Reps:              in.Reps,
		DurationSeconds:   in.DurationSeconds,
		CompletedAt:       s.now(),
	}
	set, err = s.store.InsertSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("logging set: %w", err)
	}
	return &set, nil
}

// CompleteWorkout finishes a session. The total set count is recomputed from
// the stored sets rather than trusted from any running counter.
func (s *Service) CompleteWorkout(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	total := 0
	for _, ex := range session.Exercises {
		total += len(ex.Sets)
	}

	now := s.now()
	status := models.StatusCompleted
	upd := models.SessionUpdate{
		Status:    &status,
		EndedAt:   &now,
		TotalSets: &total,
	}
	if err := s.store.UpdateSession(ctx, sessionID, upd); err != nil {
		return nil, fmt.Errorf("completing session: %w", err)
	}

	session.Status = status
	session.EndedAt = &now
	session.TotalSets = total
	return session, nil
}

// ResetWorkout deletes the session(s) for a (user, date) entirely. Any
// schedule instance for that date is untouched, so the date reverts to
// not_started rather than no_workout.
func (s *Service) ResetWorkout(ctx context.Context, userID, date string) error {
	if err := s.store.DeleteSessionsForDate(ctx, userID, date); err != nil {
		return fmt.Errorf("resetting workout: %w", err)
	}
	return nil
}

// ChangeScheduledWorkout repoints a date at a different template. Any
// existing session for the date is deleted first — this destroys in-progress
// logging, so callers are expected to confirm with the user beforehand.
func (s *Service) ChangeScheduledWorkout(ctx context.Context, userID, date, newTemplateID string) (*models.ScheduleInstance, error) {
	if err := s.store.DeleteSessionsForDate(ctx, userID, date); err != nil {
		return nil, fmt.Errorf("clearing session for date: %w", err)
	}

	inst, err := s.store.UpsertScheduleInstance(ctx, models.ScheduleInstance{
		UserID:        userID,
		TemplateID:    newTemplateID,
		ScheduledDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("rescheduling workout: %w", err)
	}
	return &inst, nil
}

// UpdateSessionState persists the navigation cursor so a resumed session
// reopens at the same exercise and set. Best-effort: failures are logged,
// never surfaced.
func (s *Service) UpdateSessionState(ctx context.Context, sessionID string, exerciseIndex, setIndex int) {
	upd := models.SessionUpdate{
		CurrentExerciseIndex: &exerciseIndex,
		CurrentSetIndex:      &setIndex,
	}
	if err := s.store.UpdateSession(ctx, sessionID, upd); err != nil {
		s.log.Warn("session cursor update failed",
			"session", sessionID, "exercise", exerciseIndex, "set", setIndex,
			"error", err)
	}
}
