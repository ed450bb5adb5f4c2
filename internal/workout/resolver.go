package workout

import (
	"context"
	"sync"

	"github.com/claude/liftlog/internal/models"
)

// GetWorkoutState resolves the workout status for one (user, date). Absence
// of a schedule or a session is a valid state, never an error; on a fetch
// failure the resolver degrades to no_workout so a transient outage cannot
// crash a diary view. Failures are logged for diagnostics.
//
// Status derivation:
//
//	no schedule, no session  -> no_workout
//	schedule, no session     -> not_started
//	session present          -> session.Status, schedule or not
func (s *Service) GetWorkoutState(ctx context.Context, userID, date string) *models.WorkoutState {
	var (
		wg          sync.WaitGroup
		schedule    *models.ScheduleInstance
		session     *models.Session
		scheduleErr error
		sessionErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		schedule, scheduleErr = s.store.GetScheduleForDate(ctx, userID, date)
	}()
	go func() {
		defer wg.Done()
		session, sessionErr = s.store.GetSessionForDate(ctx, userID, date)
	}()
	wg.Wait()

	if scheduleErr != nil || sessionErr != nil {
		s.log.Error("workout state fetch failed",
			"user", userID, "date", date,
			"schedule_error", scheduleErr, "session_error", sessionErr)
		return &models.WorkoutState{Status: models.StatusNoWorkout}
	}

	if session != nil {
		deriveSessionStats(session)
	}

	status := models.StatusNoWorkout
	switch {
	case session != nil:
		status = session.Status
	case schedule != nil:
		status = models.StatusNotStarted
	}

	return &models.WorkoutState{
		Schedule: schedule,
		Session:  session,
		Status:   status,
	}
}

// deriveSessionStats fills the computed fields of each session exercise:
// the logged set count and the min/max over sets with a positive weight.
// Exercises with no positively-weighted sets get nil bounds, not zero.
func deriveSessionStats(session *models.Session) {
	for i := range session.Exercises {
		ex := &session.Exercises[i]
		ex.SetsCount = len(ex.Sets)
		ex.MinWeight = nil
		ex.MaxWeight = nil
		for _, set := range ex.Sets {
			if set.Weight == nil || *set.Weight <= 0 {
				continue
			}
			w := *set.Weight
			if ex.MinWeight == nil || w < *ex.MinWeight {
				ex.MinWeight = &w
			}
			if ex.MaxWeight == nil || w > *ex.MaxWeight {
				ex.MaxWeight = &w
			}
		}
	}
}
