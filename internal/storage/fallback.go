package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/claude/liftlog/internal/models"
)

// Fallback wraps a remote Store and a local Store. Every operation tries the
// remote first; on failure it logs a warning and performs the same operation
// against the local store. One attempt each, no retries, no reconciliation —
// data written locally during an outage stays local.
//
// ErrNotFound is a result, not an outage, and is never treated as a reason
// to fall back.
type Fallback struct {
	remote Store
	local  Store
	log    *slog.Logger
}

// NewFallback creates the remote-or-local decorator.
func NewFallback(remote, local Store, log *slog.Logger) *Fallback {
	return &Fallback{remote: remote, local: local, log: log}
}

func (f *Fallback) failover(op string, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	f.log.Warn("remote store unavailable, using local fallback", "op", op, "error", err)
	return true
}

func (f *Fallback) ListTemplates(ctx context.Context, userID string) ([]models.Template, error) {
	v, err := f.remote.ListTemplates(ctx, userID)
	if f.failover("ListTemplates", err) {
		return f.local.ListTemplates(ctx, userID)
	}
	return v, err
}

func (f *Fallback) GetTemplate(ctx context.Context, userID, templateID string) (*models.Template, error) {
	v, err := f.remote.GetTemplate(ctx, userID, templateID)
	if f.failover("GetTemplate", err) {
		return f.local.GetTemplate(ctx, userID, templateID)
	}
	return v, err
}

func (f *Fallback) UpsertTemplate(ctx context.Context, t models.Template) (models.Template, error) {
	v, err := f.remote.UpsertTemplate(ctx, t)
	if f.failover("UpsertTemplate", err) {
		return f.local.UpsertTemplate(ctx, t)
	}
	return v, err
}

func (f *Fallback) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	err := f.remote.DeleteTemplate(ctx, userID, templateID)
	if f.failover("DeleteTemplate", err) {
		return f.local.DeleteTemplate(ctx, userID, templateID)
	}
	return err
}

func (f *Fallback) InsertSession(ctx context.Context, s models.Session) (models.Session, error) {
	v, err := f.remote.InsertSession(ctx, s)
	if f.failover("InsertSession", err) {
		return f.local.InsertSession(ctx, s)
	}
	return v, err
}

func (f *Fallback) InsertSessionExercises(ctx context.Context, sessionID string, exercises []models.SessionExercise) ([]models.SessionExercise, error) {
	v, err := f.remote.InsertSessionExercises(ctx, sessionID, exercises)
	if f.failover("InsertSessionExercises", err) {
		return f.local.InsertSessionExercises(ctx, sessionID, exercises)
	}
	return v, err
}

func (f *Fallback) GetSessionForDate(ctx context.Context, userID, date string) (*models.Session, error) {
	v, err := f.remote.GetSessionForDate(ctx, userID, date)
	if f.failover("GetSessionForDate", err) {
		return f.local.GetSessionForDate(ctx, userID, date)
	}
	return v, err
}

func (f *Fallback) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	v, err := f.remote.GetSession(ctx, sessionID)
	if f.failover("GetSession", err) {
		return f.local.GetSession(ctx, sessionID)
	}
	return v, err
}

func (f *Fallback) UpdateSession(ctx context.Context, sessionID string, upd models.SessionUpdate) error {
	err := f.remote.UpdateSession(ctx, sessionID, upd)
	if f.failover("UpdateSession", err) {
		return f.local.UpdateSession(ctx, sessionID, upd)
	}
	return err
}

func (f *Fallback) DeleteSessionsForDate(ctx context.Context, userID, date string) error {
	err := f.remote.DeleteSessionsForDate(ctx, userID, date)
	if f.failover("DeleteSessionsForDate", err) {
		return f.local.DeleteSessionsForDate(ctx, userID, date)
	}
	return err
}

func (f *Fallback) CountSets(ctx context.Context, sessionExerciseID string) (int, error) {
	v, err := f.remote.CountSets(ctx, sessionExerciseID)
	if f.failover("CountSets", err) {
		return f.local.CountSets(ctx, sessionExerciseID)
	}
	return v, err
}

func (f *Fallback) InsertSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	v, err := f.remote.InsertSet(ctx, set)
	if f.failover("InsertSet", err) {
		return f.local.InsertSet(ctx, set)
	}
	return v, err
}

func (f *Fallback) GetScheduleForDate(ctx context.Context, userID, date string) (*models.ScheduleInstance, error) {
	v, err := f.remote.GetScheduleForDate(ctx, userID, date)
	if f.failover("GetScheduleForDate", err) {
		return f.local.GetScheduleForDate(ctx, userID, date)
	}
	return v, err
}

func (f *Fallback) UpsertScheduleInstance(ctx context.Context, inst models.ScheduleInstance) (models.ScheduleInstance, error) {
	v, err := f.remote.UpsertScheduleInstance(ctx, inst)
	if f.failover("UpsertScheduleInstance", err) {
		return f.local.UpsertScheduleInstance(ctx, inst)
	}
	return v, err
}

func (f *Fallback) ListUpcomingSchedules(ctx context.Context, userID, fromDate string, limit int) ([]models.ScheduleInstance, error) {
	v, err := f.remote.ListUpcomingSchedules(ctx, userID, fromDate, limit)
	if f.failover("ListUpcomingSchedules", err) {
		return f.local.ListUpcomingSchedules(ctx, userID, fromDate, limit)
	}
	return v, err
}
