package storage

import (
	"context"
	"errors"

	"github.com/claude/liftlog/internal/models"
)

// ErrNotFound is returned when a lookup by id resolves to nothing.
var ErrNotFound = errors.New("not found")

// Store is the data-access contract shared by the remote backend and the
// local fallback. The workout core composes these operations; it never talks
// to either implementation directly.
//
// Per-date lookups return (nil, nil) when nothing exists for that date —
// absence is a valid state there. Lookups by id return ErrNotFound.
type Store interface {
	// Templates
	ListTemplates(ctx context.Context, userID string) ([]models.Template, error)
	GetTemplate(ctx context.Context, userID, templateID string) (*models.Template, error)
	UpsertTemplate(ctx context.Context, t models.Template) (models.Template, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error

	// Sessions
	InsertSession(ctx context.Context, s models.Session) (models.Session, error)
	InsertSessionExercises(ctx context.Context, sessionID string, exercises []models.SessionExercise) ([]models.SessionExercise, error)
	GetSessionForDate(ctx context.Context, userID, date string) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateSession(ctx context.Context, sessionID string, upd models.SessionUpdate) error
	DeleteSessionsForDate(ctx context.Context, userID, date string) error
	CountSets(ctx context.Context, sessionExerciseID string) (int, error)
	InsertSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error)

	// Schedule instances
	GetScheduleForDate(ctx context.Context, userID, date string) (*models.ScheduleInstance, error)
	UpsertScheduleInstance(ctx context.Context, inst models.ScheduleInstance) (models.ScheduleInstance, error)
	ListUpcomingSchedules(ctx context.Context, userID, fromDate string, limit int) ([]models.ScheduleInstance, error)
}

// DefinitionStore holds recurring weekly schedule definitions. Definitions
// have no remote equivalent; only the local store implements this.
type DefinitionStore interface {
	ListDefinitions(ctx context.Context, userID string) ([]models.ScheduleDefinition, error)
	GetDefinition(ctx context.Context, userID, definitionID string) (*models.ScheduleDefinition, error)
	SaveDefinition(ctx context.Context, userID string, def models.ScheduleDefinition) (models.ScheduleDefinition, error)
	DeleteDefinition(ctx context.Context, userID, definitionID string) error
}
