package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, template_id, name, date, status, started_at, ended_at,
	 total_sets, session_snapshot, current_exercise_index, current_set_index`

// InsertSession inserts a session header row.
func (db *DB) InsertSession(ctx context.Context, s models.Session) (models.Session, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		s.ID, s.UserID, s.TemplateID, s.Name, s.Date, s.Status, s.StartedAt,
		s.EndedAt, s.TotalSets, s.Snapshot, s.CurrentExerciseIndex, s.CurrentSetIndex)
	if err != nil {
		return models.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// InsertSessionExercises inserts the snapshotted exercises for a session,
// preserving the order they are given in.
func (db *DB) InsertSessionExercises(ctx context.Context, sessionID string, exercises []models.SessionExercise) ([]models.SessionExercise, error) {
	for i := range exercises {
		ex := &exercises[i]
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		ex.SessionID = sessionID
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO session_exercises (id, session_id, template_exercise_id, name,
			 muscle_group, order_index, exercise_type, default_sets, per_set_config,
			 progression_type, rest_seconds, rest_between_exercises_enabled,
			 rest_between_exercises_seconds, has_timer)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			ex.ID, ex.SessionID, ex.TemplateExerciseID, ex.Name, ex.MuscleGroup,
			ex.OrderIndex, ex.ExerciseType, ex.DefaultSets, ex.PerSetConfig,
			ex.ProgressionType, ex.RestSeconds, ex.RestBetweenExercisesEnabled,
			ex.RestBetweenExercisesSeconds, ex.HasTimer)
		if err != nil {
			return nil, fmt.Errorf("inserting session exercise %d: %w", i, err)
		}
	}
	return exercises, nil
}

// GetSessionForDate retrieves the session for a (user, date) with its
// exercises and sets. Returns (nil, nil) when no session exists.
func (db *DB) GetSessionForDate(ctx context.Context, userID, date string) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND date = $2
		 ORDER BY started_at DESC LIMIT 1`,
		userID, date)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying session for date: %w", err)
	}
	if err := db.attachExercises(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession retrieves a session by id with its exercises and sets.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`,
		sessionID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if err := db.attachExercises(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.TemplateID, &s.Name, &s.Date, &s.Status,
		&s.StartedAt, &s.EndedAt, &s.TotalSets, &s.Snapshot,
		&s.CurrentExerciseIndex, &s.CurrentSetIndex)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) attachExercises(ctx context.Context, s *models.Session) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, template_exercise_id, name, muscle_group, order_index,
		 exercise_type, default_sets, per_set_config, progression_type, rest_seconds,
		 rest_between_exercises_enabled, rest_between_exercises_seconds, has_timer
		 FROM session_exercises
		 WHERE session_id = $1
		 ORDER BY order_index ASC`,
		s.ID)
	if err != nil {
		return fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.SessionExercise
	for rows.Next() {
		var ex models.SessionExercise
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.TemplateExerciseID, &ex.Name,
			&ex.MuscleGroup, &ex.OrderIndex, &ex.ExerciseType, &ex.DefaultSets,
			&ex.PerSetConfig, &ex.ProgressionType, &ex.RestSeconds,
			&ex.RestBetweenExercisesEnabled, &ex.RestBetweenExercisesSeconds,
			&ex.HasTimer); err != nil {
			return fmt.Errorf("scanning session exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range exercises {
		sets, err := db.setsForExercise(ctx, exercises[i].ID)
		if err != nil {
			return err
		}
		exercises[i].Sets = sets
	}
	s.Exercises = exercises
	return nil
}

func (db *DB) setsForExercise(ctx context.Context, sessionExerciseID string) ([]models.WorkoutSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_exercise_id, set_number, weight, reps, duration_seconds, completed_at
		 FROM workout_sets
		 WHERE session_exercise_id = $1
		 ORDER BY set_number ASC`,
		sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.WorkoutSet
	for rows.Next() {
		var ws models.WorkoutSet
		if err := rows.Scan(&ws.ID, &ws.SessionExerciseID, &ws.SetNumber,
			&ws.Weight, &ws.Reps, &ws.DurationSeconds, &ws.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, ws)
	}
	return sets, rows.Err()
}

// UpdateSession applies a partial update to a session row.
func (db *DB) UpdateSession(ctx context.Context, sessionID string, upd models.SessionUpdate) error {
	setClauses := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(col string, v any) {
		args = append(args, v)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.EndedAt != nil {
		add("ended_at", *upd.EndedAt)
	}
	if upd.TotalSets != nil {
		add("total_sets", *upd.TotalSets)
	}
	if upd.CurrentExerciseIndex != nil {
		add("current_exercise_index", *upd.CurrentExerciseIndex)
	}
	if upd.CurrentSetIndex != nil {
		add("current_set_index", *upd.CurrentSetIndex)
	}
	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, sessionID)
	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteSessionsForDate removes all sessions for a (user, date); exercises
// and sets cascade.
func (db *DB) DeleteSessionsForDate(ctx context.Context, userID, date string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND date = $2`,
		userID, date)
	if err != nil {
		return fmt.Errorf("deleting sessions for date: %w", err)
	}
	return nil
}

// CountSets returns the number of sets logged against a session exercise.
func (db *DB) CountSets(ctx context.Context, sessionExerciseID string) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sets WHERE session_exercise_id = $1`,
		sessionExerciseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sets: %w", err)
	}
	return count, nil
}

// InsertSet appends one set to a session exercise.
func (db *DB) InsertSet(ctx context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sets (id, session_exercise_id, set_number, weight, reps, duration_seconds, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		set.ID, set.SessionExerciseID, set.SetNumber, set.Weight, set.Reps,
		set.DurationSeconds, set.CompletedAt)
	if err != nil {
		return models.WorkoutSet{}, fmt.Errorf("inserting set: %w", err)
	}
	return set, nil
}
