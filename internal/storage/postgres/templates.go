package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListTemplates retrieves all templates for a user with their exercises in
// order_index order.
func (db *DB) ListTemplates(ctx context.Context, userID string) ([]models.Template, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name FROM templates WHERE user_id = $1 ORDER BY name ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		exercises, err := db.templateExercises(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Exercises = exercises
	}
	return result, nil
}

// GetTemplate retrieves a single template with its exercises. Returns
// storage.ErrNotFound when the id does not resolve for this user.
func (db *DB) GetTemplate(ctx context.Context, userID, templateID string) (*models.Template, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name FROM templates WHERE id = $1 AND user_id = $2`,
		templateID, userID)

	var t models.Template
	if err := row.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying template: %w", err)
	}

	exercises, err := db.templateExercises(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Exercises = exercises
	return &t, nil
}

func (db *DB) templateExercises(ctx context.Context, templateID string) ([]models.TemplateExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, template_id, name, muscle_group, order_index, exercise_type,
		 default_sets, per_set_config, progression_type, rest_seconds,
		 rest_between_exercises_enabled, rest_between_exercises_seconds, has_timer
		 FROM template_exercises
		 WHERE template_id = $1
		 ORDER BY order_index ASC`,
		templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateExercise
	for rows.Next() {
		var ex models.TemplateExercise
		if err := rows.Scan(&ex.ID, &ex.TemplateID, &ex.Name, &ex.MuscleGroup,
			&ex.OrderIndex, &ex.ExerciseType, &ex.DefaultSets, &ex.PerSetConfig,
			&ex.ProgressionType, &ex.RestSeconds, &ex.RestBetweenExercisesEnabled,
			&ex.RestBetweenExercisesSeconds, &ex.HasTimer); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// UpsertTemplate saves a template, replacing its exercise list wholesale.
// The header upsert and the exercise rewrite run in one transaction so a
// half-replaced exercise list is never observable.
func (db *DB) UpsertTemplate(ctx context.Context, t models.Template) (models.Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Template{}, fmt.Errorf("beginning template upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO templates (id, user_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		t.ID, t.UserID, t.Name)
	if err != nil {
		return models.Template{}, fmt.Errorf("upserting template: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_exercises WHERE template_id = $1`, t.ID); err != nil {
		return models.Template{}, fmt.Errorf("clearing template exercises: %w", err)
	}

	for i := range t.Exercises {
		ex := &t.Exercises[i]
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		ex.TemplateID = t.ID
		_, err := tx.Exec(ctx,
			`INSERT INTO template_exercises (id, template_id, name, muscle_group, order_index,
			 exercise_type, default_sets, per_set_config, progression_type, rest_seconds,
			 rest_between_exercises_enabled, rest_between_exercises_seconds, has_timer)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			ex.ID, ex.TemplateID, ex.Name, ex.MuscleGroup, ex.OrderIndex,
			ex.ExerciseType, ex.DefaultSets, ex.PerSetConfig, ex.ProgressionType,
			ex.RestSeconds, ex.RestBetweenExercisesEnabled,
			ex.RestBetweenExercisesSeconds, ex.HasTimer)
		if err != nil {
			return models.Template{}, fmt.Errorf("inserting template exercise: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Template{}, fmt.Errorf("committing template upsert: %w", err)
	}
	return t, nil
}

// DeleteTemplate removes a template; its exercises cascade.
func (db *DB) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1 AND user_id = $2`,
		templateID, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}
