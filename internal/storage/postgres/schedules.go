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

// GetScheduleForDate retrieves the schedule instance for a (user, date),
// joined with its template. Returns (nil, nil) when the date has nothing
// scheduled.
func (db *DB) GetScheduleForDate(ctx context.Context, userID, date string) (*models.ScheduleInstance, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, template_id, scheduled_date
		 FROM schedule_instances
		 WHERE user_id = $1 AND scheduled_date = $2`,
		userID, date)

	var inst models.ScheduleInstance
	if err := row.Scan(&inst.ID, &inst.UserID, &inst.TemplateID, &inst.ScheduledDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying schedule instance: %w", err)
	}

	tpl, err := db.GetTemplate(ctx, userID, inst.TemplateID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	inst.Template = tpl
	return &inst, nil
}

// UpsertScheduleInstance writes an instance keyed on (user_id, scheduled_date).
// Scheduling a second workout on an already-scheduled date overwrites the
// first.
func (db *DB) UpsertScheduleInstance(ctx context.Context, inst models.ScheduleInstance) (models.ScheduleInstance, error) {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO schedule_instances (id, user_id, template_id, scheduled_date)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, scheduled_date)
		 DO UPDATE SET template_id = EXCLUDED.template_id
		 RETURNING id`,
		inst.ID, inst.UserID, inst.TemplateID, inst.ScheduledDate)
	if err := row.Scan(&inst.ID); err != nil {
		return models.ScheduleInstance{}, fmt.Errorf("upserting schedule instance: %w", err)
	}
	return inst, nil
}

// ListUpcomingSchedules retrieves instances from a date forward, ascending.
func (db *DB) ListUpcomingSchedules(ctx context.Context, userID, fromDate string, limit int) ([]models.ScheduleInstance, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, template_id, scheduled_date
		 FROM schedule_instances
		 WHERE user_id = $1 AND scheduled_date >= $2
		 ORDER BY scheduled_date ASC
		 LIMIT $3`,
		userID, fromDate, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming schedules: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduleInstance
	for rows.Next() {
		var inst models.ScheduleInstance
		if err := rows.Scan(&inst.ID, &inst.UserID, &inst.TemplateID, &inst.ScheduledDate); err != nil {
			return nil, fmt.Errorf("scanning schedule instance: %w", err)
		}
		result = append(result, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		tpl, err := db.GetTemplate(ctx, userID, result[i].TemplateID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		result[i].Template = tpl
	}
	return result, nil
}
