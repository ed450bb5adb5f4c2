package workout

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// ScheduleWorkout assigns a template directly to one date, overwriting
// whatever that date already had.
func (s *Service) ScheduleWorkout(ctx context.Context, userID, templateID, date string) (*models.ScheduleInstance, error) {
	inst, err := s.store.UpsertScheduleInstance(ctx, models.ScheduleInstance{
		UserID:        userID,
		TemplateID:    templateID,
		ScheduledDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling workout: %w", err)
	}
	return &inst, nil
}

// GetUpcomingSchedules returns the scheduled instances from today through
// the look-ahead horizon.
func (s *Service) GetUpcomingSchedules(ctx context.Context, userID string) ([]models.ScheduleInstance, error) {
	instances, err := s.store.ListUpcomingSchedules(ctx, userID, s.today(), horizonDays)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming schedules: %w", err)
	}
	return instances, nil
}

// --- Schedule definitions ---

// GetDefinitions lists the user's recurring weekly plans.
func (s *Service) GetDefinitions(ctx context.Context, userID string) ([]models.ScheduleDefinition, error) {
	return s.defs.ListDefinitions(ctx, userID)
}

// GetDefinition fetches one recurring plan by id.
func (s *Service) GetDefinition(ctx context.Context, userID, definitionID string) (*models.ScheduleDefinition, error) {
	return s.defs.GetDefinition(ctx, userID, definitionID)
}

// SaveDefinition persists a recurring plan (replacing its entry list
// wholesale) and, when the plan is active, regenerates the concrete
// instances for the look-ahead horizon. Saving an inactive plan generates
// nothing and does not retro-delete instances from a previously active
// state.
func (s *Service) SaveDefinition(ctx context.Context, userID string, def models.ScheduleDefinition) (*models.ScheduleDefinition, error) {
	saved, err := s.defs.SaveDefinition(ctx, userID, def)
	if err != nil {
		return nil, fmt.Errorf("saving schedule definition: %w", err)
	}

	if saved.IsActive {
		if err := s.generateInstances(ctx, userID, saved); err != nil {
			return nil, err
		}
	}
	return &saved, nil
}

// DeleteDefinition removes a recurring plan. Instances already generated
// from it stay on the calendar.
func (s *Service) DeleteDefinition(ctx context.Context, userID, definitionID string) error {
	return s.defs.DeleteDefinition(ctx, userID, definitionID)
}

// generateInstances expands an active definition into dated instances for
// the next horizonDays days, today inclusive. Instances upsert on
// (user, date), which makes the whole pass idempotent: re-saving the same
// definition re-runs generation over the same horizon without duplicating
// anything. When a definition carries several entries for one weekday, the
// last entry processed wins; the upsert key is per-date, not per-entry.
func (s *Service) generateInstances(ctx context.Context, userID string, def models.ScheduleDefinition) error {
	start, err := parseDate(s.today())
	if err != nil {
		return fmt.Errorf("resolving generation start: %w", err)
	}

	for i := 0; i < horizonDays; i++ {
		day := start.AddDate(0, 0, i)
		weekday := day.Weekday().String()
		date := day.Format(dateFormat)

		for _, entry := range def.Entries {
			if entry.DayOfWeek != weekday {
				continue
			}
			_, err := s.store.UpsertScheduleInstance(ctx, models.ScheduleInstance{
				UserID:        userID,
				TemplateID:    entry.TemplateID,
				ScheduledDate: date,
			})
			if err != nil {
				return fmt.Errorf("generating instance for %s: %w", date, err)
			}
		}
	}
	return nil
}
