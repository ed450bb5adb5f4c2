package workout

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
)

// GetTemplates lists the user's workout templates with their exercises.
func (s *Service) GetTemplates(ctx context.Context, userID string) ([]models.Template, error) {
	templates, err := s.store.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return templates, nil
}

// SaveTemplate creates or updates a template, replacing its exercise list
// wholesale. Exercise order indexes are reindexed contiguous and each
// exercise's per-set config is padded or trimmed to its set count before
// the write.
func (s *Service) SaveTemplate(ctx context.Context, userID string, t models.Template) (*models.Template, error) {
	t.UserID = userID
	t.Normalize()

	saved, err := s.store.UpsertTemplate(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("saving template: %w", err)
	}
	return &saved, nil
}

// DeleteTemplate removes a template and its exercises. Sessions started from
// the template keep their own snapshot and are unaffected.
func (s *Service) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	if err := s.store.DeleteTemplate(ctx, userID, templateID); err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}
