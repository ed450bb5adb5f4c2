package local

import (
	"context"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Schedule definitions live only in the local store; there is no remote
// table for them. They are mutated wholesale: SaveDefinition replaces the
// entire entry list.

func (s *Store) ListDefinitions(_ context.Context, userID string) ([]models.ScheduleDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var defs []models.ScheduleDefinition
	if err := s.load(key(kindDefinitions, userID), &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (s *Store) GetDefinition(_ context.Context, userID, definitionID string) (*models.ScheduleDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var defs []models.ScheduleDefinition
	if err := s.load(key(kindDefinitions, userID), &defs); err != nil {
		return nil, err
	}
	for i := range defs {
		if defs[i].ID == definitionID {
			return &defs[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) SaveDefinition(_ context.Context, userID string, def models.ScheduleDefinition) (models.ScheduleDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	def.UpdatedAt = now

	k := key(kindDefinitions, userID)
	var defs []models.ScheduleDefinition
	if err := s.load(k, &defs); err != nil {
		return models.ScheduleDefinition{}, err
	}

	replaced := false
	for i := range defs {
		if defs[i].ID == def.ID {
			def.CreatedAt = defs[i].CreatedAt
			defs[i] = def
			replaced = true
			break
		}
	}
	if !replaced {
		if def.ID == "" {
			def.ID = newID()
		}
		def.CreatedAt = now
		defs = append(defs, def)
	}

	if err := s.save(k, defs); err != nil {
		return models.ScheduleDefinition{}, err
	}
	return def, nil
}

// DeleteDefinition removes a definition. Already-generated schedule
// instances are left in place.
func (s *Store) DeleteDefinition(_ context.Context, userID, definitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(kindDefinitions, userID)
	var defs []models.ScheduleDefinition
	if err := s.load(k, &defs); err != nil {
		return err
	}

	kept := defs[:0]
	for _, d := range defs {
		if d.ID != definitionID {
			kept = append(kept, d)
		}
	}
	return s.save(k, kept)
}
