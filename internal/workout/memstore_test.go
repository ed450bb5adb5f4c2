package workout

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// memStore is an in-memory storage.Store and storage.DefinitionStore used to
// exercise the core without a database. Setting err makes every call fail,
// for testing degradation paths.
type memStore struct {
	err       error
	nextID    int
	templates []models.Template
	sessions  []models.Session
	instances []models.ScheduleInstance
	defs      []models.ScheduleDefinition
}

func (m *memStore) id() string {
	m.nextID++
	return fmt.Sprintf("mem-%d", m.nextID)
}

func (m *memStore) ListTemplates(_ context.Context, userID string) ([]models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Template
	for _, t := range m.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) GetTemplate(_ context.Context, userID, templateID string) (*models.Template, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.templates {
		if m.templates[i].UserID == userID && m.templates[i].ID == templateID {
			cp := m.templates[i]
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpsertTemplate(_ context.Context, t models.Template) (models.Template, error) {
	if m.err != nil {
		return models.Template{}, m.err
	}
	if t.ID == "" {
		t.ID = m.id()
	}
	for i := range t.Exercises {
		if t.Exercises[i].ID == "" {
			t.Exercises[i].ID = m.id()
		}
		t.Exercises[i].TemplateID = t.ID
	}
	for i := range m.templates {
		if m.templates[i].ID == t.ID {
			m.templates[i] = t
			return t, nil
		}
	}
	m.templates = append(m.templates, t)
	return t, nil
}

func (m *memStore) DeleteTemplate(_ context.Context, userID, templateID string) error {
	if m.err != nil {
		return m.err
	}
	kept := m.templates[:0]
	for _, t := range m.templates {
		if !(t.UserID == userID && t.ID == templateID) {
			kept = append(kept, t)
		}
	}
	m.templates = kept
	return nil
}

func (m *memStore) InsertSession(_ context.Context, s models.Session) (models.Session, error) {
	if m.err != nil {
		return models.Session{}, m.err
	}
	if s.ID == "" {
		s.ID = m.id()
	}
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memStore) InsertSessionExercises(_ context.Context, sessionID string, exercises []models.SessionExercise) ([]models.SessionExercise, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.sessions {
		if m.sessions[i].ID != sessionID {
			continue
		}
		for j := range exercises {
			if exercises[j].ID == "" {
				exercises[j].ID = m.id()
			}
			exercises[j].SessionID = sessionID
		}
		m.sessions[i].Exercises = append(m.sessions[i].Exercises, exercises...)
		return exercises, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetSessionForDate(_ context.Context, userID, date string) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.sessions {
		if m.sessions[i].UserID == userID && m.sessions[i].Date == date {
			cp := m.sessions[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.sessions {
		if m.sessions[i].ID == sessionID {
			cp := m.sessions[i]
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) UpdateSession(_ context.Context, sessionID string, upd models.SessionUpdate) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.sessions {
		if m.sessions[i].ID != sessionID {
			continue
		}
		s := &m.sessions[i]
		if upd.Status != nil {
			s.Status = *upd.Status
		}
		if upd.EndedAt != nil {
			s.EndedAt = upd.EndedAt
		}
		if upd.TotalSets != nil {
			s.TotalSets = *upd.TotalSets
		}
		if upd.CurrentExerciseIndex != nil {
			s.CurrentExerciseIndex = *upd.CurrentExerciseIndex
		}
		if upd.CurrentSetIndex != nil {
			s.CurrentSetIndex = *upd.CurrentSetIndex
		}
		return nil
	}
	return storage.ErrNotFound
}

func (m *memStore) DeleteSessionsForDate(_ context.Context, userID, date string) error {
	if m.err != nil {
		return m.err
	}
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if !(s.UserID == userID && s.Date == date) {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	return nil
}

func (m *memStore) findExercise(sessionExerciseID string) *models.SessionExercise {
	for i := range m.sessions {
		for j := range m.sessions[i].Exercises {
			if m.sessions[i].Exercises[j].ID == sessionExerciseID {
				return &m.sessions[i].Exercises[j]
			}
		}
	}
	return nil
}

func (m *memStore) CountSets(_ context.Context, sessionExerciseID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	ex := m.findExercise(sessionExerciseID)
	if ex == nil {
		return 0, storage.ErrNotFound
	}
	return len(ex.Sets), nil
}

func (m *memStore) InsertSet(_ context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	if m.err != nil {
		return models.WorkoutSet{}, m.err
	}
	ex := m.findExercise(set.SessionExerciseID)
	if ex == nil {
		return models.WorkoutSet{}, storage.ErrNotFound
	}
	if set.ID == "" {
		set.ID = m.id()
	}
	ex.Sets = append(ex.Sets, set)
	return set, nil
}

func (m *memStore) GetScheduleForDate(_ context.Context, userID, date string) (*models.ScheduleInstance, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.instances {
		if m.instances[i].UserID == userID && m.instances[i].ScheduledDate == date {
			cp := m.instances[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpsertScheduleInstance(_ context.Context, inst models.ScheduleInstance) (models.ScheduleInstance, error) {
	if m.err != nil {
		return models.ScheduleInstance{}, m.err
	}
	for i := range m.instances {
		if m.instances[i].UserID == inst.UserID && m.instances[i].ScheduledDate == inst.ScheduledDate {
			inst.ID = m.instances[i].ID
			m.instances[i] = inst
			return inst, nil
		}
	}
	inst.ID = m.id()
	m.instances = append(m.instances, inst)
	return inst, nil
}

func (m *memStore) ListUpcomingSchedules(_ context.Context, userID, fromDate string, limit int) ([]models.ScheduleInstance, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.ScheduleInstance
	for _, inst := range m.instances {
		if inst.UserID == userID && inst.ScheduledDate >= fromDate {
			out = append(out, inst)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListDefinitions(_ context.Context, userID string) ([]models.ScheduleDefinition, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.defs, nil
}

func (m *memStore) GetDefinition(_ context.Context, userID, definitionID string) (*models.ScheduleDefinition, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.defs {
		if m.defs[i].ID == definitionID {
			cp := m.defs[i]
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) SaveDefinition(_ context.Context, userID string, def models.ScheduleDefinition) (models.ScheduleDefinition, error) {
	if m.err != nil {
		return models.ScheduleDefinition{}, m.err
	}
	for i := range m.defs {
		if m.defs[i].ID == def.ID {
			m.defs[i] = def
			return def, nil
		}
	}
	if def.ID == "" {
		def.ID = m.id()
	}
	m.defs = append(m.defs, def)
	return def, nil
}

func (m *memStore) DeleteDefinition(_ context.Context, userID, definitionID string) error {
	if m.err != nil {
		return m.err
	}
	kept := m.defs[:0]
	for _, d := range m.defs {
		if d.ID != definitionID {
			kept = append(kept, d)
		}
	}
	m.defs = kept
	return nil
}
