// Package local implements the fallback store used when the remote backend
// is unreachable. Data lives in a single SQLite file: one row per (kind,
// user) collection holding a JSON array, plus a secondary id index so that
// lookups by id alone never have to scan collections across users.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	_ "modernc.org/sqlite"
)

// Collection key prefixes. Keys are "<kind>_<userID>".
const (
	kindTemplates   = "templates"
	kindSessions    = "sessions"
	kindSchedule    = "schedule"
	kindDefinitions = "definitions"
)

// Store is the local fallback store. A single mutex serializes
// read-modify-write cycles; without it two rapid writes could both read the
// same collection state and one update would be lost.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the local store database at dir/liftlog.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating local store dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "liftlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS collections (
			key  TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS id_index (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			kind    TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating local store tables: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a timestamp-based id. Unique enough for a single client;
// not globally unique and never sent to the remote store.
func newID() string {
	return fmt.Sprintf("local-%d", time.Now().UnixNano())
}

func key(kind, userID string) string {
	return kind + "_" + userID
}

func (s *Store) load(key string, v any) error {
	var data string
	err := s.db.QueryRow(`SELECT data FROM collections WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading collection %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decoding collection %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding collection %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO collections (key, data) VALUES (?, ?)`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("saving collection %s: %w", key, err)
	}
	return nil
}

func (s *Store) index(id, userID, kind string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO id_index (id, user_id, kind) VALUES (?, ?, ?)`,
		id, userID, kind)
	if err != nil {
		return fmt.Errorf("indexing id %s: %w", id, err)
	}
	return nil
}

func (s *Store) unindex(ids ...string) error {
	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM id_index WHERE id = ?`, id); err != nil {
			return fmt.Errorf("unindexing id %s: %w", id, err)
		}
	}
	return nil
}

// userForID resolves the owning user of an indexed id.
func (s *Store) userForID(id string) (string, error) {
	var userID string
	err := s.db.QueryRow(`SELECT user_id FROM id_index WHERE id = ?`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolving id %s: %w", id, err)
	}
	return userID, nil
}

// --- Templates ---

func (s *Store) ListTemplates(_ context.Context, userID string) ([]models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var templates []models.Template
	if err := s.load(key(kindTemplates, userID), &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *Store) GetTemplate(_ context.Context, userID, templateID string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var templates []models.Template
	if err := s.load(key(kindTemplates, userID), &templates); err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == templateID {
			return &templates[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) UpsertTemplate(_ context.Context, t models.Template) (models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = newID()
	}
	for i := range t.Exercises {
		if t.Exercises[i].ID == "" {
			t.Exercises[i].ID = newID()
		}
		t.Exercises[i].TemplateID = t.ID
	}

	k := key(kindTemplates, t.UserID)
	var templates []models.Template
	if err := s.load(k, &templates); err != nil {
		return models.Template{}, err
	}

	replaced := false
	for i := range templates {
		if templates[i].ID == t.ID {
			templates[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		templates = append(templates, t)
	}

	if err := s.save(k, templates); err != nil {
		return models.Template{}, err
	}
	if err := s.index(t.ID, t.UserID, kindTemplates); err != nil {
		return models.Template{}, err
	}
	return t, nil
}

func (s *Store) DeleteTemplate(_ context.Context, userID, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(kindTemplates, userID)
	var templates []models.Template
	if err := s.load(k, &templates); err != nil {
		return err
	}

	kept := templates[:0]
	for _, t := range templates {
		if t.ID != templateID {
			kept = append(kept, t)
		}
	}
	if err := s.save(k, kept); err != nil {
		return err
	}
	return s.unindex(templateID)
}

// --- Sessions ---

// Sessions are stored document-style: exercises and their sets live inside
// the session object, so one collection write covers the whole tree.

func (s *Store) InsertSession(_ context.Context, sess models.Session) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = newID()
	}

	k := key(kindSessions, sess.UserID)
	var sessions []models.Session
	if err := s.load(k, &sessions); err != nil {
		return models.Session{}, err
	}
	sessions = append(sessions, sess)

	if err := s.save(k, sessions); err != nil {
		return models.Session{}, err
	}
	if err := s.index(sess.ID, sess.UserID, kindSessions); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *Store) InsertSessionExercises(_ context.Context, sessionID string, exercises []models.SessionExercise) ([]models.SessionExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.userForID(sessionID)
	if err != nil {
		return nil, err
	}

	k := key(kindSessions, userID)
	var sessions []models.Session
	if err := s.load(k, &sessions); err != nil {
		return nil, err
	}

	for si := range sessions {
		if sessions[si].ID != sessionID {
			continue
		}
		for i := range exercises {
			if exercises[i].ID == "" {
				exercises[i].ID = newID()
			}
			exercises[i].SessionID = sessionID
			if err := s.index(exercises[i].ID, userID, "session_exercises"); err != nil {
				return nil, err
			}
		}
		sessions[si].Exercises = append(sessions[si].Exercises, exercises...)
		if err := s.save(k, sessions); err != nil {
			return nil, err
		}
		return exercises, nil
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetSessionForDate(_ context.Context, userID, date string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []models.Session
	if err := s.load(key(kindSessions, userID), &sessions); err != nil {
		return nil, err
	}
	// Latest first, matching the remote query's ORDER BY started_at DESC.
	var found *models.Session
	for i := range sessions {
		if sessions[i].Date != date {
			continue
		}
		if found == nil || sessions[i].StartedAt.After(found.StartedAt) {
			found = &sessions[i]
		}
	}
	return found, nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, _, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// findSession loads the owning user's session collection and returns the
// session along with the collection and its key, for callers that mutate.
// Caller must hold the mutex.
func (s *Store) findSession(sessionID string) (*models.Session, []models.Session, string, error) {
	userID, err := s.userForID(sessionID)
	if err != nil {
		return nil, nil, "", err
	}

	k := key(kindSessions, userID)
	var sessions []models.Session
	if err := s.load(k, &sessions); err != nil {
		return nil, nil, "", err
	}
	for i := range sessions {
		if sessions[i].ID == sessionID {
			return &sessions[i], sessions, k, nil
		}
	}
	return nil, nil, "", storage.ErrNotFound
}

func (s *Store) UpdateSession(_ context.Context, sessionID string, upd models.SessionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, sessions, k, err := s.findSession(sessionID)
	if err != nil {
		return err
	}
	if upd.Status != nil {
		sess.Status = *upd.Status
	}
	if upd.EndedAt != nil {
		sess.EndedAt = upd.EndedAt
	}
	if upd.TotalSets != nil {
		sess.TotalSets = *upd.TotalSets
	}
	if upd.CurrentExerciseIndex != nil {
		sess.CurrentExerciseIndex = *upd.CurrentExerciseIndex
	}
	if upd.CurrentSetIndex != nil {
		sess.CurrentSetIndex = *upd.CurrentSetIndex
	}
	return s.save(k, sessions)
}

func (s *Store) DeleteSessionsForDate(_ context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(kindSessions, userID)
	var sessions []models.Session
	if err := s.load(k, &sessions); err != nil {
		return err
	}

	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.Date != date {
			kept = append(kept, sess)
			continue
		}
		ids := []string{sess.ID}
		for _, ex := range sess.Exercises {
			ids = append(ids, ex.ID)
		}
		if err := s.unindex(ids...); err != nil {
			return err
		}
	}
	return s.save(k, kept)
}

// findExercise locates a session exercise by id via the id index. Caller
// must hold the mutex.
func (s *Store) findExercise(sessionExerciseID string) (*models.SessionExercise, []models.Session, string, error) {
	userID, err := s.userForID(sessionExerciseID)
	if err != nil {
		return nil, nil, "", err
	}

	k := key(kindSessions, userID)
	var sessions []models.Session
	if err := s.load(k, &sessions); err != nil {
		return nil, nil, "", err
	}
	for si := range sessions {
		for ei := range sessions[si].Exercises {
			if sessions[si].Exercises[ei].ID == sessionExerciseID {
				return &sessions[si].Exercises[ei], sessions, k, nil
			}
		}
	}
	return nil, nil, "", storage.ErrNotFound
}

func (s *Store) CountSets(_ context.Context, sessionExerciseID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, _, _, err := s.findExercise(sessionExerciseID)
	if err != nil {
		return 0, err
	}
	return len(ex.Sets), nil
}

func (s *Store) InsertSet(_ context.Context, set models.WorkoutSet) (models.WorkoutSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, sessions, k, err := s.findExercise(set.SessionExerciseID)
	if err != nil {
		return models.WorkoutSet{}, err
	}
	if set.ID == "" {
		set.ID = newID()
	}
	ex.Sets = append(ex.Sets, set)
	if err := s.save(k, sessions); err != nil {
		return models.WorkoutSet{}, err
	}
	return set, nil
}

// --- Schedule instances ---

func (s *Store) GetScheduleForDate(_ context.Context, userID, date string) (*models.ScheduleInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var instances []models.ScheduleInstance
	if err := s.load(key(kindSchedule, userID), &instances); err != nil {
		return nil, err
	}
	for i := range instances {
		if instances[i].ScheduledDate == date {
			inst := instances[i]
			inst.Template = s.templateByID(userID, inst.TemplateID)
			return &inst, nil
		}
	}
	return nil, nil
}

// templateByID attaches a joined template when present locally. Caller must
// hold the mutex.
func (s *Store) templateByID(userID, templateID string) *models.Template {
	var templates []models.Template
	if err := s.load(key(kindTemplates, userID), &templates); err != nil {
		return nil
	}
	for i := range templates {
		if templates[i].ID == templateID {
			return &templates[i]
		}
	}
	return nil
}

func (s *Store) UpsertScheduleInstance(_ context.Context, inst models.ScheduleInstance) (models.ScheduleInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(kindSchedule, inst.UserID)
	var instances []models.ScheduleInstance
	if err := s.load(k, &instances); err != nil {
		return models.ScheduleInstance{}, err
	}

	replaced := false
	for i := range instances {
		if instances[i].ScheduledDate == inst.ScheduledDate {
			inst.ID = instances[i].ID
			instances[i] = inst
			replaced = true
			break
		}
	}
	if !replaced {
		if inst.ID == "" {
			inst.ID = newID()
		}
		instances = append(instances, inst)
	}

	if err := s.save(k, instances); err != nil {
		return models.ScheduleInstance{}, err
	}
	return inst, nil
}

func (s *Store) ListUpcomingSchedules(_ context.Context, userID, fromDate string, limit int) ([]models.ScheduleInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var instances []models.ScheduleInstance
	if err := s.load(key(kindSchedule, userID), &instances); err != nil {
		return nil, err
	}

	var result []models.ScheduleInstance
	for _, inst := range instances {
		if inst.ScheduledDate >= fromDate {
			result = append(result, inst)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledDate < result[j].ScheduledDate
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	for i := range result {
		result[i].Template = s.templateByID(userID, result[i].TemplateID)
	}
	return result, nil
}
