package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/workout"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, _ := r.Context().Value(userInfoKey).(UserInfo)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleWorkoutState(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date parameter required"})
		return
	}
	state := s.svc.GetWorkoutState(r.Context(), userID(r), date)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"template_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.TemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template_id required"})
		return
	}

	result, err := s.svc.StartWorkoutFromTemplate(r.Context(), userID(r), req.TemplateID)
	if err != nil {
		if errors.Is(err, workout.ErrTemplateNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("start workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start workout"})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleStartEmpty(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.StartEmptySession(r.Context(), userID(r))
	if err != nil {
		s.log.Error("start empty session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start workout"})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionExerciseID string `json:"session_exercise_id"`
		workout.SetInput
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.SessionExerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_exercise_id required"})
		return
	}

	set, err := s.svc.LogSet(r.Context(), req.SessionExerciseID, req.SetInput)
	if err != nil {
		s.log.Error("log set", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log set"})
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.CompleteWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, workout.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("complete workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to complete workout"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleUpdateCursor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseIndex int `json:"exercise_index"`
		SetIndex      int `json:"set_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Best-effort by contract: the service logs failures, the API always
	// acknowledges.
	s.svc.UpdateSessionState(r.Context(), chi.URLParam(r, "id"), req.ExerciseIndex, req.SetIndex)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetWorkout(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date parameter required"})
		return
	}
	if err := s.svc.ResetWorkout(r.Context(), userID(r), date); err != nil {
		s.log.Error("reset workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reset workout"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date       string `json:"date"`
		TemplateID string `json:"template_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date == "" || req.TemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date and template_id required"})
		return
	}

	inst, err := s.svc.ChangeScheduledWorkout(r.Context(), userID(r), req.Date, req.TemplateID)
	if err != nil {
		s.log.Error("change scheduled workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to change workout"})
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) handleScheduleWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"template_id"`
		Date       string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date == "" || req.TemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date and template_id required"})
		return
	}

	inst, err := s.svc.ScheduleWorkout(r.Context(), userID(r), req.TemplateID, req.Date)
	if err != nil {
		s.log.Error("schedule workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to schedule workout"})
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (s *Server) handleUpcomingSchedules(w http.ResponseWriter, r *http.Request) {
	instances, err := s.svc.GetUpcomingSchedules(r.Context(), userID(r))
	if err != nil {
		s.log.Error("upcoming schedules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load schedules"})
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.GetTemplates(r.Context(), userID(r))
	if err != nil {
		s.log.Error("list templates", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load templates"})
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if t.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	saved, err := s.svc.SaveTemplate(r.Context(), userID(r), t)
	if err != nil {
		s.log.Error("save template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save template"})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTemplate(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.log.Error("delete template", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete template"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := s.svc.GetDefinitions(r.Context(), userID(r))
	if err != nil {
		s.log.Error("list definitions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load schedules"})
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := s.svc.GetDefinition(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "schedule not found"})
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleSaveDefinition(w http.ResponseWriter, r *http.Request) {
	var def models.ScheduleDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if def.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	saved, err := s.svc.SaveDefinition(r.Context(), userID(r), def)
	if err != nil {
		s.log.Error("save definition", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save schedule"})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteDefinition(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.log.Error("delete definition", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete schedule"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
