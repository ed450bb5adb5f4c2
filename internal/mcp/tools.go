package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWorkoutState = mcp.NewTool("get_workout_state",
	mcp.WithDescription("Resolve the workout state for a date: the scheduled template (if any), the session with its exercises and logged sets (if any), and the derived status (no_workout, not_started, in_progress, completed, abandoned)."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetUpcomingSchedule = mcp.NewTool("get_upcoming_schedule",
	mcp.WithDescription("List scheduled workouts from today through the 28-day look-ahead horizon."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List the user's workout templates with their exercises, set targets, progression rules, and rest timings."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Start an in-progress session for today from a template, snapshotting the template. Returns the session and its exercises."),
	mcp.WithString("template_id", mcp.Required(), mcp.Description("Template id to start from")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log one completed set against a session exercise. Set numbers are assigned automatically (1-based, contiguous)."),
	mcp.WithString("session_exercise_id", mcp.Required(), mcp.Description("Session exercise id")),
	mcp.WithNumber("weight", mcp.Description("Weight lifted, if applicable")),
	mcp.WithNumber("reps", mcp.Description("Repetitions completed, if applicable")),
	mcp.WithNumber("duration_seconds", mcp.Description("Duration in seconds, for timed exercises")),
)

var toolCompleteWorkout = mcp.NewTool("complete_workout",
	mcp.WithDescription("Complete an in-progress session. Recomputes the total set count from the logged sets."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", time.Now().Format("2006-01-02"))
	uid := UserIDFromContext(ctx)

	state := h.svc.GetWorkoutState(ctx, uid, date)

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getUpcomingSchedule(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	instances, err := h.svc.GetUpcomingSchedules(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_upcoming_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(instances)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	templates, err := h.svc.GetTemplates(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(templates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("template_id parameter is required"), nil
	}
	uid := UserIDFromContext(ctx)

	started, err := h.svc.StartWorkoutFromTemplate(ctx, uid, templateID)
	if err != nil {
		h.log.Error("mcp start_workout", "error", err)
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(started)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("session_exercise_id")
	if err != nil {
		return mcp.NewToolResultError("session_exercise_id parameter is required"), nil
	}

	var in workout.SetInput
	if w := req.GetFloat("weight", 0); w > 0 {
		in.Weight = &w
	}
	if r := req.GetInt("reps", 0); r > 0 {
		in.Reps = &r
	}
	if d := req.GetInt("duration_seconds", 0); d > 0 {
		in.DurationSeconds = &d
	}

	set, err := h.svc.LogSet(ctx, exerciseID, in)
	if err != nil {
		h.log.Error("mcp log_set", "error", err)
		return mcp.NewToolResultError("log failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(set)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) completeWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	session, err := h.svc.CompleteWorkout(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp complete_workout", "error", err)
		return mcp.NewToolResultError("complete failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) todayState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	state := h.svc.GetWorkoutState(ctx, uid, time.Now().Format("2006-01-02"))

	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
