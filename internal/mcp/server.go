// Package mcp exposes the workout core to model-context-protocol clients.
package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftlog/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user id injected by the transport layer.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return "default"
}

// WithUserID returns a context with the given user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(svc *workout.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Inspect workout state for any date, view upcoming scheduled workouts and templates, start sessions, log sets, and complete workouts. All data is scoped to the authenticated user."),
	)

	h := &handlers{svc: svc, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutState, Handler: h.getWorkoutState},
		server.ServerTool{Tool: toolGetUpcomingSchedule, Handler: h.getUpcomingSchedule},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.startWorkout},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolCompleteWorkout, Handler: h.completeWorkout},
	)

	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.todayState},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	svc *workout.Service
	log *slog.Logger
}

var resToday = mcp.NewResource(
	"liftlog://today",
	"Today's Workout",
	mcp.WithResourceDescription("The workout state for today: scheduled template, active session with logged sets, and the derived status"),
	mcp.WithMIMEType("application/json"),
)
