package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Credentials are the StrengthLog account credentials used for auto-login
// when a tool is called on an unauthenticated session.
type Credentials struct {
	Email    string
	Password string
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, creds Credentials, store SessionStore, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("StrengthLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("StrengthLog training data server. Query workout history, the exercise library, and training programs for the configured account. Results are markdown text."),
	)

	h := &handlers{ds: ds, creds: creds, store: store, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetExercises, Handler: h.getExercises},
		server.ServerTool{Tool: toolGetPrograms, Handler: h.getPrograms},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resExerciseLibrary, Handler: h.exerciseLibrary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds    DataSource
	creds Credentials
	store SessionStore
	log   *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"strengthlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 30 days, rendered as markdown"),
	mcp.WithMIMEType("text/markdown"),
)

var resExerciseLibrary = mcp.NewResource(
	"strengthlog://exercise_library",
	"Exercise Library",
	mcp.WithResourceDescription("The user's full exercise library, including custom exercises"),
	mcp.WithMIMEType("text/markdown"),
)
