package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

const defaultWorkoutLimit = 50

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Fetch workout history from StrengthLog. Returns one markdown section per workout with date, duration, total volume, and per-exercise set lines."),
	mcp.WithNumber("since_days", mcp.Description("Only return workouts from the last N days (counted from UTC midnight). Omit for all workouts.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 50.")),
)

var toolGetExercises = mcp.NewTool("get_exercises",
	mcp.WithDescription("Fetch the user's exercise library from StrengthLog, including custom exercises. Sorted by name, with non-English translations."),
)

var toolGetPrograms = mcp.NewTool("get_programs",
	mcp.WithDescription("List all training programs: user-created, followed, and global. Returns id, source, and workout count per program."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Fetch full details of a training program including all workouts and prescribed sets."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("The program ID (from get_programs)")),
	mcp.WithString("source", mcp.Description("Program source. Defaults to 'user_programs'."), mcp.Enum("user_programs", "following", "global")),
)

// ensureLogin logs in with the configured credentials when the session holds
// no credential, and persists the resulting state. Token refresh on expiry is
// handled further down, inside the client.
func (h *handlers) ensureLogin(ctx context.Context) error {
	if h.ds.IsAuthenticated() {
		return nil
	}

	if h.creds.Email == "" || h.creds.Password == "" {
		return &strengthlog.AuthError{Message: "no credentials configured: set auth.email/auth.password or STRENGTHLOG_EMAIL/STRENGTHLOG_PASSWORD"}
	}

	if err := h.ds.Login(ctx, h.creds.Email, h.creds.Password); err != nil {
		return err
	}
	h.log.Info("logged in", "email", h.creds.Email)

	if h.store != nil {
		if err := h.store.Save(h.ds.AuthState()); err != nil {
			h.log.Warn("persisting session failed", "error", err)
		}
	}
	return nil
}

// toolError maps an operation error to a tool result, keeping auth failures
// distinguishable for the agent.
func (h *handlers) toolError(toolName string, err error) *mcp.CallToolResult {
	h.log.Error("mcp "+toolName, "error", err)

	var authErr *strengthlog.AuthError
	if errors.As(err, &authErr) {
		return mcp.NewToolResultError("authentication failed: " + authErr.Message)
	}
	return mcp.NewToolResultError("query failed: " + err.Error())
}

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.ensureLogin(ctx); err != nil {
		return h.toolError("get_workouts", err), nil
	}

	// since_days is meaningful at zero (today only), so presence matters.
	var since *time.Time
	if _, ok := req.GetArguments()["since_days"]; ok {
		days := req.GetInt("since_days", 0)
		if days < 0 {
			return mcp.NewToolResultError("since_days must be non-negative"), nil
		}
		cutoff := strengthlog.Since(days)
		since = &cutoff
	}

	limit := req.GetInt("limit", defaultWorkoutLimit)

	workouts, err := h.ds.GetWorkouts(ctx, since, limit)
	if err != nil {
		return h.toolError("get_workouts", err), nil
	}

	return mcp.NewToolResultText(renderWorkouts(workouts)), nil
}

func (h *handlers) getExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.ensureLogin(ctx); err != nil {
		return h.toolError("get_exercises", err), nil
	}

	exercises, err := h.ds.GetExercises(ctx)
	if err != nil {
		return h.toolError("get_exercises", err), nil
	}

	return mcp.NewToolResultText(renderExercises(exercises)), nil
}

func (h *handlers) getPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.ensureLogin(ctx); err != nil {
		return h.toolError("get_programs", err), nil
	}

	programs, err := h.ds.GetPrograms(ctx)
	if err != nil {
		return h.toolError("get_programs", err), nil
	}

	return mcp.NewToolResultText(renderPrograms(programs)), nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programID, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}
	source := req.GetString("source", "user_programs")

	if err := h.ensureLogin(ctx); err != nil {
		return h.toolError("get_program", err), nil
	}

	program, err := h.ds.GetProgram(ctx, programID, source)
	if err != nil {
		return h.toolError("get_program", err), nil
	}

	return mcp.NewToolResultText(renderProgramDetail(program)), nil
}
