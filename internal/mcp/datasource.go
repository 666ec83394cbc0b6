package mcp

import (
	"context"
	"time"

	"github.com/claude/strengthlog-mcp/internal/models"
	"github.com/claude/strengthlog-mcp/internal/state"
	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

// DataSource abstracts the StrengthLog client for MCP tool handlers.
type DataSource interface {
	IsAuthenticated() bool
	Login(ctx context.Context, email, password string) error
	AuthState() strengthlog.State
	GetWorkouts(ctx context.Context, since *time.Time, limit int) ([]models.Workout, error)
	GetExercises(ctx context.Context) ([]models.Exercise, error)
	GetPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, programID, source string) (*models.Program, error)
}

// Compile-time check: *strengthlog.Client satisfies DataSource.
var _ DataSource = (*strengthlog.Client)(nil)

// SessionStore persists the auth credential across restarts. Nil is allowed;
// the credential then lives only as long as the process.
type SessionStore interface {
	Save(st strengthlog.State) error
}

// Compile-time check: *state.Store satisfies SessionStore.
var _ SessionStore = (*state.Store)(nil)
