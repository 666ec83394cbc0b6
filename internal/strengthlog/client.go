// Package strengthlog is a read-only client for the StrengthLog backend:
// Firebase password auth plus the Firestore REST surface the official app
// talks to. It assembles raw documents into Workout, Exercise, and Program
// aggregates with exercise names denormalized in.
//
// A Client holds one logical session. The credential and the exercise-name
// cache are unsynchronized, so callers must not overlap operations on a
// single instance.
package strengthlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/strengthlog-mcp/internal/models"
)

// Client exposes the four read operations against a single authenticated
// StrengthLog session.
type Client struct {
	session *Session
	fs      *firestoreClient
	names   *exerciseNames
	log     *slog.Logger
}

// NewClient creates an unauthenticated client.
func NewClient(log *slog.Logger) *Client {
	session := NewSession()
	fs := newFirestoreClient(session, log)
	return &Client{
		session: session,
		fs:      fs,
		names:   newExerciseNames(fs, log),
		log:     log,
	}
}

// Login authenticates the client's session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.session.Login(ctx, email, password)
}

// IsAuthenticated reports whether the session holds a credential.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// UserID returns the authenticated user's id, or "".
func (c *Client) UserID() string {
	return c.session.UserID()
}

// AuthState exports the session credential for persistence.
func (c *Client) AuthState() State {
	return c.session.Export()
}

// RestoreAuthState loads a persisted credential into the session.
func (c *Client) RestoreAuthState(st State) {
	c.session.Restore(st)
}

// GetExercises fetches the user's exercise library, including custom
// exercises, and seeds the name cache.
func (c *Client) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	return c.names.loadLibrary(ctx, c.session.UserID())
}

// Since returns the UTC midnight cutoff N days back, for day-window filters.
func Since(days int) time.Time {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -days)
}
