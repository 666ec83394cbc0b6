package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/strengthlog-mcp/internal/models"
	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

// fakeSource is a DataSource that records calls and returns canned data.
type fakeSource struct {
	authed   bool
	loginErr error
	logins   int

	workouts  []models.Workout
	exercises []models.Exercise
	programs  []models.Program
	program   *models.Program
	err       error

	gotSince  *time.Time
	gotLimit  int
	gotID     string
	gotSource string
}

func (f *fakeSource) IsAuthenticated() bool { return f.authed }

func (f *fakeSource) Login(ctx context.Context, email, password string) error {
	f.logins++
	if f.loginErr != nil {
		return f.loginErr
	}
	f.authed = true
	return nil
}

func (f *fakeSource) AuthState() strengthlog.State {
	return strengthlog.State{IDToken: "fake-token", UserID: "U1"}
}

func (f *fakeSource) GetWorkouts(ctx context.Context, since *time.Time, limit int) ([]models.Workout, error) {
	f.gotSince, f.gotLimit = since, limit
	return f.workouts, f.err
}

func (f *fakeSource) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	return f.exercises, f.err
}

func (f *fakeSource) GetPrograms(ctx context.Context) ([]models.Program, error) {
	return f.programs, f.err
}

func (f *fakeSource) GetProgram(ctx context.Context, programID, source string) (*models.Program, error) {
	f.gotID, f.gotSource = programID, source
	if f.err != nil {
		return nil, f.err
	}
	return f.program, nil
}

// fakeStore records persisted auth states.
type fakeStore struct {
	saved []strengthlog.State
}

func (f *fakeStore) Save(st strengthlog.State) error {
	f.saved = append(f.saved, st)
	return nil
}

func testHandlers(ds *fakeSource, store SessionStore) *handlers {
	return &handlers{
		ds:    ds,
		creds: Credentials{Email: "user@example.com", Password: "hunter2"},
		store: store,
		log:   slog.New(slog.DiscardHandler),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestEnsureLoginSkipsWhenAuthenticated verifies no login attempt is made on
// an already-authenticated session.
func TestEnsureLoginSkipsWhenAuthenticated(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	if err := h.ensureLogin(context.Background()); err != nil {
		t.Fatalf("ensureLogin: %v", err)
	}
	if ds.logins != 0 {
		t.Errorf("logins = %d, want 0", ds.logins)
	}
}

// TestEnsureLoginPersists verifies a successful auto-login pushes the new
// credential into the session store.
func TestEnsureLoginPersists(t *testing.T) {
	ds := &fakeSource{}
	store := &fakeStore{}
	h := testHandlers(ds, store)

	if err := h.ensureLogin(context.Background()); err != nil {
		t.Fatalf("ensureLogin: %v", err)
	}
	if ds.logins != 1 {
		t.Errorf("logins = %d, want 1", ds.logins)
	}
	if len(store.saved) != 1 || store.saved[0].IDToken != "fake-token" {
		t.Errorf("saved states = %+v, want one with fake-token", store.saved)
	}
}

// TestEnsureLoginNoCredentials verifies the error when no credentials are
// configured and the session is cold.
func TestEnsureLoginNoCredentials(t *testing.T) {
	ds := &fakeSource{}
	h := testHandlers(ds, nil)
	h.creds = Credentials{}

	err := h.ensureLogin(context.Background())
	var authErr *strengthlog.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("ensureLogin error = %v, want AuthError", err)
	}
	if ds.logins != 0 {
		t.Errorf("logins = %d, want 0", ds.logins)
	}
}

// TestGetWorkoutsDefaults verifies the handler passes no cutoff and the
// default limit when both arguments are omitted.
func TestGetWorkoutsDefaults(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	res, err := h.getWorkouts(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getWorkouts: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.gotSince != nil {
		t.Errorf("since = %v, want nil", ds.gotSince)
	}
	if ds.gotLimit != defaultWorkoutLimit {
		t.Errorf("limit = %d, want %d", ds.gotLimit, defaultWorkoutLimit)
	}
	if got := resultText(t, res); got != "No workouts found." {
		t.Errorf("text = %q", got)
	}
}

// TestGetWorkoutsSinceDays verifies since_days=0 still produces a cutoff
// (today's UTC midnight) rather than being treated as absent.
func TestGetWorkoutsSinceDays(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	res, err := h.getWorkouts(context.Background(), callRequest(map[string]any{"since_days": float64(0), "limit": float64(10)}))
	if err != nil {
		t.Fatalf("getWorkouts: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.gotSince == nil {
		t.Fatal("since = nil, want today's midnight")
	}
	if h, m := ds.gotSince.Hour(), ds.gotSince.Minute(); h != 0 || m != 0 {
		t.Errorf("since = %v, want midnight", ds.gotSince)
	}
	if ds.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", ds.gotLimit)
	}
}

func TestGetWorkoutsNegativeSinceDays(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	res, err := h.getWorkouts(context.Background(), callRequest(map[string]any{"since_days": float64(-1)}))
	if err != nil {
		t.Fatalf("getWorkouts: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for negative since_days")
	}
}

// TestGetWorkoutsAuthFailure verifies a rejected auto-login surfaces as a
// tool error mentioning authentication, not a handler error.
func TestGetWorkoutsAuthFailure(t *testing.T) {
	ds := &fakeSource{loginErr: &strengthlog.AuthError{Message: "INVALID_PASSWORD"}}
	h := testHandlers(ds, nil)

	res, err := h.getWorkouts(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getWorkouts: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if got := resultText(t, res); !strings.Contains(got, "authentication failed") {
		t.Errorf("text = %q, want authentication failure", got)
	}
}

func TestGetProgramRequiresID(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	res, err := h.getProgram(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getProgram: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing program_id")
	}
	if ds.gotID != "" {
		t.Errorf("GetProgram was called with id %q", ds.gotID)
	}
}

// TestGetProgramDefaultSource verifies the source argument defaults to
// user_programs.
func TestGetProgramDefaultSource(t *testing.T) {
	ds := &fakeSource{authed: true, program: &models.Program{ID: "p1", Name: "Plan"}}
	h := testHandlers(ds, nil)

	res, err := h.getProgram(context.Background(), callRequest(map[string]any{"program_id": "p1"}))
	if err != nil {
		t.Fatalf("getProgram: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.gotID != "p1" || ds.gotSource != models.SourceUserPrograms {
		t.Errorf("GetProgram(%q, %q), want (p1, user_programs)", ds.gotID, ds.gotSource)
	}
	if got := resultText(t, res); !strings.Contains(got, "# Plan") {
		t.Errorf("text = %q, want program heading", got)
	}
}

// TestGetExercisesRendered exercises the full handler path down to markdown.
func TestGetExercisesRendered(t *testing.T) {
	ds := &fakeSource{
		authed:    true,
		exercises: []models.Exercise{{ID: "ex-1", Name: "Deadlift"}},
	}
	h := testHandlers(ds, nil)

	res, err := h.getExercises(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getExercises: %v", err)
	}
	if got := resultText(t, res); !strings.Contains(got, "- **Deadlift** (id: ex-1)") {
		t.Errorf("text = %q", got)
	}
}

// TestRecentWorkoutsResource verifies the resource applies the 30-day window
// and returns markdown contents.
func TestRecentWorkoutsResource(t *testing.T) {
	ds := &fakeSource{authed: true}
	h := testHandlers(ds, nil)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "strengthlog://recent_workouts"

	contents, err := h.recentWorkouts(context.Background(), req)
	if err != nil {
		t.Fatalf("recentWorkouts: %v", err)
	}
	if ds.gotSince == nil {
		t.Fatal("since = nil, want 30-day cutoff")
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T", contents[0])
	}
	if tc.MIMEType != "text/markdown" || tc.URI != "strengthlog://recent_workouts" {
		t.Errorf("contents = %+v", tc)
	}
}
