package strengthlog

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient builds a Client whose Firestore traffic goes to the given
// handler and whose session is already authenticated with a long-lived token.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	c := NewClient(log)
	c.fs.baseURL = srv.URL
	c.session.idToken = "test-token"
	c.session.refreshToken = "test-refresh"
	c.session.userID = "U1"
	c.session.tokenExpiry = time.Now().Add(time.Hour)
	return c
}

// testWriter routes slog output through t.Logf so it shows up only on
// failure.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}

// routeHandler serves canned JSON bodies by URL path.
type routeHandler map[string]string

func (h routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, ok := h[r.URL.Path]
	if !ok {
		http.Error(w, `{"error":{"message":"NOT_FOUND"}}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestClientUnauthenticated(t *testing.T) {
	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	c := NewClient(log)

	_, err := c.GetWorkouts(context.Background(), nil, 10)
	if err == nil {
		t.Fatal("expected error from unauthenticated client")
	}
	if _, ok := err.(*AuthError); !ok {
		t.Errorf("error = %T, want *AuthError", err)
	}
}

func TestSince(t *testing.T) {
	cutoff := Since(7)
	if cutoff.Hour() != 0 || cutoff.Minute() != 0 || cutoff.Second() != 0 {
		t.Errorf("Since(7) = %v, want a midnight cutoff", cutoff)
	}
	age := time.Since(cutoff)
	if age < 7*24*time.Hour || age > 8*24*time.Hour {
		t.Errorf("Since(7) is %v old, want between 7 and 8 days", age)
	}
}
