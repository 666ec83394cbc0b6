package strengthlog

import "fmt"

// AuthError reports a failed login, a missing credential, or a refresh that
// could not be performed. It is fatal to the current operation; callers must
// re-authenticate.
type AuthError struct {
	Message      string
	TokenExpired bool
}

func (e *AuthError) Error() string {
	return "strengthlog auth: " + e.Message
}

// APIError reports a Firestore request that came back with status >= 400
// after the single refresh-and-retry.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strengthlog api: %d %s", e.StatusCode, e.Body)
}
