package strengthlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	go_json "github.com/goccy/go-json"
)

const firestoreBase = "https://firestore.googleapis.com/v1/projects/styrkelabbet/databases/(default)/documents"

// collectionPageSize is the Firestore page size used when walking a
// collection; the continuation token drives subsequent pages.
const collectionPageSize = 100

// firestoreClient issues authenticated reads against the StrengthLog
// Firestore project. Every request carries the session's current bearer
// token; an expired token is refreshed before sending and once more after an
// unauthorized response.
type firestoreClient struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	log        *slog.Logger
}

func newFirestoreClient(session *Session, log *slog.Logger) *firestoreClient {
	return &firestoreClient{
		baseURL:    firestoreBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
		log:        log,
	}
}

// wireCollection is the response shape of a collection listing.
type wireCollection struct {
	Documents     []wireDocument `json:"documents,omitempty"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// ensureAuthenticated refreshes the bearer token proactively when it is
// within the expiry margin. A session that never logged in is an error — the
// caller forgot to authenticate.
func (c *firestoreClient) ensureAuthenticated(ctx context.Context) error {
	if !c.session.IsAuthenticated() {
		return &AuthError{Message: "not authenticated, call Login first"}
	}
	if c.session.IsExpired() {
		return c.session.Refresh(ctx)
	}
	return nil
}

// get performs one authenticated GET, refreshing-and-retrying once on 401.
// Returns the raw body; statuses >= 400 surface as *APIError.
func (c *firestoreClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if err := c.session.Refresh(ctx); err != nil {
			return nil, err
		}
		status, body, err = c.send(ctx, path, params)
		if err != nil {
			return nil, err
		}
	}

	if status >= 400 {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}
	return body, nil
}

func (c *firestoreClient) send(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	u := c.baseURL + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	header, err := c.session.AuthHeader()
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// FetchDocument retrieves a single document. fieldMask limits the returned
// fields when non-empty.
func (c *firestoreClient) FetchDocument(ctx context.Context, path string, fieldMask []string) (*wireDocument, error) {
	params := url.Values{}
	for _, f := range fieldMask {
		params.Add("mask.fieldPaths", f)
	}

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var doc wireDocument
	if err := go_json.Unmarshal(body, &doc); err != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Body: "malformed document response: " + err.Error()}
	}
	return &doc, nil
}

// FetchCollection walks a collection page by page and accumulates every
// document. An error response mid-pagination ends the walk with whatever was
// gathered so far — callers treat a short listing as acceptable degradation.
func (c *firestoreClient) FetchCollection(ctx context.Context, path string, fieldMask []string) ([]wireDocument, error) {
	return c.fetchCollectionPaged(ctx, path, fieldMask, collectionPageSize)
}

func (c *firestoreClient) fetchCollectionPaged(ctx context.Context, path string, fieldMask []string, pageSize int) ([]wireDocument, error) {
	var all []wireDocument
	pageToken := ""

	for {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		for _, f := range fieldMask {
			params.Add("mask.fieldPaths", f)
		}

		body, err := c.get(ctx, path, params)
		if err != nil {
			// An error response ends the walk with a partial result.
			// Credential and transport failures must stay visible.
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				return nil, err
			}
			c.log.Warn("collection walk ended early", "path", path, "collected", len(all), "status", apiErr.StatusCode)
			return all, nil
		}

		var page wireCollection
		if err := go_json.Unmarshal(body, &page); err != nil {
			c.log.Warn("collection page malformed", "path", path, "error", err)
			return all, nil
		}

		all = append(all, page.Documents...)
		pageToken = page.NextPageToken
		if pageToken == "" {
			return all, nil
		}
	}
}
