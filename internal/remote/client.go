// Package remote talks to an athleted server over its REST API. The server
// resolves the user from the connection, so the userID arguments of the store
// contract are only used to detect a session mismatch.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/athletelog/internal/metrics"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/state"
)

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("remote: unauthorized")

// Client implements state.RemoteStore against the athleted REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userID     string
}

// Compile-time check: Client satisfies state.RemoteStore.
var _ state.RemoteStore = (*Client)(nil)

// NewClient creates a Client targeting the given base URL. A zero timeout
// defaults to 30s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Session opens a remote session by asking the server who we are.
func (c *Client) Session(ctx context.Context) (*state.Session, error) {
	var s state.Session
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &s); err != nil {
		return nil, err
	}
	if s.UserID == "" {
		return nil, fmt.Errorf("remote: /api/v1/me returned no user id")
	}
	c.userID = s.UserID
	return &s, nil
}

func (c *Client) checkUser(userID string) error {
	if c.userID != "" && userID != c.userID {
		return fmt.Errorf("remote: session is for user %s, not %s", c.userID, userID)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("remote: %s %s returned %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

// GetProfile returns nil when the server has no profile for the user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if err := c.checkUser(userID); err != nil {
		return nil, err
	}
	var p *models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *Client) UpsertProfile(ctx context.Context, userID string, p models.Profile) error {
	if err := c.checkUser(userID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/v1/profile", p, nil)
}

func (c *Client) ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	if err := c.checkUser(userID); err != nil {
		return nil, err
	}
	var ws []models.Workout
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (c *Client) UpsertWorkout(ctx context.Context, userID string, w models.Workout) error {
	if err := c.checkUser(userID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/v1/workouts/"+url.PathEscape(w.ID), w, nil)
}

func (c *Client) ListBiomarkers(ctx context.Context, userID string) ([]models.BiomarkerEntry, error) {
	if err := c.checkUser(userID); err != nil {
		return nil, err
	}
	var bs []models.BiomarkerEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/biomarkers", nil, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (c *Client) UpsertBiomarker(ctx context.Context, userID string, b models.BiomarkerEntry) error {
	if err := c.checkUser(userID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/v1/biomarkers/"+url.PathEscape(b.ID), b, nil)
}

func (c *Client) DeleteBiomarker(ctx context.Context, userID, id string) error {
	if err := c.checkUser(userID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/biomarkers/"+url.PathEscape(id), nil, nil)
}

// Summary fetches the server-side metrics summary for the session user.
func (c *Client) Summary(ctx context.Context) (*metrics.Summary, error) {
	var s metrics.Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
