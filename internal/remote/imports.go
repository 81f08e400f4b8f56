package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/meltforce/athletelog/internal/ingest"
)

const uploadAttempts = 3

// uploadBackoff is the wait before the second attempt; it doubles after that.
var uploadBackoff = time.Second

// UploadAlpha sends an Alpha Progression CSV export to the server, which
// parses and stores it for the session's user. Transport failures and 5xx
// responses are retried with exponential backoff.
func (c *Client) UploadAlpha(ctx context.Context, csv []byte, sport string) (*ingest.Result, error) {
	path := "/api/v1/imports/alpha"
	if sport != "" {
		path += "?sport=" + url.QueryEscape(sport)
	}

	var lastErr error
	for attempt := range uploadAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uploadBackoff << (attempt - 1)):
			}
		}

		res, retry, err := c.uploadOnce(ctx, path, csv)
		if err == nil {
			return res, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("remote: upload failed after %d attempts: %w", uploadAttempts, lastErr)
}

func (c *Client) uploadOnce(ctx context.Context, path string, csv []byte) (res *ingest.Result, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(csv))
	if err != nil {
		return nil, false, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("remote: POST %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, false, ErrUnauthorized
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("remote: import failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("remote: import rejected (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var r ingest.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, false, fmt.Errorf("remote: decode import result: %w", err)
	}
	return &r, false, nil
}
