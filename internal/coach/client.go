// Package coach talks to the Gemini generateContent API to produce coaching
// replies, training plans, set suggestions, biomarker analyses and daily tips.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/athletelog/internal/observability"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("coach: no API key configured")

// UserMessage converts an error from this package into the text shown to the
// athlete.
func UserMessage(err error) string {
	if errors.Is(err, ErrNoAPIKey) {
		return "Please set your Gemini API key in Settings (coach.api_key) to use the AI Coach."
	}
	return "Error: " + err.Error()
}

// Client is a Gemini API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client. Empty baseURL and model select the defaults.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool { return c.apiKey != "" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// text returns candidates[0].content.parts[0].text, or "" if any level is missing.
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

func userTurn(text string) content {
	return content{Role: "user", Parts: []part{{Text: text}}}
}

// generate performs one generateContent call and returns the reply text,
// which is empty when the response carries none.
func (c *Client) generate(ctx context.Context, op string, body generateRequest) (text string, err error) {
	defer func() { observability.RecordCoachRequest(op, err) }()

	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("coach: encode request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("coach: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("coach: %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("coach: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("coach: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("coach: %s returned %d", op, resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("coach: decode response: %w", err)
	}

	c.log.Debug("coach request", "op", op, "duration", time.Since(start))
	return gr.text(), nil
}
