package coach

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/athletelog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGemini serves generateContent and records the last decoded request.
func fakeGemini(t *testing.T, status int, reply string, last *generateRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if last != nil {
			if err := json.NewDecoder(r.Body).Decode(last); err != nil {
				t.Errorf("decoding request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
}

func textReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	})
	return string(b)
}

func TestChatSendsHistoryAndSystemContext(t *testing.T) {
	var got generateRequest
	ts := fakeGemini(t, http.StatusOK, textReply("Deload next week."), &got)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "How is my squat?"},
		{Role: models.RoleAssistant, Content: "Trending up."},
	}
	cc := Context{Profile: models.Profile{Name: "Ana", Sport: "Rugby"}}

	reply, err := c.Chat(context.Background(), cc, history, "Should I deload?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Deload next week." {
		t.Errorf("reply = %q", reply)
	}

	if len(got.Contents) != 3 {
		t.Fatalf("contents = %d, want 3", len(got.Contents))
	}
	if got.Contents[1].Role != "model" {
		t.Errorf("assistant role on the wire = %q, want model", got.Contents[1].Role)
	}
	if last := got.Contents[2]; last.Role != "user" || last.Parts[0].Text != "Should I deload?" {
		t.Errorf("last turn = %+v", last)
	}
	if got.SystemInstruction == nil || !strings.Contains(got.SystemInstruction.Parts[0].Text, "Rugby") {
		t.Errorf("system instruction missing profile: %+v", got.SystemInstruction)
	}
}

func TestChatFallbackWhenNoText(t *testing.T) {
	ts := fakeGemini(t, http.StatusOK, `{"candidates":[]}`, nil)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	reply, err := c.Chat(context.Background(), Context{}, nil, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply != fallbackReply {
		t.Errorf("reply = %q, want fallback", reply)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	ts := fakeGemini(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`, nil)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	_, err := c.GeneratePlan(context.Background(), models.Profile{})
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("err = %v, want API message", err)
	}
}

func TestNoAPIKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:0", "", time.Second, testLogger())

	_, err := c.Chat(context.Background(), Context{}, nil, "hi")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err = %v, want ErrNoAPIKey", err)
	}
	if msg := UserMessage(err); !strings.Contains(msg, "API key") {
		t.Errorf("UserMessage = %q", msg)
	}
	if c.SuggestNextSet(context.Background(), "Squat", nil, models.Profile{}) != nil {
		t.Error("suggestion without key should be nil")
	}
	if tip := c.DailyTip(context.Background(), models.Profile{}, time.Now()); tip != "" {
		t.Errorf("tip without key = %q", tip)
	}
}

func TestSuggestNextSet(t *testing.T) {
	ts := fakeGemini(t, http.StatusOK,
		textReply("Sure! ```json\n{\"weight\": 102.5, \"reps\": 5, \"rpe\": 8.5, \"note\": \"add a plate\"}\n```"), nil)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	s := c.SuggestNextSet(context.Background(), "Bench Press", []models.Set{{WeightKg: 100, Reps: 5, RPE: 8}}, models.Profile{})
	if s == nil {
		t.Fatal("expected suggestion")
	}
	want := models.Set{WeightKg: 102.5, Reps: 5, RPE: 8.5}
	if s.Set() != want || s.Note != "add a plate" {
		t.Errorf("suggestion = %+v", s)
	}
}

func TestSuggestNextSetMalformed(t *testing.T) {
	ts := fakeGemini(t, http.StatusOK, textReply("go heavier {weight: lots}"), nil)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	if s := c.SuggestNextSet(context.Background(), "Bench Press", nil, models.Profile{}); s != nil {
		t.Errorf("suggestion = %+v, want nil", s)
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"prefix {\"a\":{\"b\":2}} suffix", `{"a":{"b":2}}`, true},
		{"no json here", "", false},
		{"} backwards {", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractJSONObject(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ExtractJSONObject(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestSystemPromptLimits(t *testing.T) {
	var cc Context
	for i := range 5 {
		cc.Workouts = append(cc.Workouts, models.Workout{
			Date:      models.Date{Year: 2026, Month: 1, Day: i + 1},
			Exercises: []models.Exercise{{Name: "Ex" + string(rune('A'+i))}},
		})
	}
	for i := range 12 {
		cc.Biomarkers = append(cc.Biomarkers, models.BiomarkerEntry{
			Date: models.Date{Year: 2026, Month: 2, Day: i + 1}, Name: "Body Weight", Value: float64(80 + i), Unit: "kg",
		})
	}
	p := cc.SystemPrompt()
	if strings.Contains(p, "ExB") || !strings.Contains(p, "ExC") || !strings.Contains(p, "ExE") {
		t.Errorf("prompt should include only the last three workouts:\n%s", p)
	}
	if strings.Contains(p, "2026-02-02") || !strings.Contains(p, "2026-02-03") {
		t.Errorf("prompt should include only the last ten biomarkers:\n%s", p)
	}
}

func TestDailyTipTrimmed(t *testing.T) {
	ts := fakeGemini(t, http.StatusOK, textReply("  Sleep 8 hours.\n"), nil)
	defer ts.Close()

	c := NewClient("test-key", ts.URL, "", time.Second, testLogger())
	if tip := c.DailyTip(context.Background(), models.Profile{}, time.Now()); tip != "Sleep 8 hours." {
		t.Errorf("tip = %q", tip)
	}
}
