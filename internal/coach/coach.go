package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/athletelog/internal/models"
)

const (
	contextWorkouts   = 3
	contextBiomarkers = 10
	analysisEntries   = 20

	fallbackReply    = "No response generated."
	fallbackPlan     = "Could not generate plan."
	fallbackAnalysis = "Could not analyze biomarkers."
)

// Context is the athlete data a coaching request is grounded in.
type Context struct {
	Profile    models.Profile
	Workouts   []models.Workout
	Biomarkers []models.BiomarkerEntry
}

func orNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SystemPrompt renders the profile, the last three workouts and the last ten
// biomarker entries as the system instruction.
func (c Context) SystemPrompt() string {
	p := c.Profile
	var b strings.Builder
	b.WriteString("You are an experienced strength and conditioning coach. ")
	b.WriteString("Give specific, evidence-based, actionable advice tailored to the athlete below.\n\n")

	b.WriteString("ATHLETE PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(p.Name, "Athlete"))
	fmt.Fprintf(&b, "- Sport: %s\n", p.SportOrDefault())
	fmt.Fprintf(&b, "- Goal: %s\n", orDefault(p.Goal, "Athletic Performance"))
	fmt.Fprintf(&b, "- Experience: %s\n", orDefault(p.Experience, "Intermediate"))
	age := "N/A"
	if p.Age > 0 {
		age = fmt.Sprint(p.Age)
	}
	fmt.Fprintf(&b, "- Age: %s, Weight: %skg, Height: %scm\n\n", age, orNA(p.WeightKg), orNA(p.HeightCm))

	b.WriteString("RECENT TRAINING:\n")
	ws := c.Workouts
	if len(ws) > contextWorkouts {
		ws = ws[len(ws)-contextWorkouts:]
	}
	if len(ws) == 0 {
		b.WriteString("No recent workouts logged yet.\n")
	}
	for _, w := range ws {
		names := make([]string, 0, len(w.Exercises))
		for _, ex := range w.Exercises {
			names = append(names, fmt.Sprintf("%s (%d sets)", ex.Name, len(ex.Sets)))
		}
		fmt.Fprintf(&b, "%s: %s", w.Date, strings.Join(names, ", "))
		if w.Notes != "" {
			fmt.Fprintf(&b, ". Notes: %s", w.Notes)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nRECENT BIOMARKERS:\n")
	bs := c.Biomarkers
	if len(bs) > contextBiomarkers {
		bs = bs[len(bs)-contextBiomarkers:]
	}
	if len(bs) == 0 {
		b.WriteString("No biomarkers logged yet.\n")
	}
	for _, e := range bs {
		fmt.Fprintf(&b, "%s | %s: %g %s\n", e.Date, e.Name, e.Value, e.Unit)
	}
	return b.String()
}

// wireRole maps a chat role to the API's role names.
func wireRole(r models.ChatRole) string {
	if r == models.RoleAssistant {
		return "model"
	}
	return "user"
}

// Chat sends the conversation history followed by msg and returns the reply.
func (c *Client) Chat(ctx context.Context, cc Context, history []models.ChatMessage, msg string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: wireRole(m.Role), Parts: []part{{Text: m.Content}}})
	}
	contents = append(contents, userTurn(msg))

	text, err := c.generate(ctx, "chat", generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: cc.SystemPrompt()}}},
		Contents:          contents,
		GenerationConfig:  generationConfig{Temperature: 0.7, MaxOutputTokens: 2048, TopP: 0.9},
	})
	if err != nil {
		return "", err
	}
	return orDefault(text, fallbackReply), nil
}

// GeneratePlan asks for a four-week program for the profile.
func (c *Client) GeneratePlan(ctx context.Context, p models.Profile) (string, error) {
	prompt := fmt.Sprintf(`Create a detailed 4-week training program.
Sport: %s
Goal: %s
Experience: %s
Age: %s, Weight: %skg

Include the periodization rationale, a weekly structure with exercises as sets × reps @ RPE, key performance indicators to track and recovery protocols.`,
		p.SportOrDefault(), orDefault(p.Goal, "unknown"), orDefault(p.Experience, "unknown"),
		orDefault(ageString(p.Age), "unknown"), orNA(p.WeightKg))

	text, err := c.generate(ctx, "plan", generateRequest{
		Contents:         []content{userTurn(prompt)},
		GenerationConfig: generationConfig{Temperature: 0.7, MaxOutputTokens: 3000},
	})
	if err != nil {
		return "", err
	}
	return orDefault(text, fallbackPlan), nil
}

func ageString(age int) string {
	if age <= 0 {
		return ""
	}
	return fmt.Sprint(age)
}

// Suggestion is a proposed next set.
type Suggestion struct {
	WeightKg float64 `json:"weight"`
	Reps     float64 `json:"reps"`
	RPE      float64 `json:"rpe"`
	Note     string  `json:"note"`
}

// Set converts the suggestion into a loggable set.
func (s Suggestion) Set() models.Set {
	reps := int(s.Reps + 0.5)
	if reps < 0 {
		reps = 0
	}
	return models.Set{WeightKg: max(s.WeightKg, 0), Reps: reps, RPE: models.SnapRPE(s.RPE)}
}

// SuggestNextSet proposes the next set for an exercise from the sets logged
// so far. Any failure, including a missing key or an unparseable reply,
// yields nil.
func (c *Client) SuggestNextSet(ctx context.Context, exercise string, sets []models.Set, p models.Profile) *Suggestion {
	descs := make([]string, 0, len(sets))
	for i, s := range sets {
		descs = append(descs, fmt.Sprintf("Set %d: %gkg × %d reps @ RPE %g", i+1, s.WeightKg, s.Reps, float64(s.RPE)))
	}
	prompt := fmt.Sprintf(`Previous sets for %s: %s
Athlete: %s level, goal: %s, sport: %s
Suggest the next set as a single JSON object and nothing else:
{"weight": number, "reps": number, "rpe": number, "note": "brief coaching tip"}`,
		exercise, strings.Join(descs, ", "), p.Experience, p.Goal, p.SportOrDefault())

	text, err := c.generate(ctx, "suggest", generateRequest{
		Contents:         []content{userTurn(prompt)},
		GenerationConfig: generationConfig{Temperature: 0.3, MaxOutputTokens: 200},
	})
	if err != nil {
		c.log.Debug("set suggestion unavailable", "error", err)
		return nil
	}
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return nil
	}
	var s Suggestion
	if err := json.Unmarshal([]byte(obj), &s); err != nil {
		c.log.Debug("set suggestion unparseable", "error", err)
		return nil
	}
	return &s
}

// ExtractJSONObject returns the text from the first '{' to the last '}'.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// AnalyzeBiomarkers asks for an interpretation of the last twenty entries.
func (c *Client) AnalyzeBiomarkers(ctx context.Context, entries []models.BiomarkerEntry, p models.Profile) (string, error) {
	if len(entries) > analysisEntries {
		entries = entries[len(entries)-analysisEntries:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s = %g %s", e.Date, e.Name, e.Value, e.Unit))
	}
	prompt := fmt.Sprintf(`Analyze these biomarker trends for a %s %s athlete aiming to %s:

%s

Cover key findings, performance implications, actionable recommendations and warning signs.`,
		p.Experience, p.SportOrDefault(), p.Goal, strings.Join(lines, "\n"))

	text, err := c.generate(ctx, "analyze", generateRequest{
		Contents:         []content{userTurn(prompt)},
		GenerationConfig: generationConfig{Temperature: 0.5, MaxOutputTokens: 1500},
	})
	if err != nil {
		return "", err
	}
	return orDefault(text, fallbackAnalysis), nil
}

// DailyTip returns a short tip for today, or "" on any failure.
func (c *Client) DailyTip(ctx context.Context, p models.Profile, now time.Time) string {
	prompt := fmt.Sprintf("Give one specific, actionable performance tip for a %s %s focused on %s. Today is %s. Keep it under 60 words and start directly with the tip.",
		orDefault(p.Experience, "intermediate"), orDefault(p.Sport, "athlete"),
		orDefault(p.Goal, "athletic performance"), now.Weekday())

	text, err := c.generate(ctx, "tip", generateRequest{
		Contents:         []content{userTurn(prompt)},
		GenerationConfig: generationConfig{Temperature: 0.8, MaxOutputTokens: 120},
	})
	if err != nil {
		c.log.Debug("daily tip unavailable", "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}
