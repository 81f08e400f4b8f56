package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/athletelog/internal/metrics"
	"github.com/meltforce/athletelog/internal/models"
)

// maxFormulaReps is the largest rep count for which the Brzycki denominator
// stays positive.
const maxFormulaReps = 36

// optionalDate parses a YYYY-MM-DD argument; empty yields the zero date.
func optionalDate(req mcp.CallToolRequest, key string) (models.Date, error) {
	s := req.GetString(key, "")
	if s == "" {
		return models.Date{}, nil
	}
	return models.ParseDate(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("The athlete's profile: name, sport, goal, experience level, age, body weight (kg) and height (cm)."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Logged workouts with exercises and sets (weight kg, reps, RPE), newest first."),
	mcp.WithString("start", mcp.Description("First date to include (YYYY-MM-DD). Defaults to all history.")),
	mcp.WithString("end", mcp.Description("Last date to include (YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("exercise", mcp.Description("Only workouts containing an exercise matching this name (partial, case-insensitive)")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Heaviest set ever logged per exercise, with its reps and date."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match)")),
)

var toolGetTrainingStreak = mcp.NewTool("get_training_streak",
	mcp.WithDescription("Number of consecutive training days ending at the reference date (a one-day gap breaks the streak)."),
	mcp.WithString("date", mcp.Description("Reference date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetVolumeSeries = mcp.NewTool("get_volume_series",
	mcp.WithDescription("Training volume (sum of weight × reps) for each of the most recent distinct training days, oldest first."),
	mcp.WithNumber("days", mcp.Description("Number of training days. Defaults to 12.")),
)

var toolGetTopExercises = mcp.NewTool("get_top_exercises",
	mcp.WithDescription("Exercises ranked by total lifetime volume."),
	mcp.WithNumber("limit", mcp.Description("Number of exercises. Defaults to 8.")),
)

var toolGetBiomarkers = mcp.NewTool("get_biomarkers",
	mcp.WithDescription("Biomarker entries in date order. With a name, also returns that marker's value series."),
	mcp.WithString("name", mcp.Description("Biomarker name (case-insensitive), e.g. 'Resting Heart Rate'")),
	mcp.WithString("category", mcp.Description("Only entries in this category, e.g. 'Body Composition'")),
)

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimated one-rep max by the Brzycki formula: weight / (1.0278 − 0.0278 × reps)."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
)

// --- Tool handlers ---

func (h *handlers) getProfile(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := h.ds.Snapshot().Profile
	p.Sport = p.SportOrDefault()
	return jsonResult(p)
}

func (h *handlers) getWorkouts(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := optionalDate(req, "start")
	if err != nil {
		return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
	}
	to, err := optionalDate(req, "end")
	if err != nil {
		return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
	}
	ws := filterWorkouts(h.ds.Snapshot().Workouts, from, to, req.GetString("exercise", ""))
	return jsonResult(ws)
}

func (h *handlers) getPersonalRecords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := metrics.SortedRecords(metrics.PersonalRecords(h.ds.Snapshot().Workouts))
	if filter := req.GetString("exercise", ""); filter != "" {
		kept := records[:0]
		for _, r := range records {
			if containsFold(r.Exercise, filter) {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	return jsonResult(records)
}

func (h *handlers) getTrainingStreak(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := optionalDate(req, "date")
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}
	if ref.IsZero() {
		ref = h.today()
	}
	streak := metrics.TrainingStreak(h.ds.Snapshot().Workouts, ref)
	return jsonResult(map[string]any{"date": ref, "streak_days": streak})
}

func (h *handlers) getVolumeSeries(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", metrics.DefaultVolumeWindow)
	return jsonResult(metrics.WeeklyVolumeSeries(h.ds.Snapshot().Workouts, days))
}

func (h *handlers) getTopExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", metrics.DefaultTopExercises)
	return jsonResult(metrics.TopExercisesByVolume(h.ds.Snapshot().Workouts, limit))
}

func (h *handlers) getBiomarkers(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	category := req.GetString("category", "")

	entries := []models.BiomarkerEntry{}
	for _, e := range h.ds.Snapshot().Biomarkers {
		if name != "" && !strings.EqualFold(e.Name, name) {
			continue
		}
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		entries = append(entries, e)
	}
	models.SortBiomarkers(entries)

	out := map[string]any{"entries": entries}
	if name != "" {
		out["series"] = metrics.BiomarkerSeries(entries, name)
	}
	return jsonResult(out)
}

func (h *handlers) estimateOneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireFloat("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	if weight < 0 || reps < 0 || reps > maxFormulaReps {
		return mcp.NewToolResultError("weight must not be negative and reps must be between 0 and 36"), nil
	}
	e1rm := metrics.EstimatedOneRepMax(weight, int(reps))
	return jsonResult(map[string]any{"weight": weight, "reps": int(reps), "e1rm": e1rm})
}
