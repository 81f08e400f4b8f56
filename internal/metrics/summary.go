package metrics

import (
	"sort"
	"strings"

	"github.com/meltforce/athletelog/internal/models"
)

// Summary bundles the dashboard statistics for a workout history.
type Summary struct {
	Date            models.Date       `json:"date"`
	Streak          int               `json:"streak"`
	TotalWorkouts   int               `json:"total_workouts"`
	TotalSets       int               `json:"total_sets"`
	TotalVolumeKg   float64           `json:"total_volume_kg"`
	PersonalRecords map[string]Record `json:"personal_records"`
	VolumeSeries    Series            `json:"volume_series"`
	TopExercises    Series            `json:"top_exercises"`
}

// Summarize computes a Summary as of ref.
func Summarize(workouts []models.Workout, ref models.Date) Summary {
	sets := 0
	for _, w := range workouts {
		sets += w.SetCount()
	}
	return Summary{
		Date:            ref,
		Streak:          TrainingStreak(workouts, ref),
		TotalWorkouts:   len(workouts),
		TotalSets:       sets,
		TotalVolumeKg:   TotalVolume(workouts),
		PersonalRecords: PersonalRecords(workouts),
		VolumeSeries:    WeeklyVolumeSeries(workouts, DefaultVolumeWindow),
		TopExercises:    TopExercisesByVolume(workouts, DefaultTopExercises),
	}
}

// NamedRecord is a Record with its exercise name, for ordered listings.
type NamedRecord struct {
	Exercise string `json:"exercise"`
	Record
}

// SortedRecords flattens a record map ordered by exercise name.
func SortedRecords(prs map[string]Record) []NamedRecord {
	out := make([]NamedRecord, 0, len(prs))
	for name, r := range prs {
		out = append(out, NamedRecord{Exercise: name, Record: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exercise < out[j].Exercise })
	return out
}

// BiomarkerSeries returns the date-ascending values recorded for the named
// biomarker (case-insensitive).
func BiomarkerSeries(entries []models.BiomarkerEntry, name string) Series {
	var matched []models.BiomarkerEntry
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			matched = append(matched, e)
		}
	}
	models.SortBiomarkers(matched)

	s := Series{Labels: make([]string, 0, len(matched)), Values: make([]float64, 0, len(matched))}
	for _, e := range matched {
		s.Labels = append(s.Labels, e.Date.String())
		s.Values = append(s.Values, e.Value)
	}
	return s
}
