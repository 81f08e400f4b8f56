package metrics

import (
	"math"
	"sort"

	"github.com/meltforce/athletelog/internal/models"
)

const (
	// DefaultVolumeWindow is the number of date buckets in the volume series.
	DefaultVolumeWindow = 12
	// DefaultTopExercises is the number of exercises in the top-volume series.
	DefaultTopExercises = 8
)

// Series is a labelled sequence of values ready for charting.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Labels) }

// ExerciseVolume returns Σ weight × reps over the exercise's sets.
func ExerciseVolume(e models.Exercise) float64 {
	var v float64
	for _, s := range e.Sets {
		v += s.Volume()
	}
	return v
}

// WorkoutVolume returns Σ weight × reps over every set in the workout.
func WorkoutVolume(w models.Workout) float64 {
	var v float64
	for _, ex := range w.Exercises {
		v += ExerciseVolume(ex)
	}
	return v
}

// TotalVolume sums WorkoutVolume over workouts.
func TotalVolume(workouts []models.Workout) float64 {
	var v float64
	for _, w := range workouts {
		v += WorkoutVolume(w)
	}
	return v
}

// WeeklyVolumeSeries groups workout volume by date, sorts ascending and keeps
// the last window buckets. Values are rounded to whole kilograms. A window of
// zero or less selects DefaultVolumeWindow.
func WeeklyVolumeSeries(workouts []models.Workout, window int) Series {
	if window <= 0 {
		window = DefaultVolumeWindow
	}
	byDate := make(map[models.Date]float64)
	for _, w := range workouts {
		byDate[w.Date] += WorkoutVolume(w)
	}
	dates := make([]models.Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) > window {
		dates = dates[len(dates)-window:]
	}

	s := Series{Labels: make([]string, 0, len(dates)), Values: make([]float64, 0, len(dates))}
	for _, d := range dates {
		s.Labels = append(s.Labels, d.String())
		s.Values = append(s.Values, math.Round(byDate[d]))
	}
	return s
}

// TopExercisesByVolume sums volume per exercise name across all workouts and
// returns the topN largest, descending. Equal volumes are ordered by name.
// A topN of zero or less selects DefaultTopExercises.
func TopExercisesByVolume(workouts []models.Workout, topN int) Series {
	if topN <= 0 {
		topN = DefaultTopExercises
	}
	byName := make(map[string]float64)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			byName[ex.Name] += ExerciseVolume(ex)
		}
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := byName[names[i]], byName[names[j]]
		if vi != vj {
			return vi > vj
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}

	s := Series{Labels: names, Values: make([]float64, 0, len(names))}
	for _, n := range names {
		s.Values = append(s.Values, math.Round(byName[n]))
	}
	return s
}

func distinctDatesDesc(workouts []models.Workout) []models.Date {
	seen := make(map[models.Date]bool, len(workouts))
	var dates []models.Date
	for _, w := range workouts {
		if w.Date.IsZero() || seen[w.Date] {
			continue
		}
		seen[w.Date] = true
		dates = append(dates, w.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	return dates
}
