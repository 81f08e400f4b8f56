package models

import (
	"encoding/json"
	"fmt"
)

// Set is one logged set of an exercise.
type Set struct {
	WeightKg float64 `json:"weight"`
	Reps     int     `json:"reps"`
	RPE      RPE     `json:"rpe"`
}

// DefaultSet is the set seeded into a newly added exercise.
var DefaultSet = Set{WeightKg: 0, Reps: 5, RPE: DefaultRPE}

// Volume returns weight × reps for the set.
func (s Set) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}

// UnmarshalJSON coerces malformed numeric fields to 0 instead of failing.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw struct {
		Weight json.RawMessage `json:"weight"`
		Reps   json.RawMessage `json:"reps"`
		RPE    json.RawMessage `json:"rpe"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding set: %w", err)
	}
	s.WeightKg = nonNegative(flexFloat(raw.Weight))
	s.Reps = max(flexInt(raw.Reps), 0)
	s.RPE = RPE(flexFloat(raw.RPE))
	if !s.RPE.Valid() {
		s.RPE = 0
	}
	return nil
}

// Exercise is an exercise performed within a workout. Sets are kept in the
// order they were logged.
type Exercise struct {
	Name    string `json:"name"`
	Quality string `json:"quality"`
	Sets    []Set  `json:"sets"`
}

// MaxWeightSet returns the index of the heaviest set, the first one on ties,
// or -1 if the exercise has no sets.
func (e Exercise) MaxWeightSet() int {
	best := -1
	for i, s := range e.Sets {
		if best < 0 || s.WeightKg > e.Sets[best].WeightKg {
			best = i
		}
	}
	return best
}

// Workout is one training session.
type Workout struct {
	ID        string     `json:"id"`
	Date      Date       `json:"date"`
	Sport     string     `json:"sport"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes"`
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	out := w
	out.Exercises = make([]Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.Sets = append([]Set(nil), ex.Sets...)
		out.Exercises[i] = ex
	}
	return out
}

// SetCount returns the total number of sets in the workout.
func (w Workout) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// CloneWorkouts deep-copies a workout list.
func CloneWorkouts(ws []Workout) []Workout {
	if ws == nil {
		return nil
	}
	out := make([]Workout, len(ws))
	for i, w := range ws {
		out[i] = w.Clone()
	}
	return out
}
