package mcp

import (
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/state"
)

// DataSource is what the tools read from. The persistence coordinator
// satisfies it, so tools see the same in-memory history as the CLI.
type DataSource interface {
	Snapshot() state.Snapshot
}

// Compile-time check: *state.Coordinator satisfies DataSource.
var _ DataSource = (*state.Coordinator)(nil)

// StaticSource serves a fixed snapshot.
type StaticSource state.Snapshot

func (s StaticSource) Snapshot() state.Snapshot { return state.Snapshot(s) }

// filterWorkouts keeps workouts dated within [from, to] (zero bounds are
// open) that contain an exercise matching the case-insensitive substring.
func filterWorkouts(ws []models.Workout, from, to models.Date, exercise string) []models.Workout {
	out := []models.Workout{}
	for _, w := range ws {
		if !from.IsZero() && w.Date.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(w.Date) {
			continue
		}
		if exercise != "" && !hasExercise(w, exercise) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func hasExercise(w models.Workout, sub string) bool {
	for _, ex := range w.Exercises {
		if containsFold(ex.Name, sub) {
			return true
		}
	}
	return false
}
