package alpha

import (
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/athletelog/internal/models"
)

// idSpace namespaces the deterministic ids of imported workouts.
var idSpace = uuid.MustParse("6f3c1a52-8a55-4c0e-9b7a-2f1d0d0b6a11")

// WorkoutID derives a stable workout id from a session's start time and name,
// so importing the same export twice updates rather than duplicates. A
// non-empty owner (the importing user's id) is mixed in, so two users
// importing the same export never collide.
func WorkoutID(s Session, owner string) string {
	key := s.Start.Format(time.RFC3339) + "|" + s.Name
	if owner != "" {
		key = owner + "|" + key
	}
	return uuid.NewSHA1(idSpace, []byte(key)).String()
}

// ToWorkouts converts parsed sessions into workouts tagged with sport, with
// ids scoped to owner (see WorkoutID).
// Warmups are dropped; RPE is 10 − RIR snapped to the scale, and 0 where RIR
// was not tracked. Exercise qualities are filled from the library when the
// name is known.
func ToWorkouts(sessions []Session, sport, owner string) []models.Workout {
	out := make([]models.Workout, 0, len(sessions))
	for _, s := range sessions {
		w := models.Workout{
			ID:        WorkoutID(s, owner),
			Date:      models.DateOf(s.Start),
			Sport:     sport,
			Notes:     s.Name,
			Exercises: make([]models.Exercise, 0, len(s.Exercises)),
		}
		for _, ex := range s.Exercises {
			e := models.Exercise{Name: ex.Name, Sets: []models.Set{}}
			if lib, ok := models.LookupExercise(ex.Name); ok {
				e.Quality = lib.Quality
			}
			for _, set := range ex.Sets {
				if set.IsWarmup {
					continue
				}
				e.Sets = append(e.Sets, models.Set{WeightKg: set.WeightKg, Reps: set.Reps, RPE: rpeFromRIR(set)})
			}
			w.Exercises = append(w.Exercises, e)
		}
		out = append(out, w)
	}
	return out
}

func rpeFromRIR(s Set) models.RPE {
	if !s.RIRTracked {
		return 0
	}
	return models.SnapRPE(10 - s.RIR)
}
