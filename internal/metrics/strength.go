// Package metrics derives training statistics from logged workouts. Every
// function is pure and total over well-formed input.
package metrics

import (
	"math"

	"github.com/meltforce/athletelog/internal/models"
)

// EstimatedOneRepMax returns the Brzycki one-rep-max estimate for a set,
// rounded to the nearest kilogram. Zero weight or reps yields 0 and a single
// rep yields the weight itself. For reps ≥ 37 the denominator is no longer
// positive and the result is meaningless; callers must guard against that.
func EstimatedOneRepMax(weightKg float64, reps int) float64 {
	if weightKg == 0 || reps == 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	return math.Round(weightKg / (1.0278 - 0.0278*float64(reps)))
}

// Record is the heaviest single set logged for an exercise.
type Record struct {
	WeightKg float64     `json:"weight"`
	Reps     int         `json:"reps"`
	Date     models.Date `json:"date"`
}

// PersonalRecords returns, per exercise name, the heaviest max-weight set
// across all workouts. Only the heaviest set of each exercise in a workout is
// considered. A later workout replaces the record only if strictly heavier,
// so ties keep whichever was seen first in iteration order.
func PersonalRecords(workouts []models.Workout) map[string]Record {
	prs := make(map[string]Record)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			i := ex.MaxWeightSet()
			if i < 0 {
				continue
			}
			top := ex.Sets[i]
			if cur, ok := prs[ex.Name]; ok && top.WeightKg <= cur.WeightKg {
				continue
			}
			prs[ex.Name] = Record{WeightKg: top.WeightKg, Reps: top.Reps, Date: w.Date}
		}
	}
	return prs
}

// TrainingStreak counts consecutive calendar days with at least one workout,
// walking back from ref over the distinct workout dates. A step of more than
// one day ends the streak.
func TrainingStreak(workouts []models.Workout, ref models.Date) int {
	dates := distinctDatesDesc(workouts)
	streak := 0
	cur := ref
	for _, d := range dates {
		if cur.DaysSince(d) > 1 {
			break
		}
		streak++
		cur = d
	}
	return streak
}
