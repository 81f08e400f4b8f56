package models

import "math"

// RPE is a rate of perceived exertion on the 6–10 scale in half-point steps.
// Zero means the set was not rated.
type RPE float64

const (
	MinRPE RPE = 6
	MaxRPE RPE = 10

	// DefaultRPE is used for freshly added sets.
	DefaultRPE RPE = 8
)

// rpeDescriptions mirrors the coaching scale shown to athletes.
var rpeDescriptions = map[RPE]string{
	6:   "No effort, could talk easily",
	7:   "Very light, barely working",
	7.5: "Light, comfortable with reserve",
	8:   "Moderate, 2-3 reps left in tank",
	8.5: "Hard, 1-2 reps left",
	9:   "Very hard, 1 rep left in tank",
	9.5: "Near maximal effort",
	10:  "Absolute maximum, true PR attempt",
}

// Valid reports whether r lies on the scale.
func (r RPE) Valid() bool {
	if r < MinRPE || r > MaxRPE {
		return false
	}
	return math.Mod(float64(r)*2, 1) == 0
}

// Description returns the athlete-facing description, or "" if none exists.
func (r RPE) Description() string {
	return rpeDescriptions[r]
}

// SnapRPE rounds v to the nearest half point and clamps it onto the scale.
// Non-positive input means "not rated" and yields 0.
func SnapRPE(v float64) RPE {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	r := RPE(math.Round(v*2) / 2)
	if r < MinRPE {
		return MinRPE
	}
	if r > MaxRPE {
		return MaxRPE
	}
	return r
}

// RPEScale returns every valid RPE value in ascending order.
func RPEScale() []RPE {
	var out []RPE
	for r := MinRPE; r <= MaxRPE; r += 0.5 {
		out = append(out, r)
	}
	return out
}
