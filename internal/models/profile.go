package models

import (
	"encoding/json"
	"fmt"
)

// Profile describes the athlete. There is exactly one per user; it is
// overwritten on every save and never deleted.
type Profile struct {
	Name       string  `json:"name"`
	Sport      string  `json:"sport"`
	Goal       string  `json:"goal"`
	Experience string  `json:"experience"`
	Age        int     `json:"age"`
	WeightKg   float64 `json:"weight"`
	HeightCm   float64 `json:"height"`
}

// SportOrDefault returns the profile's sport, falling back to General Fitness.
func (p Profile) SportOrDefault() string {
	if p.Sport == "" {
		return DefaultSport
	}
	return p.Sport
}

// UnmarshalJSON accepts age, weight and height as numbers or numeric strings
// (settings forms historically stored them as strings).
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string          `json:"name"`
		Sport      string          `json:"sport"`
		Goal       string          `json:"goal"`
		Experience string          `json:"experience"`
		Age        json.RawMessage `json:"age"`
		Weight     json.RawMessage `json:"weight"`
		Height     json.RawMessage `json:"height"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding profile: %w", err)
	}
	*p = Profile{
		Name:       raw.Name,
		Sport:      raw.Sport,
		Goal:       raw.Goal,
		Experience: raw.Experience,
		Age:        max(flexInt(raw.Age), 0),
		WeightKg:   nonNegative(flexFloat(raw.Weight)),
		HeightCm:   nonNegative(flexFloat(raw.Height)),
	}
	return nil
}
