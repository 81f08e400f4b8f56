package models

import "time"

// WorkoutRow is a row of the workouts table.
type WorkoutRow struct {
	ID        string
	UserID    string
	Date      time.Time
	Sport     string
	Notes     string
	UpdatedAt time.Time
}

// BiomarkerRow is a row of the biomarkers table.
type BiomarkerRow struct {
	ID       string
	UserID   string
	Date     time.Time
	Name     string
	Value    float64
	Unit     string
	Category string
}

// ToEntry converts the row to its domain form.
func (r BiomarkerRow) ToEntry() BiomarkerEntry {
	return BiomarkerEntry{
		ID:       r.ID,
		Date:     DateOf(r.Date),
		Name:     r.Name,
		Value:    r.Value,
		Unit:     r.Unit,
		Category: r.Category,
	}
}
