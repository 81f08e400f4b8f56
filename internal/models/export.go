package models

import "time"

// ExportDocument is the portable snapshot written by export. Import accepts
// partial documents and replaces only the fields present.
type ExportDocument struct {
	Profile    *Profile         `json:"profile"`
	Workouts   []Workout        `json:"workouts"`
	Biomarkers []BiomarkerEntry `json:"biomarkers"`
	ExportedAt *time.Time       `json:"exportedAt,omitempty"`
}
