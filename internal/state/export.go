package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/meltforce/athletelog/internal/models"
)

// Export returns the portable document for the current state.
func (c *Coordinator) Export(now time.Time) models.ExportDocument {
	s := c.Snapshot()
	ts := now.UTC()
	return models.ExportDocument{
		Profile:    &s.Profile,
		Workouts:   nonNil(s.Workouts),
		Biomarkers: nonNil(s.Biomarkers),
		ExportedAt: &ts,
	}
}

// WriteExport encodes Export(now) as indented JSON.
func (c *Coordinator) WriteExport(w io.Writer, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Export(now)); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

// Import replaces every field present in the document wholesale and persists
// everything. A document that cannot be parsed yields ErrInvalidFile and
// leaves the state untouched.
func (c *Coordinator) Import(ctx context.Context, r io.Reader) error {
	var doc struct {
		Profile    *models.Profile          `json:"profile"`
		Workouts   *[]models.Workout        `json:"workouts"`
		Biomarkers *[]models.BiomarkerEntry `json:"biomarkers"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if doc.Profile != nil {
		c.snap.Profile = *doc.Profile
	}
	if doc.Workouts != nil {
		c.snap.Workouts = slices.Clone(*doc.Workouts)
		c.lastWorkoutID = ""
	}
	if doc.Biomarkers != nil {
		bs := slices.Clone(*doc.Biomarkers)
		models.SortBiomarkers(bs)
		c.snap.Biomarkers = bs
		c.lastBiomarkerID = ""
	}
	return c.persistLocked(ctx, ScopeAll)
}
