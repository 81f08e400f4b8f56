// Package ingest holds what the file importers share.
package ingest

import (
	"context"
	"errors"

	"github.com/meltforce/athletelog/internal/models"
)

// ErrMalformed marks input that could not be parsed, as opposed to a failure
// to store what was parsed.
var ErrMalformed = errors.New("malformed import")

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int    `json:"workouts_received"`
	WorkoutsInserted int    `json:"workouts_inserted"`
	SetsReceived     int    `json:"sets_received"`
	SetsInserted     int64  `json:"sets_inserted"`
	Message          string `json:"message,omitempty"`
}

// Sink stores imported workouts. Workouts with an id that already exists
// replace the stored ones.
type Sink interface {
	AddWorkouts(ctx context.Context, ws []models.Workout) error
}
