package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/athletelog/internal/ingest"
)

// Provider turns Alpha Progression exports into workouts and hands them to a
// sink.
type Provider struct {
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(log *slog.Logger) *Provider {
	return &Provider{log: log}
}

// Ingest parses a CSV export and stores its workouts for owner, tagged with
// sport. Parse failures wrap ingest.ErrMalformed; sink failures are returned
// wrapped as they are.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, sport, owner string, sink ingest.Sink) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w: %w", ingest.ErrMalformed, err)
	}
	workouts := ToWorkouts(sessions, sport, owner)

	result := &ingest.Result{WorkoutsReceived: len(workouts)}
	var sets int
	for _, w := range workouts {
		sets += w.SetCount()
	}
	result.SetsReceived = sets

	if len(workouts) == 0 {
		result.Message = "no sessions found"
		return result, nil
	}
	if err := sink.AddWorkouts(ctx, workouts); err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}
	result.WorkoutsInserted = len(workouts)
	result.SetsInserted = int64(sets)
	result.Message = fmt.Sprintf("imported %d workouts (%d sets)", result.WorkoutsInserted, sets)

	p.log.Info("alpha import complete",
		"sessions", len(sessions),
		"workouts", result.WorkoutsInserted,
		"sets", result.SetsInserted,
	)
	return result, nil
}
