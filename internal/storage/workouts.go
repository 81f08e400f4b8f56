package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/athletelog/internal/metrics"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/observability"
)

// UpsertWorkout writes a workout with its exercise sessions and sets in one
// transaction. Sessions are keyed by (workout_id, position) and sets by
// (session_id, position); rows beyond the workout's current length are
// deleted, so the stored structure always matches w exactly.
func (db *DB) UpsertWorkout(ctx context.Context, userID string, w models.Workout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx,
		`INSERT INTO workouts (id, user_id, date, sport, notes, updated_at)
		 VALUES ($1,$2,$3,$4,$5,NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   date = EXCLUDED.date, sport = EXCLUDED.sport, notes = EXCLUDED.notes, updated_at = NOW()
		 WHERE workouts.user_id = EXCLUDED.user_id
		 RETURNING id`,
		w.ID, userID, w.Date.Time(), w.Sport, w.Notes,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("workout %s: %w", w.ID, ErrNotOwner)
	}
	if err != nil {
		return fmt.Errorf("upserting workout %s: %w", w.ID, err)
	}

	for pos, ex := range w.Exercises {
		var sessionID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO exercise_sessions (workout_id, position, exercise_name, quality)
			 VALUES ($1,$2,$3,$4)
			 ON CONFLICT (workout_id, position) DO UPDATE SET
			   exercise_name = EXCLUDED.exercise_name, quality = EXCLUDED.quality
			 RETURNING id`,
			id, pos, ex.Name, ex.Quality,
		).Scan(&sessionID)
		if err != nil {
			return fmt.Errorf("upserting exercise %d of workout %s: %w", pos, id, err)
		}

		batch := &pgx.Batch{}
		for si, s := range ex.Sets {
			batch.Queue(
				`INSERT INTO sets (session_id, position, weight_kg, reps, rpe, e1rm)
				 VALUES ($1,$2,$3,$4,$5,$6)
				 ON CONFLICT (session_id, position) DO UPDATE SET
				   weight_kg = EXCLUDED.weight_kg, reps = EXCLUDED.reps,
				   rpe = EXCLUDED.rpe, e1rm = EXCLUDED.e1rm`,
				sessionID, si, s.WeightKg, s.Reps, float64(s.RPE), metrics.EstimatedOneRepMax(s.WeightKg, s.Reps))
		}
		batch.Queue(`DELETE FROM sets WHERE session_id = $1 AND position >= $2`, sessionID, len(ex.Sets))
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("writing sets of exercise %d of workout %s: %w", pos, id, err)
		}
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM exercise_sessions WHERE workout_id = $1 AND position >= $2`, id, len(w.Exercises))
	if err != nil {
		return fmt.Errorf("trimming exercises of workout %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing workout %s: %w", id, err)
	}
	observability.RecordWorkoutStored(time.Now())
	return nil
}

// workoutJoinRow is one row of the workouts ⟕ exercise_sessions ⟕ sets join.
// Session and set columns are nil for workouts without exercises or
// exercises without sets.
type workoutJoinRow struct {
	Workout models.WorkoutRow

	SessionID *int64
	Position  *int
	Name      *string
	Quality   *string

	SetPosition *int
	WeightKg    *float64
	Reps        *int
	RPE         *float64
}

// ListWorkouts returns the user's workouts, newest first, with exercises and
// sets in their stored order.
func (db *DB) ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT w.id, w.user_id::text, w.date, w.sport, w.notes, w.updated_at,
		        es.id, es.position, es.exercise_name, es.quality,
		        s.position, s.weight_kg, s.reps, s.rpe
		 FROM workouts w
		 LEFT JOIN exercise_sessions es ON es.workout_id = w.id
		 LEFT JOIN sets s ON s.session_id = es.id
		 WHERE w.user_id = $1
		 ORDER BY w.date DESC, w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var joined []workoutJoinRow
	for rows.Next() {
		var r workoutJoinRow
		if err := rows.Scan(
			&r.Workout.ID, &r.Workout.UserID, &r.Workout.Date, &r.Workout.Sport, &r.Workout.Notes, &r.Workout.UpdatedAt,
			&r.SessionID, &r.Position, &r.Name, &r.Quality,
			&r.SetPosition, &r.WeightKg, &r.Reps, &r.RPE,
		); err != nil {
			return nil, fmt.Errorf("scanning workout row: %w", err)
		}
		joined = append(joined, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assembleWorkouts(joined), nil
}

// assembleWorkouts rebuilds nested workouts from join rows. Workouts keep the
// order in which they first appear; exercises and sets are sorted by their
// stored position.
func assembleWorkouts(rows []workoutJoinRow) []models.Workout {
	type exAcc struct {
		pos  int
		ex   models.Exercise
		sets map[int]models.Set
	}
	type wAcc struct {
		w   models.Workout
		exs map[int64]*exAcc
	}

	var order []string
	byID := make(map[string]*wAcc)
	for _, r := range rows {
		acc, ok := byID[r.Workout.ID]
		if !ok {
			acc = &wAcc{
				w: models.Workout{
					ID:        r.Workout.ID,
					Date:      models.DateOf(r.Workout.Date),
					Sport:     r.Workout.Sport,
					Notes:     r.Workout.Notes,
					Exercises: []models.Exercise{},
				},
				exs: make(map[int64]*exAcc),
			}
			byID[r.Workout.ID] = acc
			order = append(order, r.Workout.ID)
		}
		if r.SessionID == nil {
			continue
		}
		ex, ok := acc.exs[*r.SessionID]
		if !ok {
			ex = &exAcc{pos: deref(r.Position), ex: models.Exercise{Name: deref(r.Name), Quality: deref(r.Quality)}, sets: make(map[int]models.Set)}
			acc.exs[*r.SessionID] = ex
		}
		if r.SetPosition == nil {
			continue
		}
		ex.sets[*r.SetPosition] = models.Set{WeightKg: deref(r.WeightKg), Reps: deref(r.Reps), RPE: models.RPE(deref(r.RPE))}
	}

	result := make([]models.Workout, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		exs := make([]*exAcc, 0, len(acc.exs))
		for _, e := range acc.exs {
			exs = append(exs, e)
		}
		sort.Slice(exs, func(i, j int) bool { return exs[i].pos < exs[j].pos })
		for _, e := range exs {
			positions := make([]int, 0, len(e.sets))
			for p := range e.sets {
				positions = append(positions, p)
			}
			sort.Ints(positions)
			e.ex.Sets = make([]models.Set, 0, len(positions))
			for _, p := range positions {
				e.ex.Sets = append(e.ex.Sets, e.sets[p])
			}
			acc.w.Exercises = append(acc.w.Exercises, e.ex)
		}
		result = append(result, acc.w)
	}
	return result
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// DeleteWorkout removes a workout and, by cascade, its exercises and sets.
func (db *DB) DeleteWorkout(ctx context.Context, userID, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	return nil
}
